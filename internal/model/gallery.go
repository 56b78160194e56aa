// Copyright (c) 2025-2026 Grace Chapel Web Team
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Supported upload MIME types.
const (
	MimeTypeJPEG = "image/jpeg"
	MimeTypePNG  = "image/png"
	MimeTypeGIF  = "image/gif"
	MimeTypeWebP = "image/webp"
	MimeTypePDF  = "application/pdf"
)

// GalleryImage represents a photo in the public gallery.
type GalleryImage struct {
	ID        int64
	FilePath  string
	ThumbPath string
	AltText   string
	Category  string
	Width     int64
	Height    int64
	CreatedBy int64
	CreatedAt time.Time
}

// SupportedImageTypes returns the image MIME types accepted for upload.
func SupportedImageTypes() []string {
	return []string{MimeTypeJPEG, MimeTypePNG, MimeTypeGIF, MimeTypeWebP}
}

// IsSupportedImageType checks if a MIME type is an accepted image type.
func IsSupportedImageType(mimeType string) bool {
	for _, t := range SupportedImageTypes() {
		if t == mimeType {
			return true
		}
	}
	return false
}
