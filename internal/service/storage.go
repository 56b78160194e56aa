// Copyright (c) 2025-2026 Grace Chapel Web Team
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gracechapel/churchsite/internal/imaging"
	"github.com/gracechapel/churchsite/internal/model"
	"github.com/gracechapel/churchsite/internal/store"
)

// Upload limits.
const (
	MaxImageUploadSize = 10 * 1024 * 1024 // 10MB
	MaxPDFUploadSize   = 20 * 1024 * 1024 // 20MB
	DefaultUploadDir   = "./uploads"
)

// Upload folders under the uploads root.
const (
	FolderEvents      = "events"
	FolderGallery     = "gallery"
	FolderHero        = "hero"
	FolderNewsletters = "newsletters"
)

// StorageService handles uploaded files for events, the gallery, the
// homepage hero, and newsletter PDFs.
type StorageService struct {
	db        *sql.DB
	processor *imaging.Processor
	uploadDir string
}

// NewStorageService creates a new storage service.
func NewStorageService(db *sql.DB, uploadDir string) *StorageService {
	if uploadDir == "" {
		uploadDir = DefaultUploadDir
	}
	return &StorageService{
		db:        db,
		processor: imaging.NewProcessor(uploadDir),
		uploadDir: uploadDir,
	}
}

// UploadEventImage stores an event photo and returns its path relative to
// the uploads root, e.g. "events/5f0c....jpg".
func (s *StorageService) UploadEventImage(file multipart.File, header *multipart.FileHeader) (string, error) {
	filename, err := s.checkImageUpload(file, header)
	if err != nil {
		return "", err
	}

	if _, err := s.processor.ProcessImage(file, FolderEvents, filename); err != nil {
		return "", err
	}
	return path.Join(FolderEvents, filename), nil
}

// UploadGalleryImage processes a gallery photo, generates its thumbnail,
// and stores the database record.
func (s *StorageService) UploadGalleryImage(ctx context.Context, file multipart.File, header *multipart.FileHeader, altText, category string, userID int64) (model.GalleryImage, error) {
	filename, err := s.checkImageUpload(file, header)
	if err != nil {
		return model.GalleryImage{}, err
	}

	result, err := s.processor.ProcessImage(file, FolderGallery, filename)
	if err != nil {
		return model.GalleryImage{}, err
	}

	if _, err := s.processor.CreateThumbnail(result.FilePath, FolderGallery, filename); err != nil {
		_ = s.processor.DeleteFile(path.Join(FolderGallery, filename))
		return model.GalleryImage{}, fmt.Errorf("failed to create thumbnail: %w", err)
	}

	queries := store.New(s.db)
	img, err := queries.CreateGalleryImage(ctx, store.CreateGalleryImageParams{
		FilePath:  path.Join(FolderGallery, filename),
		ThumbPath: path.Join(FolderGallery, "thumbs", filename),
		AltText:   altText,
		Category:  category,
		Width:     int64(result.Width),
		Height:    int64(result.Height),
		CreatedBy: userID,
		CreatedAt: time.Now(),
	})
	if err != nil {
		_ = s.processor.DeleteFile(path.Join(FolderGallery, filename))
		_ = s.processor.DeleteFile(path.Join(FolderGallery, "thumbs", filename))
		return model.GalleryImage{}, err
	}

	return img, nil
}

// DeleteGalleryImage removes a gallery record and its files.
func (s *StorageService) DeleteGalleryImage(ctx context.Context, id int64) error {
	queries := store.New(s.db)

	img, err := queries.GetGalleryImageByID(ctx, id)
	if err != nil {
		return err
	}

	if err := queries.DeleteGalleryImage(ctx, id); err != nil {
		return err
	}

	// DB record is gone, stale files are only a disk-space concern
	_ = s.processor.DeleteFile(img.FilePath)
	_ = s.processor.DeleteFile(img.ThumbPath)
	return nil
}

// UploadHeroImage stores the homepage banner, center-cropped to the hero
// dimensions, and records its path in settings.
func (s *StorageService) UploadHeroImage(ctx context.Context, file multipart.File, header *multipart.FileHeader) (string, error) {
	filename, err := s.checkImageUpload(file, header)
	if err != nil {
		return "", err
	}

	result, err := s.processor.ProcessImage(file, FolderHero, filename)
	if err != nil {
		return "", err
	}

	cropName := "hero-" + filename
	if _, err := s.processor.CreateHeroCrop(result.FilePath, FolderHero, cropName); err != nil {
		_ = s.processor.DeleteFile(path.Join(FolderHero, filename))
		return "", fmt.Errorf("failed to crop hero image: %w", err)
	}

	// The uncropped upload is no longer needed
	_ = s.processor.DeleteFile(path.Join(FolderHero, filename))

	relPath := path.Join(FolderHero, cropName)
	queries := store.New(s.db)
	if err := queries.UpsertSetting(ctx, store.UpsertSettingParams{
		Key:       store.SettingHeroImage,
		Value:     relPath,
		UpdatedAt: time.Now(),
	}); err != nil {
		return "", err
	}

	return relPath, nil
}

// UploadNewsletterPDF stores a newsletter PDF and returns its path relative
// to the uploads root.
func (s *StorageService) UploadNewsletterPDF(file multipart.File, header *multipart.FileHeader) (string, error) {
	if header.Size > MaxPDFUploadSize {
		return "", fmt.Errorf("file size exceeds maximum allowed (%d bytes)", MaxPDFUploadSize)
	}

	head := make([]byte, 512)
	n, err := file.Read(head)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	head = head[:n]
	if !bytes.HasPrefix(head, []byte("%PDF-")) {
		return "", fmt.Errorf("file is not a PDF")
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to rewind upload: %w", err)
	}

	filename := uuid.New().String() + ".pdf"
	if err := s.saveFile(FolderNewsletters, filename, file); err != nil {
		return "", err
	}
	return path.Join(FolderNewsletters, filename), nil
}

// DeleteFile removes a stored file given its path relative to the uploads root.
func (s *StorageService) DeleteFile(relPath string) error {
	return s.processor.DeleteFile(relPath)
}

// checkImageUpload validates size and MIME type and returns the generated
// storage filename. The file is rewound before returning.
func (s *StorageService) checkImageUpload(file multipart.File, header *multipart.FileHeader) (string, error) {
	if header.Size > MaxImageUploadSize {
		return "", fmt.Errorf("file size exceeds maximum allowed (%d bytes)", MaxImageUploadSize)
	}

	// Sniff the content rather than trusting the client header
	head := make([]byte, 512)
	n, err := file.Read(head)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	mimeType := s.processor.DetectMimeType(head[:n])
	if !model.IsSupportedImageType(mimeType) {
		return "", fmt.Errorf("file type %s is not allowed", mimeType)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to rewind upload: %w", err)
	}

	return uuid.New().String() + extensionForMime(mimeType), nil
}

// saveFile writes a non-image file under the uploads root.
func (s *StorageService) saveFile(folder, filename string, r io.Reader) error {
	dir := filepath.Join(s.uploadDir, folder)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	filePath := filepath.Join(dir, filepath.Base(filename))
	out, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, r); err != nil {
		_ = os.Remove(filePath)
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

func extensionForMime(mimeType string) string {
	switch strings.ToLower(mimeType) {
	case model.MimeTypeJPEG:
		return ".jpg"
	case model.MimeTypePNG:
		return ".png"
	case model.MimeTypeGIF:
		return ".gif"
	case model.MimeTypeWebP:
		// WebP uploads are re-encoded to JPEG
		return ".jpg"
	default:
		return ".bin"
	}
}
