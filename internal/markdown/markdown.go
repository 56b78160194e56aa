// Copyright (c) 2025-2026 Grace Chapel Web Team
// SPDX-License-Identifier: GPL-3.0-or-later

// Package markdown renders Markdown descriptions to sanitized HTML for
// templates. Output passes through bluemonday's UGC policy so event and
// newsletter descriptions written by admins cannot inject scripts.
package markdown

import (
	"bytes"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

var sanitizer = bluemonday.UGCPolicy()

// Render converts Markdown to sanitized HTML.
func Render(source string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	//nolint:gosec // sanitized by bluemonday above
	return template.HTML(sanitizer.SanitizeBytes(buf.Bytes())), nil
}

// RenderOrPlain converts Markdown to sanitized HTML, falling back to the
// escaped source text on conversion failure.
func RenderOrPlain(source string) template.HTML {
	out, err := Render(source)
	if err != nil {
		return template.HTML(template.HTMLEscapeString(source)) //nolint:gosec // escaped
	}
	return out
}
