// Copyright (c) 2025-2026 Grace Chapel Web Team
// SPDX-License-Identifier: GPL-3.0-or-later

// Package seo generates the sitemap and robots.txt for the public site.
package seo

import (
	"encoding/xml"
	"time"
)

// XMLNamespace is the sitemap XML namespace.
const XMLNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// ChangeFreq represents the change frequency of a URL.
type ChangeFreq string

// Valid change frequency values.
const (
	ChangeFreqDaily   ChangeFreq = "daily"
	ChangeFreqWeekly  ChangeFreq = "weekly"
	ChangeFreqMonthly ChangeFreq = "monthly"
	ChangeFreqYearly  ChangeFreq = "yearly"
)

// SitemapURL represents a single URL entry in the sitemap.
type SitemapURL struct {
	Loc        string     `xml:"loc"`
	LastMod    string     `xml:"lastmod,omitempty"`
	ChangeFreq ChangeFreq `xml:"changefreq,omitempty"`
	Priority   string     `xml:"priority,omitempty"`
}

// Sitemap represents the complete sitemap document.
type Sitemap struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []SitemapURL `xml:"url"`
}

// SitemapEvent contains the data needed to add an event page.
type SitemapEvent struct {
	Slug      string
	UpdatedAt time.Time
}

// SitemapBuilder builds sitemap XML for the public pages.
type SitemapBuilder struct {
	siteURL string
	urls    []SitemapURL
}

// NewSitemapBuilder creates a new sitemap builder.
func NewSitemapBuilder(siteURL string) *SitemapBuilder {
	return &SitemapBuilder{
		siteURL: siteURL,
		urls:    make([]SitemapURL, 0),
	}
}

// AddHomepage adds the homepage to the sitemap.
func (b *SitemapBuilder) AddHomepage() {
	b.urls = append(b.urls, SitemapURL{
		Loc:        b.siteURL,
		ChangeFreq: ChangeFreqDaily,
		Priority:   "1.0",
	})
}

// AddSection adds a top-level section page (events, gallery, newsletters,
// contact) to the sitemap.
func (b *SitemapBuilder) AddSection(path string) {
	b.urls = append(b.urls, SitemapURL{
		Loc:        b.siteURL + path,
		ChangeFreq: ChangeFreqWeekly,
		Priority:   "0.8",
	})
}

// AddEvent adds an event detail page to the sitemap.
func (b *SitemapBuilder) AddEvent(ev SitemapEvent) {
	url := SitemapURL{
		Loc:        b.siteURL + "/events/" + ev.Slug,
		ChangeFreq: ChangeFreqWeekly,
		Priority:   "0.6",
	}
	if !ev.UpdatedAt.IsZero() {
		url.LastMod = ev.UpdatedAt.Format(time.RFC3339)
	}
	b.urls = append(b.urls, url)
}

// AddEvents adds multiple event pages to the sitemap.
func (b *SitemapBuilder) AddEvents(events []SitemapEvent) {
	for _, e := range events {
		b.AddEvent(e)
	}
}

// Build generates the sitemap XML.
func (b *SitemapBuilder) Build() ([]byte, error) {
	sitemap := Sitemap{
		XMLNS: XMLNamespace,
		URLs:  b.urls,
	}

	output := []byte(xml.Header)
	xmlBytes, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return nil, err
	}

	return append(output, xmlBytes...), nil
}

// GenerateSitemap builds the full sitemap for the site.
func GenerateSitemap(siteURL string, events []SitemapEvent) ([]byte, error) {
	builder := NewSitemapBuilder(siteURL)
	builder.AddHomepage()
	builder.AddSection("/events")
	builder.AddSection("/gallery")
	builder.AddSection("/newsletters")
	builder.AddSection("/contact")
	builder.AddEvents(events)
	return builder.Build()
}
