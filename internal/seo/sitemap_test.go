// Copyright (c) 2025-2026 Grace Chapel Web Team
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"encoding/xml"
	"strings"
	"testing"
	"time"
)

const testSiteURL = "https://gracechapel.example.com"

func TestGenerateSitemap(t *testing.T) {
	events := []SitemapEvent{
		{Slug: "harvest-dinner", UpdatedAt: time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)},
		{Slug: "youth-group"},
	}

	out, err := GenerateSitemap(testSiteURL, events)
	if err != nil {
		t.Fatalf("GenerateSitemap: %v", err)
	}

	var parsed Sitemap
	if err := xml.Unmarshal(out, &parsed); err != nil {
		t.Fatalf("output is not valid XML: %v", err)
	}
	if parsed.XMLNS != XMLNamespace {
		t.Errorf("xmlns = %q", parsed.XMLNS)
	}

	// Homepage, four sections, two events.
	if len(parsed.URLs) != 7 {
		t.Fatalf("URL count = %d; want 7", len(parsed.URLs))
	}
	if parsed.URLs[0].Loc != testSiteURL || parsed.URLs[0].Priority != "1.0" {
		t.Errorf("homepage entry = %+v", parsed.URLs[0])
	}

	locs := make(map[string]SitemapURL)
	for _, u := range parsed.URLs {
		locs[u.Loc] = u
	}
	for _, section := range []string{"/events", "/gallery", "/newsletters", "/contact"} {
		if _, ok := locs[testSiteURL+section]; !ok {
			t.Errorf("section %s missing", section)
		}
	}

	ev, ok := locs[testSiteURL+"/events/harvest-dinner"]
	if !ok {
		t.Fatal("event page missing")
	}
	if ev.LastMod != "2026-09-01T12:00:00Z" {
		t.Errorf("lastmod = %q", ev.LastMod)
	}

	// An event without a timestamp omits lastmod entirely.
	if locs[testSiteURL+"/events/youth-group"].LastMod != "" {
		t.Error("zero timestamp should omit lastmod")
	}
}

func TestGenerateSitemap_NoEvents(t *testing.T) {
	out, err := GenerateSitemap(testSiteURL, nil)
	if err != nil {
		t.Fatalf("GenerateSitemap: %v", err)
	}

	var parsed Sitemap
	if err := xml.Unmarshal(out, &parsed); err != nil {
		t.Fatalf("output is not valid XML: %v", err)
	}
	if len(parsed.URLs) != 5 {
		t.Errorf("URL count = %d; want 5", len(parsed.URLs))
	}
}

func TestGenerateRobots(t *testing.T) {
	out := GenerateRobots(testSiteURL, false)

	for _, path := range []string{"/admin", "/login", "/logout", "/invite"} {
		if !strings.Contains(out, "Disallow: "+path+"\n") {
			t.Errorf("missing Disallow for %s", path)
		}
	}
	if !strings.Contains(out, "Allow: /\n") {
		t.Error("missing Allow directive")
	}
	if !strings.Contains(out, "Sitemap: "+testSiteURL+"/sitemap.xml") {
		t.Error("missing sitemap reference")
	}
}

func TestGenerateRobots_DisallowAll(t *testing.T) {
	out := GenerateRobots(testSiteURL, true)

	if !strings.Contains(out, "Disallow: /\n") {
		t.Error("staging mode should block everything")
	}
	if strings.Contains(out, "Sitemap:") {
		t.Error("blocked site should not advertise a sitemap")
	}
}

func TestRobotsBuilder_ExtraPaths(t *testing.T) {
	out := NewRobotsBuilder(RobotsConfig{
		SiteURL:       testSiteURL + "/",
		DisallowPaths: []string{"/uploads/private"},
	}).Build()

	if !strings.Contains(out, "Disallow: /uploads/private\n") {
		t.Error("extra disallow path missing")
	}
	// Trailing slash on the site URL is not doubled.
	if !strings.Contains(out, "Sitemap: "+testSiteURL+"/sitemap.xml") {
		t.Errorf("sitemap line malformed:\n%s", out)
	}
}
