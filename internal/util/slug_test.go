// Copyright (c) 2025-2026 Grace Chapel Web Team
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Hello World", "hello-world"},
		{"Youth Group Bible Study", "youth-group-bible-study"},
		{"Men's Breakfast", "mens-breakfast"},
		{"Café Connexion", "cafe-connexion"},
		{"  Leading and trailing  ", "leading-and-trailing"},
		{"Multiple --- hyphens", "multiple-hyphens"},
		{"UPPERCASE", "uppercase"},
		{"Symbols!@#$%", "symbols"},
		{"Vacation Bible School 2026", "vacation-bible-school-2026"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.want {
				t.Errorf("Slugify(%q) = %q; want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsValidSlug(t *testing.T) {
	tests := []struct {
		slug string
		want bool
	}{
		{"hello-world", true},
		{"event-2026", true},
		{"a", true},
		{"", false},
		{"-leading", false},
		{"trailing-", false},
		{"double--hyphen", false},
		{"UpperCase", false},
		{"has space", false},
		{"has_underscore", false},
	}

	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			if got := IsValidSlug(tt.slug); got != tt.want {
				t.Errorf("IsValidSlug(%q) = %v; want %v", tt.slug, got, tt.want)
			}
		})
	}
}
