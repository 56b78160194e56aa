// Copyright (c) 2025-2026 Grace Chapel Web Team
// SPDX-License-Identifier: GPL-3.0-or-later

package markdown

import (
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   []string
	}{
		{
			name:   "basic formatting",
			source: "**Join us** for _worship_",
			want:   []string{"<strong>Join us</strong>", "<em>worship</em>"},
		},
		{
			name:   "links survive sanitization",
			source: "[directions](https://maps.example.com/chapel)",
			want:   []string{`href="https://maps.example.com/chapel"`},
		},
		{
			name:   "gfm strikethrough",
			source: "~~cancelled~~ rescheduled",
			want:   []string{"<del>cancelled</del>"},
		},
		{
			name:   "hard wraps",
			source: "line one\nline two",
			want:   []string{"<br"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(tt.source)
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(string(got), want) {
					t.Errorf("output missing %q:\n%s", want, got)
				}
			}
		})
	}
}

func TestRender_StripsScripts(t *testing.T) {
	tests := []string{
		`<script>alert("xss")</script>`,
		`<img src=x onerror="alert(1)">`,
		`[click](javascript:alert(1))`,
	}

	for _, source := range tests {
		got, err := Render(source)
		if err != nil {
			t.Fatalf("Render(%q): %v", source, err)
		}
		out := string(got)
		if strings.Contains(out, "<script") || strings.Contains(out, "onerror") || strings.Contains(out, "javascript:") {
			t.Errorf("unsafe output for %q:\n%s", source, out)
		}
	}
}

func TestRenderOrPlain(t *testing.T) {
	got := RenderOrPlain("Coffee & donuts **after** the service")
	if !strings.Contains(string(got), "<strong>after</strong>") {
		t.Errorf("output = %s", got)
	}
}
