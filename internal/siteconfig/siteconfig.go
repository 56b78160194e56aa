// Copyright (c) 2025-2026 Grace Chapel Web Team
// SPDX-License-Identifier: GPL-3.0-or-later

// Package siteconfig loads and validates the church identity document: a
// JSON file supplying the church's name, address, contact info, service
// times, and social links to the public templates.
package siteconfig

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
)

// ServiceTime describes one recurring service slot.
type ServiceTime struct {
	Day   string `json:"day" validate:"required"`
	Time  string `json:"time" validate:"required"`
	Label string `json:"label"`
}

// Address is the church's physical location.
type Address struct {
	Street string `json:"street" validate:"required"`
	City   string `json:"city" validate:"required"`
	State  string `json:"state" validate:"required"`
	Zip    string `json:"zip" validate:"required"`
}

// SocialLinks holds the optional social media URLs.
type SocialLinks struct {
	Facebook  string `json:"facebook" validate:"omitempty,url"`
	Instagram string `json:"instagram" validate:"omitempty,url"`
	YouTube   string `json:"youtube" validate:"omitempty,url"`
}

// Site is the validated identity document.
type Site struct {
	Name         string        `json:"name" validate:"required"`
	Tagline      string        `json:"tagline"`
	Address      Address       `json:"address" validate:"required"`
	Phone        string        `json:"phone" validate:"required"`
	Email        string        `json:"email" validate:"required,email"`
	ServiceTimes []ServiceTime `json:"service_times" validate:"required,min=1,dive"`
	Social       SocialLinks   `json:"social"`
	HeroImage    string        `json:"hero_image"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads and validates the identity document at path.
func Load(path string) (*Site, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading site config: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates an identity document.
func Parse(data []byte) (*Site, error) {
	var site Site
	if err := json.Unmarshal(data, &site); err != nil {
		return nil, fmt.Errorf("parsing site config: %w", err)
	}
	if err := validate.Struct(&site); err != nil {
		return nil, fmt.Errorf("validating site config: %w", err)
	}
	return &site, nil
}

// FullAddress returns the address as a single display line.
func (s *Site) FullAddress() string {
	return fmt.Sprintf("%s, %s, %s %s", s.Address.Street, s.Address.City, s.Address.State, s.Address.Zip)
}
