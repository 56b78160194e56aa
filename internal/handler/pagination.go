// Copyright (c) 2025-2026 Grace Chapel Web Team
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"fmt"
	"net/http"
	"strconv"
)

// defaultPerPage is the item count per admin list page.
const defaultPerPage = 25

// AdminPagination holds pagination data for admin templates.
type AdminPagination struct {
	CurrentPage int
	TotalPages  int
	TotalItems  int64
	PerPage     int
	HasPrev     bool
	HasNext     bool
	PrevPage    int
	NextPage    int
	BaseURL     string
}

// parsePage extracts the page query parameter, defaulting to 1.
func parsePage(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// BuildAdminPagination creates pagination data for admin templates.
// baseURL is the path without query string, e.g. "/admin/users".
func BuildAdminPagination(currentPage int, totalItems int64, perPage int, baseURL string) AdminPagination {
	totalPages := int((totalItems + int64(perPage) - 1) / int64(perPage))
	if totalPages < 1 {
		totalPages = 1
	}
	if currentPage > totalPages {
		currentPage = totalPages
	}

	return AdminPagination{
		CurrentPage: currentPage,
		TotalPages:  totalPages,
		TotalItems:  totalItems,
		PerPage:     perPage,
		HasPrev:     currentPage > 1,
		HasNext:     currentPage < totalPages,
		PrevPage:    currentPage - 1,
		NextPage:    currentPage + 1,
		BaseURL:     baseURL,
	}
}

// PageURL returns the URL for a specific page number.
func (p AdminPagination) PageURL(page int) string {
	return fmt.Sprintf("%s?page=%d", p.BaseURL, page)
}

// PrevURL returns the URL for the previous page.
func (p AdminPagination) PrevURL() string {
	return p.PageURL(p.PrevPage)
}

// NextURL returns the URL for the next page.
func (p AdminPagination) NextURL() string {
	return p.PageURL(p.NextPage)
}

// ShouldShow returns true if pagination should be displayed.
func (p AdminPagination) ShouldShow() bool {
	return p.TotalPages > 1
}
