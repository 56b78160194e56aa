// Copyright (c) 2025-2026 Grace Chapel Web Team
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the root path.
	RouteRoot = "/"
	// RouteSuffixNew is the suffix for "new" routes.
	RouteSuffixNew = "/new"
	// RouteSuffixDelete is the suffix for delete routes.
	RouteSuffixDelete = "/delete"
	// RouteSuffixToggle is the suffix for toggle routes.
	RouteSuffixToggle = "/toggle"

	// RouteParamID is the ID parameter pattern.
	RouteParamID = "/{id}"
	// RouteParamSlug is the slug parameter pattern.
	RouteParamSlug = "/{slug}"
	// RouteParamToken is the invite token route pattern.
	RouteParamToken = "/{token}"

	// RouteLogin is the login route.
	RouteLogin = "/login"
	// RouteLogout is the logout route.
	RouteLogout = "/logout"
	// RouteInvite is the invite acceptance route.
	RouteInvite = "/invite"

	// RouteEvents is the events route (public listing and admin section).
	RouteEvents = "/events"
	// RouteGallery is the gallery route.
	RouteGallery = "/gallery"
	// RouteNewsletters is the newsletters route.
	RouteNewsletters = "/newsletters"
	// RouteAlerts is the alerts admin route.
	RouteAlerts = "/alerts"
	// RouteUsers is the users admin route.
	RouteUsers = "/users"
	// RouteAudit is the audit log admin route.
	RouteAudit = "/audit"
	// RouteSettings is the site settings admin route.
	RouteSettings = "/settings"
	// RouteContact is the contact page route.
	RouteContact = "/contact"

	// RouteEventsID is the events ID route pattern.
	RouteEventsID = RouteEvents + RouteParamID
	// RouteGalleryID is the gallery ID route pattern.
	RouteGalleryID = RouteGallery + RouteParamID
	// RouteNewslettersID is the newsletters ID route pattern.
	RouteNewslettersID = RouteNewsletters + RouteParamID
	// RouteAlertsID is the alerts ID route pattern.
	RouteAlertsID = RouteAlerts + RouteParamID
	// RouteUsersID is the users ID route pattern.
	RouteUsersID = RouteUsers + RouteParamID
)

const (
	redirectAdmin               = "/admin"
	redirectAdminEvents         = redirectAdmin + RouteEvents
	redirectAdminEventsNew      = redirectAdminEvents + RouteSuffixNew
	redirectAdminGallery        = redirectAdmin + RouteGallery
	redirectAdminNewsletters    = redirectAdmin + RouteNewsletters
	redirectAdminNewslettersNew = redirectAdminNewsletters + RouteSuffixNew
	redirectAdminAlerts         = redirectAdmin + RouteAlerts
	redirectAdminUsers          = redirectAdmin + RouteUsers
	redirectAdminUsersNew       = redirectAdminUsers + RouteSuffixNew
	redirectAdminSettings       = redirectAdmin + RouteSettings
	redirectLogin               = RouteLogin

	redirectAdminEventsID      = redirectAdminEvents + "/%d"
	redirectAdminNewslettersID = redirectAdminNewsletters + "/%d"
	redirectAdminUsersID       = redirectAdminUsers + "/%d"
)
