// Copyright (c) 2025-2026 Grace Chapel Web Team
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// InviteTokenLen is the number of random bytes in an invite token.
const InviteTokenLen = 32

// NewInviteToken generates a URL-safe random token for the admin invite flow.
func NewInviteToken() (string, error) {
	b := make([]byte, InviteTokenLen)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating invite token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
