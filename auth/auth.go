// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"fmt"
	"strings"

	"github.com/danielhkuo/pollbot/models"
)

// PermissionAdministrator is the platform's administrator permission bit.
const PermissionAdministrator int64 = 1 << 3

// IsAdministrator reports whether a member permission set grants administrator.
func IsAdministrator(permissions int64) bool {
	return permissions&PermissionAdministrator != 0
}

// RequireAdmin fails with models.ErrPermissionDenied unless the actor is an
// administrator of a server.
func RequireAdmin(actor models.Actor) error {
	if actor.ScopeID == "" || !actor.IsAdmin {
		return fmt.Errorf("user %s: %w", actor.UserID, models.ErrPermissionDenied)
	}
	return nil
}

// CheckConfirmation compares a typed confirmation with the expected phrase,
// ignoring surrounding whitespace and case.
func CheckConfirmation(value, phrase string) bool {
	return strings.EqualFold(strings.TrimSpace(value), phrase)
}
