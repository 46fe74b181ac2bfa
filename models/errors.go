// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"errors"
	"fmt"
)

var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("poll not found")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrTransientDelivery = errors.New("message or interaction no longer available")
)

// Validation details; both match ErrValidation with errors.Is.
var (
	ErrTooManyOptions = fmt.Errorf("%w: too many options", ErrValidation)
	ErrEmptyQuestion  = fmt.Errorf("%w: question is empty", ErrValidation)
)
