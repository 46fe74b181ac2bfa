// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const (
	MinOptions = 2
	// One control row slot is reserved for the delete control.
	MaxOptions = 24
)

// SplitOptions splits the comma separated option list of the createpoll command.
func SplitOptions(raw string) []string {
	return strings.Split(raw, ",")
}

// NormalizeOptions trims every label, drops blank and duplicate labels and
// checks the remaining count. Duplicates are compared in NFC form; the first
// occurrence keeps its position.
func NormalizeOptions(labels []string) ([]string, error) {
	seen := make(map[string]bool, len(labels))
	out := make([]string, 0, len(labels))
	for _, label := range labels {
		label = norm.NFC.String(strings.TrimSpace(label))
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		out = append(out, label)
	}

	if len(out) < MinOptions {
		return nil, fmt.Errorf("%w: need at least %d options, got %d", ErrValidation, MinOptions, len(out))
	}
	if len(out) > MaxOptions {
		return nil, fmt.Errorf("%w: at most %d allowed, got %d", ErrTooManyOptions, MaxOptions, len(out))
	}
	return out, nil
}

// NormalizeQuestion trims the question and rejects a blank one.
func NormalizeQuestion(question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", ErrEmptyQuestion
	}
	return question, nil
}
