// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package discord

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"

	"github.com/danielhkuo/pollbot/models"
)

func restError(status, code int) *discordgo.RESTError {
	return &discordgo.RESTError{
		Response: &http.Response{StatusCode: status},
		Message:  &discordgo.APIErrorMessage{Code: code},
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		transient bool
	}{
		{"unknown message", restError(http.StatusNotFound, codeUnknownMessage), true},
		{"unknown interaction", restError(http.StatusNotFound, codeUnknownInteraction), true},
		{"unknown channel", restError(http.StatusNotFound, codeUnknownChannel), true},
		{"bare not found", restError(http.StatusNotFound, 0), true},
		{"wrapped", fmt.Errorf("edit: %w", restError(http.StatusNotFound, codeUnknownMessage)), true},
		{"missing access", restError(http.StatusForbidden, 50001), false},
		{"server error", restError(http.StatusInternalServerError, 0), false},
		{"not a rest error", errors.New("dial tcp: timeout"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.err)
			assert.Equal(t, tt.transient, errors.Is(got, models.ErrTransientDelivery))
			assert.ErrorIs(t, got, tt.err)
		})
	}

	assert.NoError(t, classify(nil))
}
