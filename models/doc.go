// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the domain, event, and error types shared by the bot.

# Domain Types

  - Poll: question and owning server
  - Option: one choice with its denormalized vote count
  - Vote: one (poll, user, option) selection
  - PollData: a poll with its options in display order

# Events

Platform events are translated into plain structs before they reach the
session controller:

  - CreatePollCommand: /createpoll
  - VoteEvent: an option button press
  - DeleteEvent: the delete button on a poll message
  - DeleteCommand: /deletepoll
  - ConfirmEvent: the typed confirmation dialog

Each carries an Actor with the user id, server id, and admin flag supplied by
the platform.

# Vote Policies

	PolicyToggle = "toggle" // pressing a voted option removes the vote
	PolicyWarn   = "warn"   // pressing a voted option is rejected with a warning

# Errors

	ErrValidation        // bad input, reported to the caller only
	ErrNotFound          // unknown poll, or poll owned by another server
	ErrPermissionDenied  // non-admin delete
	ErrTransientDelivery // platform message or interaction expired

Everything else is treated as a store or platform failure.

# Option Normalization

NormalizeOptions trims labels, drops blanks and duplicates, and enforces
MinOptions and MaxOptions:

	labels, err := models.NormalizeOptions(models.SplitOptions("a, ,b"))
	// labels == []string{"a", "b"}
*/
package models
