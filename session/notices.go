// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import "fmt"

// Ephemeral notices shown to the acting user
const (
	NoticeNotInServer    = "This command must be used in a server."
	NoticeEmptyQuestion  = "The poll question cannot be empty."
	NoticeTooFewOptions  = "You need at least two options to create a poll."
	NoticeTooManyOptions = "A poll can have at most 24 options."
	NoticeInvalidVote    = "That vote could not be recorded."
	NoticeUnavailable    = "This poll is no longer available. Please try again."
	NoticeNotAdmin       = "You must be an administrator to delete a poll."
	NoticeNotFound       = "Poll not found or already deleted."
	NoticeDeleteCanceled = "Deletion canceled."
	NoticeFailed         = "An error occurred while processing the poll."
)

func createdNotice(pollID int64) string {
	return fmt.Sprintf("Poll %d created.", pollID)
}

func deletedNotice(pollID int64) string {
	return fmt.Sprintf("Poll %d has been deleted.", pollID)
}

func deletedMessageKeptNotice(pollID int64) string {
	return fmt.Sprintf("Poll %d has been deleted, but its message could not be removed.", pollID)
}
