// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package session connects platform events to the poll store.

A Session binds one poll to the message that displays it and moves through
three states:

	Uninitialized -> Active -> Deleted

A session becomes Active once its message is sent (CreatePoll), found in
channel history at startup (Recover), or first voted on after a restart.
Deleted is terminal.

# Flows

	CreatePoll     validate, ack, store, send, reply "Poll N created."
	Vote           ack, cast through the vote engine, re-render, edit in place
	DeleteTrigger  admin check, open the confirmation dialog
	DeleteCommand  admin check, locate the message, open the dialog
	ConfirmDelete  admin check, typed phrase, delete from store, delete message

Refreshing and editing one poll hold its session lock, so a slow edit never
overwrites a newer render.

# Failures

Every failure reaches the user as one ephemeral notice. A message or
interaction that no longer exists gives "This poll is no longer available.
Please try again." and leaves the session as it was. Store and platform
errors that are not classified are logged with op and poll_id and shown as
a generic notice.

# Recovery

Recover lists text channels, reads up to HistoryLimit recent messages from
each (a few channels at a time, via errgroup), and re-binds bot-authored
messages whose "Poll ID: N" trailer names an existing poll. Recovered
sessions render without the delete control; admins delete them with the
deletepoll command.
*/
package session
