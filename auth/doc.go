// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth holds the permission checks for poll administration.

The bot trusts the user identity and permission bits supplied by the chat
platform; nothing here talks to the network.

# Administrators

	admin := auth.IsAdministrator(member.Permissions)
	if err := auth.RequireAdmin(actor); err != nil {
		// errors.Is(err, models.ErrPermissionDenied)
	}

RequireAdmin also fails outside a server, since polls are owned by servers.

# Confirmation

Deleting a poll requires typing a phrase. CheckConfirmation ignores
surrounding whitespace and case:

	auth.CheckConfirmation(" delete ", "DELETE") // true
*/
package auth
