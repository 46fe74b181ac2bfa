// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package discord connects the session controller to Discord through discordgo.

Platform implements session.Platform over the REST API: poll messages are sent
and edited with their buttons laid out five to a row, and history is paged
backwards 100 messages at a time. REST errors for unknown messages, channels,
webhooks, or interactions are reported as models.ErrTransientDelivery.

Bot owns the gateway connection. On Ready it overwrites the createpoll and
deletepoll commands (in GUILD_ID only when set) and runs recovery. Every
interaction is decoded by route and run through middleware.HandleEvent:

	application command  createpoll / deletepoll
	button               poll:vote:<poll>:<option> / poll:delete:<poll>
	modal submit         poll:confirm:<poll>:<channel>:<message>

Interactions with custom IDs from other bots are logged and ignored.
*/
package discord
