// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package render turns poll state into message text and controls.

Everything here is pure: no store or platform access.

# Message Format

	**Lunch?**

	Poll Results:
	Pizza: 3 votes - 75%
	Tacos: 1 vote - 25%

	Poll ID: 42

Percentages are rounded to the nearest integer and are 0 when nobody has
voted. The trailing marker is what ParsePollID reads back after a restart.

# Controls

Each option gets a button whose ControlID encodes the poll and option; the
viewer's own votes are marked. An admin viewer also gets a Delete Poll
button. ParseControlID turns an incoming custom ID back into a ControlID.
*/
package render
