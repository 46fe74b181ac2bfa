// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize/english"

	"github.com/danielhkuo/pollbot/models"
)

// PollIDMarker precedes the poll ID on the last line of every poll message.
const PollIDMarker = "Poll ID: "

const (
	votedSuffix       = " ✔️"
	deleteButtonLabel = "Delete Poll"
)

type Style int

const (
	StylePrimary Style = iota + 1
	StyleSuccess
	StyleDanger
)

// Control is one interactive button on a poll message.
type Control struct {
	ID    ControlID
	Label string
	Style Style
}

// Message is a rendered poll: text plus its controls in display order.
type Message struct {
	Content  string
	Controls []Control
}

// Poll renders poll state for one viewer. Options the viewer voted for are
// marked; the delete control is included only when showDelete is set.
func Poll(data models.PollData, userVotes map[int64]bool, showDelete bool) Message {
	return Message{
		Content:  Text(data),
		Controls: Controls(data, userVotes, showDelete),
	}
}

// Text renders the poll body with counts, percentages, and the poll ID marker.
func Text(data models.PollData) string {
	total := data.TotalVotes()

	var b strings.Builder
	fmt.Fprintf(&b, "**%s**\n\nPoll Results:\n", data.Question)
	for _, opt := range data.Options {
		fmt.Fprintf(&b, "%s: %s - %d%%\n", opt.Label, english.Plural(opt.Votes, "vote", "votes"), Percent(opt.Votes, total))
	}
	fmt.Fprintf(&b, "\n%s%d", PollIDMarker, data.PollID)

	return b.String()
}

// Percent returns votes as a whole percentage of total, 0 when total is 0.
func Percent(votes, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(votes) / float64(total) * 100))
}

// Controls builds one vote control per option followed by the optional delete control.
func Controls(data models.PollData, userVotes map[int64]bool, showDelete bool) []Control {
	controls := make([]Control, 0, len(data.Options)+1)
	for _, opt := range data.Options {
		c := Control{
			ID:    ControlID{Action: ActionVote, PollID: data.PollID, OptionID: opt.ID},
			Label: opt.Label,
			Style: StylePrimary,
		}
		if userVotes[opt.ID] {
			c.Label += votedSuffix
			c.Style = StyleSuccess
		}
		controls = append(controls, c)
	}

	if showDelete {
		controls = append(controls, Control{
			ID:    ControlID{Action: ActionDelete, PollID: data.PollID},
			Label: deleteButtonLabel,
			Style: StyleDanger,
		})
	}

	return controls
}

// ParsePollID extracts the poll ID from rendered message content. It reads
// the digits after the last marker up to the end of that line.
func ParsePollID(content string) (int64, bool) {
	idx := strings.LastIndex(content, PollIDMarker)
	if idx < 0 {
		return 0, false
	}

	rest := content[idx+len(PollIDMarker):]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[:nl]
	}

	id, err := strconv.ParseInt(strings.TrimSpace(rest), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
