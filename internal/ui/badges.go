package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/Makepad-fr/tadalists/internal/due"
	"github.com/Makepad-fr/tadalists/internal/model"
)

// Box returns the checkbox glyph for a completion state.
func Box(done bool) string {
	if done {
		return current.Success.Render(current.BoxChecked)
	}
	return current.Muted.Render(current.BoxUnchecked)
}

// PriorityBadge renders a fixed-width priority label.
func PriorityBadge(p model.Priority) string {
	label := fmt.Sprintf("%-6s", string(p))
	switch p {
	case model.PriorityHigh:
		return current.PriorityHigh.Render(label)
	case model.PriorityMedium:
		return current.PriorityMedium.Render(label)
	}
	return current.PriorityLow.Render(label)
}

// DueBadge renders the due date, highlighted when it is close or past.
func DueBadge(td model.Todo, now time.Time) string {
	if td.DueDate.IsZero() {
		return ""
	}
	s := "due " + td.DueDate.String()
	if td.Completed {
		return current.Muted.Render(s)
	}
	if days := due.DaysUntil(td.DueDate.Time, now); days <= due.Threshold {
		if days < 0 {
			s += " (overdue)"
		}
		return current.Warn.Render(s)
	}
	return current.Muted.Render(s)
}

// TagList renders tags as #tag #tag.
func TagList(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = "#" + t
	}
	return current.Accent.Render(strings.Join(out, " "))
}
