package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme bundles palette + symbols + box borders.
// All UI helpers pull from `current`.
type Theme struct {
	Name string

	Title, Muted, Accent, Success, Error, Pending, Warn lipgloss.Style
	Selected, Done                                     lipgloss.Style
	PriorityLow, PriorityMedium, PriorityHigh          lipgloss.Style

	BoxUnchecked, BoxChecked string
	Border                   lipgloss.Border
	BorderColor              lipgloss.TerminalColor
	SymDone, SymPending      string
	SymOK, SymFail, SymWarn  string
}

var current = classic()

func classic() Theme {
	base := lipgloss.NewStyle()
	return Theme{
		Name:           "classic",
		Title:          base.Bold(true),
		Muted:          base.Faint(true),
		Accent:         base.Foreground(lipgloss.Color("12")),
		Success:        base.Foreground(lipgloss.Color("42")),
		Error:          base.Foreground(lipgloss.Color("9")).Bold(true),
		Pending:        base.Foreground(lipgloss.Color("214")),
		Warn:           base.Foreground(lipgloss.Color("214")).Bold(true),
		Selected:       base.Bold(true).Reverse(true),
		Done:           base.Faint(true).Strikethrough(true),
		PriorityLow:    base.Foreground(lipgloss.Color("8")),
		PriorityMedium: base.Foreground(lipgloss.Color("11")),
		PriorityHigh:   base.Foreground(lipgloss.Color("9")).Bold(true),
		BoxUnchecked:   "☐",
		BoxChecked:     "☑",
		Border:         lipgloss.NormalBorder(),
		BorderColor:    lipgloss.Color("8"),
		SymDone:        "✔",
		SymPending:     "•",
		SymOK:          "✔",
		SymFail:        "✖",
		SymWarn:        "⚠",
	}
}

func neon() Theme {
	t := classic()
	t.Name = "neon"
	t.Title = t.Title.Foreground(lipgloss.Color("13"))
	t.Accent = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	t.Pending = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	t.BoxUnchecked, t.BoxChecked = "◻", "◼"
	t.Border = lipgloss.RoundedBorder()
	t.BorderColor = lipgloss.Color("13")
	return t
}

func mono() Theme {
	plain := lipgloss.NewStyle()
	return Theme{
		Name:  "mono",
		Title: plain, Muted: plain, Accent: plain, Success: plain, Error: plain,
		Pending: plain, Warn: plain, Selected: plain, Done: plain,
		PriorityLow: plain, PriorityMedium: plain, PriorityHigh: plain,
		BoxUnchecked: "[ ]",
		BoxChecked:   "[x]",
		Border:       lipgloss.Border{Top: "-", Bottom: "-", Left: "|", Right: "|", TopLeft: "+", TopRight: "+", BottomLeft: "+", BottomRight: "+"},
		BorderColor:  lipgloss.NoColor{},
		SymDone:      "x",
		SymPending:   "-",
		SymOK:        "ok",
		SymFail:      "error:",
		SymWarn:      "warning:",
	}
}

func SetTheme(name string) {
	switch strings.ToLower(name) {
	case "neon":
		current = neon()
	case "mono":
		current = mono()
	default: // classic
		current = classic()
	}
}

// Expose what renderers need
func Current() Theme { return current }
