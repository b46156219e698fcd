package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/tadalists/internal/model"
	"github.com/Makepad-fr/tadalists/internal/ui"
)

// listItem adapts a TodoList to bubbles/list.Item
type listItem struct {
	model.TodoList
}

func (i listItem) Title() string       { return i.Name }
func (i listItem) Description() string { return "" }
func (i listItem) FilterValue() string { return i.Name }

type todoItem struct {
	model.Todo
}

func (i todoItem) Title() string       { return i.Text }
func (i todoItem) Description() string { return "" }
func (i todoItem) FilterValue() string { return i.Text }

// Single-line delegates, one per screen.
type listDelegate struct{}

func (d listDelegate) Height() int                               { return 1 }
func (d listDelegate) Spacing() int                              { return 0 }
func (d listDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d listDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	fmt.Fprintln(w, prefix(index == m.Index())+ui.Truncate(it.Name, 60))
}

type todoDelegate struct {
	now func() time.Time
}

func (d todoDelegate) Height() int                               { return 1 }
func (d todoDelegate) Spacing() int                              { return 0 }
func (d todoDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d todoDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(todoItem)
	if !ok {
		return
	}
	t := ui.Current()
	text := ui.Truncate(it.Text, 50)
	if it.Completed {
		text = t.Done.Render(text)
	}
	parts := []string{ui.Box(it.Completed), ui.PriorityBadge(it.Priority), text}
	if b := ui.DueBadge(it.Todo, d.now()); b != "" {
		parts = append(parts, b)
	}
	if tl := ui.TagList(it.Tags); tl != "" {
		parts = append(parts, tl)
	}
	fmt.Fprintln(w, prefix(index == m.Index())+strings.Join(parts, " "))
}

func prefix(selected bool) string {
	if selected {
		return ui.Current().Selected.Render(">") + " "
	}
	return "  "
}
