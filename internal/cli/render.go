package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/Makepad-fr/tadalists/internal/lists"
	"github.com/Makepad-fr/tadalists/internal/model"
	"github.com/Makepad-fr/tadalists/internal/todos"
	"github.com/Makepad-fr/tadalists/internal/ui"
	"github.com/Makepad-fr/tadalists/internal/view"
)

func listLines(s *lists.Store) []string {
	t := ui.Current()
	ls := s.Lists()
	lines := []string{
		fmt.Sprintf("%s  %s %d", t.Title.Render("Lists"), t.Accent.Render("Total"), len(ls)),
		"",
	}
	if len(ls) == 0 {
		lines = append(lines, t.Muted.Render("no lists"), "",
			t.Muted.Render("Tip: create one with `tada list add Groceries`"))
		return lines
	}
	for i, l := range ls {
		lines = append(lines, fmt.Sprintf("%s %s %s",
			t.Muted.Render(fmt.Sprintf("%2d.", i+1)),
			ui.Truncate(l.Name, 60),
			t.Muted.Render("(id "+l.ID.String()+")")))
	}
	return lines
}

func todoLines(s *todos.Store, q view.Query, opt Options) []string {
	t := ui.Current()
	all := s.Todos()
	d, p := stats(all)

	// row numbers always refer to the unfiltered default view
	index := map[model.ID]int{}
	for i, td := range defaultView(opt).Apply(all) {
		index[td.ID] = i + 1
	}

	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		t.Title.Render(s.Title()),
		t.Success.Render(t.SymDone), d,
		t.Pending.Render(t.SymPending), p,
		t.Accent.Render("Total"), len(all),
	)
	lines := []string{header, t.Muted.Render(ui.ProgressBar(d, d+p, 28))}
	if desc := describe(q); desc != "" {
		lines = append(lines, t.Muted.Render(desc))
	}
	lines = append(lines, "")

	rows := q.Apply(all)
	now := opt.Now()
	if opt.Group {
		lines = append(lines, groupLines(rows, index, now)...)
	} else {
		lines = append(lines, flatLines(rows, index, now)...)
	}
	if tags := s.TagOptions(); len(tags) > 0 {
		lines = append(lines, "", t.Muted.Render("tags: ")+ui.TagList(tags))
	}
	return lines
}

func describe(q view.Query) string {
	var parts []string
	if q.Search != "" {
		parts = append(parts, fmt.Sprintf("matching %q", q.Search))
	}
	if len(q.Tags) > 0 {
		parts = append(parts, "tagged "+strings.Join(q.Tags, " & "))
	}
	parts = append(parts, fmt.Sprintf("sorted by %s %s", q.SortBy.Label(), q.Order))
	return strings.Join(parts, ", ")
}

func stats(items []model.Todo) (done, pending int) {
	for _, it := range items {
		if it.Completed {
			done++
		} else {
			pending++
		}
	}
	return
}

func flatLines(items []model.Todo, index map[model.ID]int, now time.Time) []string {
	t := ui.Current()
	if len(items) == 0 {
		return []string{t.Muted.Render("no todos")}
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		text := ui.Truncate(it.Text, 60)
		if it.Completed {
			text = t.Done.Render(text)
		}
		parts := []string{
			t.Muted.Render(fmt.Sprintf("%2d.", index[it.ID])),
			ui.Box(it.Completed),
			ui.PriorityBadge(it.Priority),
			text,
		}
		if b := ui.DueBadge(it, now); b != "" {
			parts = append(parts, b)
		}
		if tl := ui.TagList(it.Tags); tl != "" {
			parts = append(parts, tl)
		}
		out = append(out, strings.Join(parts, " "))
	}
	return out
}

func groupLines(items []model.Todo, index map[model.ID]int, now time.Time) []string {
	t := ui.Current()
	var pend, done []model.Todo
	for _, it := range items {
		if it.Completed {
			done = append(done, it)
		} else {
			pend = append(pend, it)
		}
	}
	var lines []string
	lines = append(lines, t.Accent.Render("Pending"))
	if len(pend) == 0 {
		lines = append(lines, t.Muted.Render("(none)"))
	} else {
		lines = append(lines, flatLines(pend, index, now)...)
	}
	lines = append(lines, "")
	lines = append(lines, t.Accent.Render("Done"))
	if len(done) == 0 {
		lines = append(lines, t.Muted.Render("(none)"))
	} else {
		lines = append(lines, flatLines(done, index, now)...)
	}
	return lines
}
