// Package view derives the filtered and sorted todo list shown to the user.
package view

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/Makepad-fr/tadalists/internal/model"
)

type SortKey string

const (
	SortCreated  SortKey = "createdAt"
	SortPriority SortKey = "priority"
	SortDue      SortKey = "dueDate"
	SortText     SortKey = "text"
)

var sortKeys = []SortKey{SortCreated, SortPriority, SortDue, SortText}

// Next cycles through the sort keys in display order.
func (k SortKey) Next() SortKey {
	i := slices.Index(sortKeys, k)
	return sortKeys[(i+1)%len(sortKeys)]
}

func (k SortKey) Label() string {
	switch k {
	case SortPriority:
		return "priority"
	case SortDue:
		return "due date"
	case SortText:
		return "alphabetically"
	}
	return "created"
}

func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "created", "createdat", "created_at":
		return SortCreated, nil
	case "priority", "prio":
		return SortPriority, nil
	case "due", "duedate", "due_date":
		return SortDue, nil
	case "text", "alpha", "alphabetical", "name":
		return SortText, nil
	}
	return "", fmt.Errorf("unknown sort key %q (want created, priority, due or text)", s)
}

type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

func (o Order) Toggle() Order {
	if o == Desc {
		return Asc
	}
	return Desc
}

func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending":
		return Asc, nil
	case "desc", "descending":
		return Desc, nil
	}
	return "", fmt.Errorf("unknown sort order %q (want asc or desc)", s)
}

// Query describes the derived view. The zero Query keeps every todo and
// sorts by creation time ascending.
type Query struct {
	Search string
	Tags   []string
	SortBy SortKey
	Order  Order
}

// Match reports whether td passes the text and tag filters.
func (q Query) Match(td model.Todo) bool {
	if q.Search != "" && !strings.Contains(strings.ToLower(td.Text), strings.ToLower(q.Search)) {
		return false
	}
	for _, tag := range q.Tags {
		if !td.HasTag(tag) {
			return false
		}
	}
	return true
}

// Apply returns the matching todos in sorted order. The input is not modified.
func (q Query) Apply(todos []model.Todo) []model.Todo {
	out := make([]model.Todo, 0, len(todos))
	for _, td := range todos {
		if q.Match(td) {
			out = append(out, td)
		}
	}

	cmp := q.compare()
	desc := q.Order == Desc
	slices.SortStableFunc(out, func(a, b model.Todo) int {
		// undated todos stay at the bottom in both directions
		if q.SortBy == SortDue && a.DueDate.IsZero() != b.DueDate.IsZero() {
			if a.DueDate.IsZero() {
				return 1
			}
			return -1
		}
		c := cmp(a, b)
		if desc {
			return -c
		}
		return c
	})
	return out
}

func (q Query) compare() func(a, b model.Todo) int {
	switch q.SortBy {
	case SortPriority:
		return func(a, b model.Todo) int { return a.Priority.Rank() - b.Priority.Rank() }
	case SortDue:
		return func(a, b model.Todo) int { return a.DueDate.Compare(b.DueDate.Time) }
	case SortText:
		col := collate.New(language.Und, collate.IgnoreCase)
		return func(a, b model.Todo) int { return col.CompareString(a.Text, b.Text) }
	}
	return func(a, b model.Todo) int { return a.CreatedAt.Compare(b.CreatedAt) }
}

// TagOptions returns the distinct tags used by todos in first-seen order.
func TagOptions(todos []model.Todo) []string {
	var out []string
	seen := map[string]bool{}
	for _, td := range todos {
		for _, tag := range td.Tags {
			if !seen[tag] {
				seen[tag] = true
				out = append(out, tag)
			}
		}
	}
	return out
}
