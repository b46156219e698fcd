package view

import (
	"strings"
	"testing"
	"time"

	"github.com/Makepad-fr/tadalists/internal/model"
)

func ids(todos []model.Todo) string {
	parts := make([]string, len(todos))
	for i, td := range todos {
		parts[i] = td.ID.String()
	}
	return strings.Join(parts, ",")
}

func sample() []model.Todo {
	base := time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)
	return []model.Todo{
		{ID: "1", Text: "Buy milk", Priority: model.PriorityMedium, CreatedAt: base.Add(2 * time.Hour),
			DueDate: model.NewDate(2024, 7, 10), Tags: []string{"home", "errands"}},
		{ID: "2", Text: "write report", Priority: model.PriorityHigh, CreatedAt: base,
			Tags: []string{"work"}},
		{ID: "3", Text: "Call mom", Priority: model.PriorityLow, CreatedAt: base.Add(1 * time.Hour),
			DueDate: model.NewDate(2024, 7, 5), Tags: []string{"home"}},
		{ID: "4", Text: "buy stamps", Priority: model.PriorityLow, CreatedAt: base.Add(3 * time.Hour),
			DueDate: model.NewDate(2024, 7, 20), Tags: []string{"errands"}},
	}
}

func TestApplySearch(t *testing.T) {
	got := Query{Search: "BUY"}.Apply(sample())
	if ids(got) != "1,4" {
		t.Errorf("search BUY = %s, want 1,4", ids(got))
	}
}

func TestApplyTagsAllOf(t *testing.T) {
	tests := []struct {
		tags []string
		want string
	}{
		{nil, "2,3,1,4"},
		{[]string{"home"}, "3,1"},
		{[]string{"home", "errands"}, "1"},
		{[]string{"home", "work"}, ""},
	}
	for _, tt := range tests {
		got := Query{Tags: tt.tags}.Apply(sample())
		if ids(got) != tt.want {
			t.Errorf("tags %v = %s, want %s", tt.tags, ids(got), tt.want)
		}
		for _, td := range got {
			for _, tag := range tt.tags {
				if !td.HasTag(tag) {
					t.Errorf("todo %s missing tag %q", td.ID, tag)
				}
			}
		}
	}
}

func TestApplySort(t *testing.T) {
	tests := []struct {
		name string
		q    Query
		want string
	}{
		{"created asc", Query{}, "2,3,1,4"},
		{"created desc", Query{Order: Desc}, "4,1,3,2"},
		{"priority asc", Query{SortBy: SortPriority}, "3,4,1,2"},
		{"priority desc", Query{SortBy: SortPriority, Order: Desc}, "2,1,3,4"},
		{"due asc", Query{SortBy: SortDue}, "3,1,4,2"},
		{"due desc", Query{SortBy: SortDue, Order: Desc}, "4,1,3,2"},
		{"text asc", Query{SortBy: SortText}, "1,4,3,2"},
		{"text desc", Query{SortBy: SortText, Order: Desc}, "2,3,4,1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ids(tt.q.Apply(sample())); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestApplyPriorityRankOrder(t *testing.T) {
	todos := []model.Todo{
		{ID: "h", Priority: model.PriorityHigh},
		{ID: "l", Priority: model.PriorityLow},
		{ID: "m", Priority: model.PriorityMedium},
	}
	got := Query{SortBy: SortPriority, Order: Asc}.Apply(todos)
	if ids(got) != "l,m,h" {
		t.Errorf("got %s, want l,m,h", ids(got))
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	in := sample()
	Query{SortBy: SortText, Order: Desc}.Apply(in)
	if ids(in) != "1,2,3,4" {
		t.Errorf("input reordered: %s", ids(in))
	}
}

func TestParse(t *testing.T) {
	if k, err := ParseSortKey("Due"); err != nil || k != SortDue {
		t.Errorf("ParseSortKey(Due) = %q, %v", k, err)
	}
	if _, err := ParseSortKey("size"); err == nil {
		t.Error("expected error for unknown sort key")
	}
	if o, err := ParseOrder("DESC"); err != nil || o != Desc {
		t.Errorf("ParseOrder(DESC) = %q, %v", o, err)
	}
	if SortText.Next() != SortCreated {
		t.Errorf("SortText.Next() = %q, want createdAt", SortText.Next())
	}
	if Asc.Toggle() != Desc || Desc.Toggle() != Asc {
		t.Error("Toggle did not flip order")
	}
}

func TestTagOptions(t *testing.T) {
	got := TagOptions(sample())
	if strings.Join(got, ",") != "home,errands,work" {
		t.Errorf("TagOptions = %v", got)
	}
}
