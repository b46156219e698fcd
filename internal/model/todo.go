package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// TodoList is a named grouping of todos.
type TodoList struct {
	ID   ID     `json:"id,omitempty"`
	Name string `json:"name"`
}

// Todo is a single task record as stored by the remote API.
type Todo struct {
	ID        ID        `json:"id,omitempty"`
	ListID    ID        `json:"todoListsId"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	Priority  Priority  `json:"priority"`
	DueDate   Date      `json:"dueDate"`
	CreatedAt time.Time `json:"createdAt"`
	Tags      []string  `json:"tags"`
}

// HasTag reports whether the todo carries tag (exact match).
func (t Todo) HasTag(tag string) bool {
	for _, have := range t.Tags {
		if have == tag {
			return true
		}
	}
	return false
}

// Apply returns a copy of t with the editable fields replaced by in.
func (t Todo) Apply(in TodoInput) Todo {
	t.Text = in.Text
	t.Priority = in.Priority
	t.DueDate = in.DueDate
	t.Tags = append([]string(nil), in.Tags...)
	return t
}

// UnmarshalJSON tolerates an empty or missing createdAt and null tags.
func (t *Todo) UnmarshalJSON(b []byte) error {
	type plain Todo
	aux := struct {
		*plain
		CreatedAt string `json:"createdAt"`
	}{plain: (*plain)(t)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	t.CreatedAt = time.Time{}
	if s := strings.TrimSpace(aux.CreatedAt); s != "" {
		ts, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return fmt.Errorf("createdAt: %w", err)
		}
		t.CreatedAt = ts
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	return nil
}
