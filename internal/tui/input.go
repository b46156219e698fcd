package tui

import (
	"fmt"
	"strings"

	"github.com/Makepad-fr/tadalists/internal/model"
)

const todoInputHelp = "text | priority | YYYY-MM-DD | tag, tag"

// parseTodoInput reads "text | priority | due | tags". Trailing fields may
// be omitted; an empty priority means Low and an empty due date means none.
// With more than four fields the last three are priority, due and tags, so
// the text may itself contain "|".
func parseTodoInput(s string) (model.TodoInput, error) {
	fields := strings.Split(s, "|")
	if n := len(fields); n > 4 {
		fields = append([]string{strings.Join(fields[:n-3], "|")}, fields[n-3:]...)
	}
	for len(fields) < 4 {
		fields = append(fields, "")
	}
	in := model.TodoInput{Text: fields[0]}
	if p := strings.TrimSpace(fields[1]); p != "" {
		prio, err := model.ParsePriority(p)
		if err != nil {
			return in, fmt.Errorf("%w: %v", model.ErrInvalidTodo, err)
		}
		in.Priority = prio
	}
	d, err := model.ParseDate(fields[2])
	if err != nil {
		return in, fmt.Errorf("%w: %v", model.ErrInvalidTodo, err)
	}
	in.DueDate = d
	in.Tags = model.SplitTags(fields[3])
	return in.Validate()
}

func formatTodoInput(td model.Todo) string {
	return strings.Join([]string{
		td.Text,
		string(td.Priority),
		td.DueDate.String(),
		strings.Join(td.Tags, ", "),
	}, " | ")
}
