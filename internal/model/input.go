package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// TodoInput is the user-editable part of a Todo.
type TodoInput struct {
	Text     string   `validate:"required,max=500"`
	Priority Priority `validate:"oneof=Low Medium High"`
	DueDate  Date
	Tags     []string `validate:"dive,required,max=64"`
}

// ErrInvalidTodo wraps every TodoInput validation failure.
var ErrInvalidTodo = errors.New("invalid todo")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Normalize trims text and tags, drops empty and duplicate tags and
// defaults the priority to Low.
func (in TodoInput) Normalize() TodoInput {
	in.Text = strings.TrimSpace(in.Text)
	if in.Priority == "" {
		in.Priority = PriorityLow
	}
	in.Tags = NormalizeTags(in.Tags)
	return in
}

// Validate normalizes in and checks it, returning the normalized input.
func (in TodoInput) Validate() (TodoInput, error) {
	in = in.Normalize()
	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return in, fieldError(verrs[0])
		}
		return in, fmt.Errorf("%w: %v", ErrInvalidTodo, err)
	}
	return in, nil
}

// InputOf extracts the editable fields of t.
func InputOf(t Todo) TodoInput {
	return TodoInput{
		Text:     t.Text,
		Priority: t.Priority,
		DueDate:  t.DueDate,
		Tags:     append([]string(nil), t.Tags...),
	}
}

// NormalizeTags trims tags and removes empties and duplicates, keeping
// first-seen order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}

// SplitTags parses a comma separated tag list.
func SplitTags(s string) []string {
	return NormalizeTags(strings.Split(s, ","))
}

func fieldError(fe validator.FieldError) error {
	switch fe.Field() {
	case "Text":
		if fe.Tag() == "required" {
			return fmt.Errorf("%w: text cannot be empty", ErrInvalidTodo)
		}
		return fmt.Errorf("%w: text is too long (max %s)", ErrInvalidTodo, fe.Param())
	case "Priority":
		return fmt.Errorf("%w: unknown priority %q (want Low, Medium or High)", ErrInvalidTodo, fe.Value())
	}
	return fmt.Errorf("%w: %s failed %s", ErrInvalidTodo, fe.Namespace(), fe.Tag())
}
