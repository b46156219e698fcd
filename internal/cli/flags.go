package cli

import (
	"flag"
	"fmt"
	"strings"

	"github.com/Makepad-fr/tadalists/internal/model"
	"github.com/Makepad-fr/tadalists/internal/ui"
)

// stringsFlag collects a repeatable string flag.
type stringsFlag []string

func (s *stringsFlag) String() string { return strings.Join(*s, ",") }

func (s *stringsFlag) Set(v string) error {
	*s = append(*s, model.SplitTags(v)...)
	return nil
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(ui.Stderr())
	return fs
}

// parseInterspersed parses flags mixed with positional args, e.g.
// `todo add groceries -p high Buy milk`. A bare "--" ends flag parsing.
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var pos []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		rest := fs.Args()
		if len(rest) == 0 {
			return pos, nil
		}
		if len(args) > len(rest) && args[len(args)-len(rest)-1] == "--" {
			return append(pos, rest...), nil
		}
		pos = append(pos, rest[0])
		args = rest[1:]
	}
}

// todoFlags are shared by `todo add` and `todo edit`.
type todoFlags struct {
	priority string
	due      string
	tags     stringsFlag
	noTags   bool
}

func (f *todoFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.priority, "p", "", "priority: low, medium or high")
	fs.StringVar(&f.due, "due", "", "due date YYYY-MM-DD (\"none\" clears it)")
	fs.Var(&f.tags, "tag", "tag (repeatable, or comma separated)")
	fs.BoolVar(&f.noTags, "no-tags", false, "remove all tags")
}

// apply overlays the flags that were set onto in.
func (f *todoFlags) apply(fs *flag.FlagSet, in model.TodoInput) (model.TodoInput, error) {
	var err error
	fs.Visit(func(fl *flag.Flag) {
		if err != nil {
			return
		}
		switch fl.Name {
		case "p":
			in.Priority, err = model.ParsePriority(f.priority)
		case "due":
			if strings.EqualFold(strings.TrimSpace(f.due), "none") {
				in.DueDate = model.Date{}
				return
			}
			in.DueDate, err = model.ParseDate(f.due)
		case "tag":
			in.Tags = append([]string(nil), f.tags...)
		case "no-tags":
			if f.noTags {
				in.Tags = nil
			}
		}
	})
	if err != nil {
		return in, fmt.Errorf("%w: %v", model.ErrInvalidTodo, err)
	}
	return in, nil
}
