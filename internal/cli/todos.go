package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Makepad-fr/tadalists/internal/due"
	"github.com/Makepad-fr/tadalists/internal/model"
	"github.com/Makepad-fr/tadalists/internal/todos"
	"github.com/Makepad-fr/tadalists/internal/ui"
	"github.com/Makepad-fr/tadalists/internal/view"
)

// printNotifier prints due-date warnings as they are found.
type printNotifier struct{}

func (printNotifier) Notify(w due.Warning) { ui.Warn(w.String()) }

// loadTodos resolves ref and fetches that list's todos.
func loadTodos(ctx context.Context, ref string, opt Options) (*todos.Store, int) {
	ls, code := loadLists(ctx, opt)
	if ls == nil {
		return nil, code
	}
	l, err := ls.Resolve(ref)
	if err != nil {
		return nil, failErr("todos", err)
	}
	s := opt.todoStore(l.ID, todos.WithTitle(l.Name))
	if _, err := s.Fetch(ctx); err != nil {
		ui.Fail("fetch todos: " + err.Error())
		return nil, 1
	}
	return s, 0
}

// defaultView is the unfiltered view whose row numbers the index
// arguments refer to.
func defaultView(opt Options) view.Query {
	return view.Query{SortBy: opt.Config.SortBy, Order: opt.Config.SortOrder}
}

// pick returns the todo at a 1-based index of the default view.
func pick(s *todos.Store, arg string, opt Options) (model.Todo, int) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		ui.Fail("not a number: " + arg)
		return model.Todo{}, 2
	}
	rows := defaultView(opt).Apply(s.Todos())
	if n < 1 || n > len(rows) {
		ui.Fail(fmt.Sprintf("index out of range: have %d, got %d", len(rows), n))
		ui.Hint("Hint: run `tada todos <list>` to see valid indexes")
		return model.Todo{}, 2
	}
	return rows[n-1], 0
}

func doTodos(ctx context.Context, a []string, opt Options) int {
	fs := newFlagSet("todos")
	search := fs.String("q", "", "only todos whose text contains this")
	var tags stringsFlag
	fs.Var(&tags, "tag", "only todos carrying this tag (repeatable, all must match)")
	sortBy := fs.String("sort", string(opt.Config.SortBy), "sort by created, priority, due or text")
	desc := fs.Bool("desc", opt.Config.SortOrder == view.Desc, "descending order")
	pos, err := parseInterspersed(fs, a)
	if err != nil {
		return 2
	}
	if len(pos) != 1 {
		ui.Fail("usage: tada todos <list> [-q text] [-tag t]... [-sort key] [-desc]")
		return 2
	}
	key, err := view.ParseSortKey(*sortBy)
	if err != nil {
		ui.Fail(err.Error())
		return 2
	}

	s, code := loadTodos(ctx, pos[0], opt)
	if s == nil {
		return code
	}

	q := view.Query{Search: *search, Tags: tags, SortBy: key, Order: view.Asc}
	if *desc {
		q.Order = view.Desc
	}
	ui.Panel(todoLines(s, q, opt))
	return 0
}

func runTodo(ctx context.Context, a []string, opt Options) int {
	if len(a) == 0 {
		ui.Fail("usage: tada todo <add|edit|done|rm> ...")
		return 2
	}
	sub, a := a[0], a[1:]
	switch sub {
	case "add":
		return doTodoAdd(ctx, a, opt)
	case "edit":
		return doTodoEdit(ctx, a, opt)
	case "done", "toggle":
		if len(a) != 2 {
			ui.Fail("usage: tada todo done <list> <index>")
			return 2
		}
		return doTodoToggle(ctx, a[0], a[1], opt)
	case "rm":
		if len(a) != 2 {
			ui.Fail("usage: tada todo rm <list> <index>")
			return 2
		}
		return doTodoRemove(ctx, a[0], a[1], opt)
	}
	ui.Fail("usage: tada todo <add|edit|done|rm> ...")
	return 2
}

func doTodoAdd(ctx context.Context, a []string, opt Options) int {
	fs := newFlagSet("todo add")
	var tf todoFlags
	tf.register(fs)
	pos, err := parseInterspersed(fs, a)
	if err != nil {
		return 2
	}
	if len(pos) < 2 {
		ui.Fail("usage: tada todo add <list> [-p prio] [-due YYYY-MM-DD] [-tag t]... <text...>")
		return 2
	}
	in, err := tf.apply(fs, model.TodoInput{Text: strings.Join(pos[1:], " ")})
	if err != nil {
		return failErr("add", err)
	}
	if in, err = in.Validate(); err != nil {
		return failErr("add", err)
	}

	s, code := loadTodos(ctx, pos[0], opt)
	if s == nil {
		return code
	}
	td, err := s.Add(ctx, in)
	if err != nil {
		return failErr("add", err)
	}
	ui.OK(fmt.Sprintf("added %q to %s", td.Text, s.Title()))
	return 0
}

func doTodoEdit(ctx context.Context, a []string, opt Options) int {
	fs := newFlagSet("todo edit")
	var tf todoFlags
	tf.register(fs)
	pos, err := parseInterspersed(fs, a)
	if err != nil {
		return 2
	}
	if len(pos) < 2 {
		ui.Fail("usage: tada todo edit <list> <index> [-p prio] [-due date] [-tag t]... [text...]")
		return 2
	}

	s, code := loadTodos(ctx, pos[0], opt)
	if s == nil {
		return code
	}
	td, code := pick(s, pos[1], opt)
	if code != 0 {
		return code
	}

	in := model.InputOf(td)
	if len(pos) > 2 {
		in.Text = strings.Join(pos[2:], " ")
	}
	if in, err = tf.apply(fs, in); err != nil {
		return failErr("edit", err)
	}
	updated, err := s.Update(ctx, td.ID, in)
	if err != nil {
		return failErr("edit", err)
	}
	ui.OK(fmt.Sprintf("updated %q", updated.Text))
	return 0
}

func doTodoToggle(ctx context.Context, ref, idx string, opt Options) int {
	s, code := loadTodos(ctx, ref, opt)
	if s == nil {
		return code
	}
	td, code := pick(s, idx, opt)
	if code != 0 {
		return code
	}
	updated, err := s.Toggle(ctx, td.ID)
	if err != nil {
		return failErr("toggle", err)
	}
	if updated.Completed {
		ui.OK(fmt.Sprintf("done: %q", updated.Text))
	} else {
		ui.OK(fmt.Sprintf("reopened: %q", updated.Text))
	}
	return 0
}

func doTodoRemove(ctx context.Context, ref, idx string, opt Options) int {
	s, code := loadTodos(ctx, ref, opt)
	if s == nil {
		return code
	}
	td, code := pick(s, idx, opt)
	if code != 0 {
		return code
	}
	if err := s.Remove(ctx, td.ID); err != nil {
		return failErr("remove", err)
	}
	ui.OK(fmt.Sprintf("removed %q", td.Text))
	return 0
}
