package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/tadalists/internal/due"
	"github.com/Makepad-fr/tadalists/internal/lists"
	"github.com/Makepad-fr/tadalists/internal/model"
	"github.com/Makepad-fr/tadalists/internal/todos"
)

// Result messages for the network commands. Stores are safe for concurrent
// use, so the commands touch them directly and Update only re-reads state.
type (
	listsFetchedMsg struct{ err error }

	listDoneMsg struct {
		op   string // "add"
		verb string // "added"
		name string
		err  error
		req  int // non-zero when started from the input bar
	}

	todosFetchedMsg struct {
		listID   model.ID
		warnings []due.Warning
		err      error
	}

	todoDoneMsg struct {
		op       string
		verb     string
		text     string
		warnings []due.Warning
		err      error
		req      int
	}
)

// fromInput tags the result of cmd with the input request id req.
func fromInput(req int, cmd tea.Cmd) tea.Cmd {
	return func() tea.Msg {
		switch msg := cmd().(type) {
		case listDoneMsg:
			msg.req = req
			return msg
		case todoDoneMsg:
			msg.req = req
			return msg
		default:
			return msg
		}
	}
}

func fetchLists(ctx context.Context, s *lists.Store) tea.Cmd {
	return func() tea.Msg {
		return listsFetchedMsg{err: s.Fetch(ctx)}
	}
}

func addList(ctx context.Context, s *lists.Store, name string) tea.Cmd {
	return func() tea.Msg {
		l, err := s.Add(ctx, name)
		return listDoneMsg{op: "add", verb: "added", name: l.Name, err: err}
	}
}

func renameList(ctx context.Context, s *lists.Store, id model.ID, name string) tea.Cmd {
	return func() tea.Msg {
		l, err := s.Rename(ctx, id, name)
		return listDoneMsg{op: "rename", verb: "renamed", name: l.Name, err: err}
	}
}

func removeList(ctx context.Context, s *lists.Store, l model.TodoList) tea.Cmd {
	return func() tea.Msg {
		return listDoneMsg{op: "delete", verb: "deleted", name: l.Name, err: s.Remove(ctx, l.ID)}
	}
}

func fetchTodos(ctx context.Context, s *todos.Store) tea.Cmd {
	return func() tea.Msg {
		w, err := s.Fetch(ctx)
		return todosFetchedMsg{listID: s.ListID(), warnings: w, err: err}
	}
}

func addTodo(ctx context.Context, s *todos.Store, in model.TodoInput, now func() time.Time) tea.Cmd {
	return func() tea.Msg {
		td, err := s.Add(ctx, in)
		if err != nil {
			return todoDoneMsg{op: "add", verb: "added", err: err}
		}
		return todoDoneMsg{op: "add", verb: "added", text: td.Text, warnings: due.Scan([]model.Todo{td}, now())}
	}
}

func updateTodo(ctx context.Context, s *todos.Store, id model.ID, in model.TodoInput) tea.Cmd {
	return func() tea.Msg {
		td, err := s.Update(ctx, id, in)
		return todoDoneMsg{op: "update", verb: "updated", text: td.Text, err: err}
	}
}

func toggleTodo(ctx context.Context, s *todos.Store, id model.ID) tea.Cmd {
	return func() tea.Msg {
		td, err := s.Toggle(ctx, id)
		verb := "reopened"
		if td.Completed {
			verb = "completed"
		}
		return todoDoneMsg{op: "toggle", verb: verb, text: td.Text, err: err}
	}
}

func removeTodo(ctx context.Context, s *todos.Store, td model.Todo) tea.Cmd {
	return func() tea.Msg {
		return todoDoneMsg{op: "delete", verb: "deleted", text: td.Text, err: s.Remove(ctx, td.ID)}
	}
}
