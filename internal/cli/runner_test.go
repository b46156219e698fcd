package cli

import (
	"bytes"
	"flag"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/Makepad-fr/tadalists/internal/api/apitest"
	"github.com/Makepad-fr/tadalists/internal/auth"
	"github.com/Makepad-fr/tadalists/internal/config"
	"github.com/Makepad-fr/tadalists/internal/model"
	"github.com/Makepad-fr/tadalists/internal/ui"
	"github.com/Makepad-fr/tadalists/internal/view"
)

var now = time.Date(2024, 7, 10, 12, 0, 0, 0, time.UTC)

type env struct {
	srv    *apitest.Server
	out    *bytes.Buffer
	errOut *bytes.Buffer
	opt    Options
}

func setup(t *testing.T) *env {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv(auth.EnvToken, "")

	ui.SetTheme("mono")
	prevOut, prevErr := ui.Stdout(), ui.Stderr()
	e := &env{srv: apitest.NewServer(t), out: &bytes.Buffer{}, errOut: &bytes.Buffer{}}
	ui.SetOutput(e.out, e.errOut)
	t.Cleanup(func() {
		ui.SetOutput(prevOut, prevErr)
		ui.SetTheme("classic")
	})

	e.opt = Options{
		Config: &config.Config{
			APIURL:    e.srv.URL,
			Timeout:   5 * time.Second,
			SortBy:    view.SortCreated,
			SortOrder: view.Asc,
		},
		Now: func() time.Time { return now },
	}
	return e
}

func (e *env) run(args ...string) int {
	e.out.Reset()
	e.errOut.Reset()
	return Run(args, e.opt)
}

func (e *env) seedGroceries() model.TodoList {
	l := e.srv.SeedList("Groceries")
	e.srv.SeedTodo(model.Todo{ListID: l.ID, Text: "Buy milk", Priority: model.PriorityHigh,
		CreatedAt: now.Add(-3 * time.Hour), Tags: []string{"shop"}})
	e.srv.SeedTodo(model.Todo{ListID: l.ID, Text: "Call bank", Priority: model.PriorityLow,
		CreatedAt: now.Add(-2 * time.Hour)})
	return l
}

func TestRunUsage(t *testing.T) {
	e := setup(t)
	if code := e.run(); code != 2 {
		t.Errorf("no args: code = %d, want 2", code)
	}
	if code := e.run("frobnicate"); code != 2 {
		t.Errorf("unknown subcommand: code = %d, want 2", code)
	}
	if !strings.Contains(e.errOut.String(), "unknown subcommand") {
		t.Errorf("stderr = %q", e.errOut.String())
	}
	if code := e.run("help"); code != 0 || !strings.Contains(e.out.String(), "Usage:") {
		t.Errorf("help: code = %d, out = %q", code, e.out.String())
	}
}

func TestListAddDuplicateRejectedLocally(t *testing.T) {
	e := setup(t)
	e.srv.SeedList("Groceries")

	if code := e.run("list", "add", "groceries"); code != 2 {
		t.Fatalf("code = %d, want 2", code)
	}
	if !strings.Contains(e.errOut.String(), "already exists") {
		t.Errorf("stderr = %q", e.errOut.String())
	}
	if n := e.srv.Count(http.MethodPost, "/todoLists"); n != 0 {
		t.Errorf("POST sent %d times", n)
	}
}

func TestListLifecycle(t *testing.T) {
	e := setup(t)
	e.seedGroceries()

	if code := e.run("list", "add", "Weekend", "chores"); code != 0 {
		t.Fatalf("add: code = %d, stderr = %q", code, e.errOut.String())
	}
	if code := e.run("lists"); code != 0 || !strings.Contains(e.out.String(), "Weekend chores") {
		t.Fatalf("lists: code = %d, out = %q", code, e.out.String())
	}

	if code := e.run("list", "rename", "weekend chores", "Chores"); code != 0 {
		t.Fatalf("rename: code = %d, stderr = %q", code, e.errOut.String())
	}
	if code := e.run("list", "rm", "GROCERIES"); code != 0 {
		t.Fatalf("rm: code = %d, stderr = %q", code, e.errOut.String())
	}
	ls := e.srv.Lists()
	if len(ls) != 1 || ls[0].Name != "Chores" {
		t.Errorf("server lists = %+v", ls)
	}
	if n := len(e.srv.Todos()); n != 0 {
		t.Errorf("cascade left %d todos", n)
	}

	if code := e.run("list", "rm", "nope"); code != 2 {
		t.Errorf("rm unknown: code = %d, want 2", code)
	}
}

func TestListsFetchFailure(t *testing.T) {
	e := setup(t)
	e.srv.FailNext(http.MethodGet, "/todoLists", http.StatusInternalServerError)
	if code := e.run("lists"); code != 1 {
		t.Fatalf("code = %d, want 1", code)
	}
	if !strings.Contains(e.errOut.String(), "failed to fetch") {
		t.Errorf("stderr = %q", e.errOut.String())
	}
}

func TestTodoAddWarnsWhenDueSoon(t *testing.T) {
	e := setup(t)
	e.srv.SeedList("Groceries")

	code := e.run("todo", "add", "groceries", "-p", "high", "-due", "2024-07-11", "-tag", "shop,food", "Buy", "milk")
	if code != 0 {
		t.Fatalf("code = %d, stderr = %q", code, e.errOut.String())
	}
	got := e.srv.Todos()
	if len(got) != 1 {
		t.Fatalf("server todos = %+v", got)
	}
	td := got[0]
	if td.Text != "Buy milk" || td.Priority != model.PriorityHigh || td.Completed ||
		td.DueDate.String() != "2024-07-11" || strings.Join(td.Tags, ",") != "shop,food" {
		t.Errorf("created %+v", td)
	}
	if n := strings.Count(e.errOut.String(), "is due"); n != 1 {
		t.Errorf("due warnings = %d, want 1; stderr = %q", n, e.errOut.String())
	}
}

func TestTodoAddInvalidSendsNothing(t *testing.T) {
	e := setup(t)
	e.srv.SeedList("Groceries")

	for _, args := range [][]string{
		{"todo", "add", "groceries", "-p", "urgent", "x"},
		{"todo", "add", "groceries", "-due", "tomorrow", "x"},
		{"todo", "add", "groceries", "   "},
	} {
		if code := e.run(args...); code != 2 {
			t.Errorf("%v: code = %d, want 2", args, code)
		}
	}
	if n := len(e.srv.Requests()); n != 0 {
		t.Errorf("%d requests sent for invalid input", n)
	}
}

func TestTodoDoneEditRemoveByIndex(t *testing.T) {
	e := setup(t)
	e.seedGroceries()

	if code := e.run("todo", "done", "groceries", "2"); code != 0 {
		t.Fatalf("done: code = %d, stderr = %q", code, e.errOut.String())
	}
	if !strings.Contains(e.out.String(), `done: "Call bank"`) {
		t.Errorf("done out = %q", e.out.String())
	}

	if code := e.run("todo", "edit", "groceries", "1", "-p", "low", "-no-tags", "Buy", "oat", "milk"); code != 0 {
		t.Fatalf("edit: code = %d, stderr = %q", code, e.errOut.String())
	}
	td := e.srv.Todos()[0]
	if td.Text != "Buy oat milk" || td.Priority != model.PriorityLow || len(td.Tags) != 0 {
		t.Errorf("edited %+v", td)
	}

	if code := e.run("todo", "rm", "groceries", "1"); code != 0 {
		t.Fatalf("rm: code = %d, stderr = %q", code, e.errOut.String())
	}
	left := e.srv.Todos()
	if len(left) != 1 || left[0].Text != "Call bank" || !left[0].Completed {
		t.Errorf("left %+v", left)
	}

	if code := e.run("todo", "rm", "groceries", "5"); code != 2 {
		t.Errorf("out of range: code = %d, want 2", code)
	}
	if code := e.run("todo", "rm", "groceries", "one"); code != 2 {
		t.Errorf("not a number: code = %d, want 2", code)
	}
}

func TestTodosWithoutTitle(t *testing.T) {
	e := setup(t)
	e.seedGroceries()

	e.srv.FailNext(http.MethodGet, "/todoLists/", http.StatusInternalServerError)
	if code := e.run("todos", "groceries"); code != 0 {
		t.Fatalf("code = %d, stderr = %q", code, e.errOut.String())
	}
	if out := e.out.String(); !strings.Contains(out, "Groceries") || !strings.Contains(out, "Buy milk") {
		t.Errorf("out = %q", out)
	}
}

func TestTodosFilterAndSort(t *testing.T) {
	e := setup(t)
	e.seedGroceries()

	if code := e.run("todos", "groceries", "-tag", "shop"); code != 0 {
		t.Fatalf("code = %d, stderr = %q", code, e.errOut.String())
	}
	out := e.out.String()
	if !strings.Contains(out, "Buy milk") || strings.Contains(out, "Call bank") {
		t.Errorf("tag filter output = %q", out)
	}
	if !strings.Contains(out, "tagged shop") {
		t.Errorf("missing filter description: %q", out)
	}

	if code := e.run("todos", "groceries", "-sort", "priority"); code != 0 {
		t.Fatalf("code = %d", code)
	}
	out = e.out.String()
	if strings.Index(out, "Call bank") > strings.Index(out, "Buy milk") {
		t.Errorf("priority asc should list Low first: %q", out)
	}
	// row numbers keep pointing at the default view
	if !strings.Contains(out, " 2. [ ] Low") {
		t.Errorf("row numbers changed with sort: %q", out)
	}

	if code := e.run("todos", "groceries", "-sort", "size"); code != 2 {
		t.Errorf("bad sort key: code = %d, want 2", code)
	}
}

func TestAuthLoginStatusLogout(t *testing.T) {
	e := setup(t)
	e.opt.Stdin = strings.NewReader("Bearer abcdef1234\n")

	if code := e.run("auth", "login"); code != 0 {
		t.Fatalf("login: code = %d, stderr = %q", code, e.errOut.String())
	}
	if got := auth.Token(); got != "abcdef1234" {
		t.Errorf("stored token = %q", got)
	}
	if code := e.run("auth", "status"); code != 0 || !strings.Contains(e.out.String(), "******1234") {
		t.Errorf("status: code = %d, out = %q", code, e.out.String())
	}

	e.run("lists")
	reqs := e.srv.Requests()
	if len(reqs) == 0 || reqs[len(reqs)-1].Auth != "Bearer abcdef1234" {
		t.Errorf("requests = %+v, want bearer token", reqs)
	}

	if code := e.run("auth", "logout"); code != 0 {
		t.Fatalf("logout: code = %d", code)
	}
	if got := auth.Token(); got != "" {
		t.Errorf("token after logout = %q", got)
	}
}

func TestParseInterspersed(t *testing.T) {
	tests := []struct {
		args    []string
		wantPos []string
		wantP   string
	}{
		{[]string{"groceries", "-p", "high", "Buy", "milk"}, []string{"groceries", "Buy", "milk"}, "high"},
		{[]string{"-p", "low", "groceries", "x"}, []string{"groceries", "x"}, "low"},
		{[]string{"groceries", "--", "-p", "literally"}, []string{"groceries", "-p", "literally"}, ""},
		{nil, nil, ""},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			fs := flag.NewFlagSet("t", flag.ContinueOnError)
			fs.SetOutput(io.Discard)
			p := fs.String("p", "", "")
			pos, err := parseInterspersed(fs, tt.args)
			if err != nil {
				t.Fatal(err)
			}
			if strings.Join(pos, "|") != strings.Join(tt.wantPos, "|") || *p != tt.wantP {
				t.Errorf("pos = %q p = %q, want %q %q", pos, *p, tt.wantPos, tt.wantP)
			}
		})
	}
}
