package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/tadalists/internal/api"
	"github.com/Makepad-fr/tadalists/internal/auth"
	"github.com/Makepad-fr/tadalists/internal/config"
	"github.com/Makepad-fr/tadalists/internal/lists"
	"github.com/Makepad-fr/tadalists/internal/logging"
	"github.com/Makepad-fr/tadalists/internal/model"
	"github.com/Makepad-fr/tadalists/internal/todos"
	"github.com/Makepad-fr/tadalists/internal/tui"
	"github.com/Makepad-fr/tadalists/internal/ui"
)

const logFileName = "tada.log"

// Options carries what the subcommands need. Zero fields get defaults.
type Options struct {
	Group   bool // list todos grouped by pending/done
	Config  *config.Config
	Logger  *log.Logger
	Backend api.Backend      // built from Config when nil
	Now     func() time.Time // clock for due-date checks
	Stdin   io.Reader
}

func (o *Options) defaults() {
	if o.Config == nil {
		o.Config = &config.Config{
			APIURL:       config.DefaultAPIURL,
			Timeout:      config.DefaultTimeout,
			CascadeDelay: config.DefaultCascadeDelay,
		}
	}
	if o.Logger == nil {
		o.Logger = logging.Discard()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Stdin == nil {
		o.Stdin = os.Stdin
	}
	if o.Backend == nil {
		o.Backend = api.NewClient(o.Config.APIURL,
			api.WithToken(auth.Token()),
			api.WithTimeout(o.Config.Timeout),
			api.WithLogger(o.Logger),
		)
	}
}

func (o *Options) listStore() *lists.Store {
	return lists.NewStore(o.Backend,
		lists.WithLogger(o.Logger),
		lists.WithCascadeDelay(o.Config.CascadeDelay),
	)
}

func (o *Options) todoStore(listID model.ID, extra ...todos.Option) *todos.Store {
	opts := append([]todos.Option{
		todos.WithLogger(o.Logger),
		todos.WithClock(o.Now),
		todos.WithNotifier(printNotifier{}),
	}, extra...)
	return todos.NewStore(o.Backend, listID, opts...)
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, opt Options) int {
	if len(args) == 0 {
		PrintHelp()
		return 2
	}
	opt.defaults()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp()
		return 0

	case "lists", "ls":
		return doLists(ctx, opt)

	case "list":
		return runList(ctx, a, opt)

	case "todos":
		return doTodos(ctx, a, opt)

	case "todo":
		return runTodo(ctx, a, opt)

	case "ui":
		return doUI(ctx, opt)

	case "auth":
		return runAuth(a, opt)
	}

	ui.Fail("unknown subcommand: " + cmd)
	fmt.Fprintln(ui.Stderr())
	PrintHelp()
	return 2
}

// doUI runs the interactive TUI. Logs go to ~/.tada/tada.log while the
// alternate screen is active.
func doUI(ctx context.Context, opt Options) int {
	if dir, err := config.Dir(); err == nil {
		if err := os.MkdirAll(dir, 0o700); err == nil {
			f, err := os.OpenFile(filepath.Join(dir, logFileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
			if err == nil {
				defer f.Close()
				opt.Logger.SetOutput(f)
				defer opt.Logger.SetOutput(ui.Stderr())
			}
		}
	}
	if err := tui.Run(ctx, tui.Options{
		Lists:     opt.listStore(),
		TodoStore: opt.todoStore,
		SortBy:    opt.Config.SortBy,
		Order:     opt.Config.SortOrder,
		Now:       opt.Now,
	}); err != nil {
		ui.Fail("tui: " + err.Error())
		return 1
	}
	return 0
}

func PrintHelp() {
	fmt.Fprintf(ui.Stdout(), `tada - todo lists on a remote API

Usage:
  tada [-api url] [-theme classic|neon|mono] [-log-level lvl] [-group] <subcommand> [args]

Subcommands:
  lists                                 Show all lists
  list add <name...>                    Create a list
  list rename <list> <name...>          Rename a list
  list rm <list>                        Delete a list and all its todos
  todos <list> [-q text] [-tag t]... [-sort created|priority|due|text] [-desc]
                                        Show the todos of a list
  todo add <list> [-p prio] [-due YYYY-MM-DD] [-tag t]... <text...>
  todo edit <list> <index> [-p prio] [-due date] [-tag t]... [text...]
  todo done <list> <index>              Toggle completion
  todo rm <list> <index>                Delete a todo
  ui                                    Interactive TUI
  auth <login|logout|status>            API token

<list> is a list id or name (any case). <index> is the 1-based row shown
by "tada todos <list>" without filters.

Examples:
  tada list add Groceries
  tada todo add groceries -p high -due 2024-08-01 -tag shop Buy milk
  tada todos groceries -tag shop -sort priority -desc
  tada todo done groceries 1
`)
}

// exitCode maps an error to 1 (runtime) or 2 (bad input).
func exitCode(err error) int {
	switch {
	case errors.Is(err, lists.ErrEmptyName),
		errors.Is(err, lists.ErrDuplicateName),
		errors.Is(err, lists.ErrUnknownList),
		errors.Is(err, todos.ErrUnknownTodo),
		errors.Is(err, model.ErrInvalidTodo):
		return 2
	}
	return 1
}

func failErr(prefix string, err error) int {
	ui.Fail(prefix + ": " + err.Error())
	return exitCode(err)
}
