// Package todos keeps a local mirror of the todos of one list.
package todos

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/tadalists/internal/api"
	"github.com/Makepad-fr/tadalists/internal/due"
	"github.com/Makepad-fr/tadalists/internal/logging"
	"github.com/Makepad-fr/tadalists/internal/model"
	"github.com/Makepad-fr/tadalists/internal/view"
)

var ErrUnknownTodo = errors.New("unknown todo")

type Store struct {
	backend  api.Backend
	listID   model.ID
	logger   *log.Logger
	notifier due.Notifier
	now      func() time.Time

	mu    sync.RWMutex
	todos []model.Todo
	title string
	tags  []string
}

type Option func(*Store)

func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithNotifier sets where due-date warnings go. Defaults to the logger.
func WithNotifier(n due.Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

// WithTitle seeds Title until a Fetch loads it from the server.
func WithTitle(name string) Option {
	return func(s *Store) { s.title = name }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore returns a store for the todos of listID.
func NewStore(backend api.Backend, listID model.ID, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		listID:  listID,
		logger:  logging.Discard(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.notifier == nil {
		s.notifier = due.LogNotifier{Logger: s.logger}
	}
	return s
}

func (s *Store) ListID() model.ID { return s.listID }

// Todos returns a copy of the local todos in server order.
func (s *Store) Todos() []model.Todo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Todo(nil), s.todos...)
}

// Title is the name of the list, set by Fetch.
func (s *Store) Title() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.title
}

// TagOptions returns every tag used in the list as of the last Fetch.
func (s *Store) TagOptions() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.tags...)
}

func (s *Store) Find(id model.ID) (model.Todo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.index(id)
	if i < 0 {
		return model.Todo{}, false
	}
	return s.todos[i], true
}

// Fetch loads the list's todos, warns about due ones, rebuilds the tag
// options and then loads the list title. It returns the warnings emitted.
// Only a failure to load the todos is an error.
func (s *Store) Fetch(ctx context.Context) ([]due.Warning, error) {
	todos, err := s.backend.ListTodos(ctx, s.listID)
	if err != nil {
		s.logger.Error("failed to fetch todos", "list", s.listID, "err", err)
		return nil, err
	}

	s.mu.Lock()
	s.todos = todos
	s.tags = view.TagOptions(todos)
	s.mu.Unlock()

	warnings := due.Notify(s.notifier, todos, s.now())

	// the todos are usable without the title; keep the previous one
	list, err := s.backend.GetTodoList(ctx, s.listID)
	if err != nil {
		s.logger.Warn("failed to fetch list title", "list", s.listID, "err", err)
		return warnings, nil
	}
	s.mu.Lock()
	s.title = list.Name
	s.mu.Unlock()
	return warnings, nil
}

// Add creates an incomplete todo in the list.
func (s *Store) Add(ctx context.Context, in model.TodoInput) (model.Todo, error) {
	in, err := in.Validate()
	if err != nil {
		return model.Todo{}, err
	}
	td := model.Todo{ListID: s.listID, CreatedAt: s.now().UTC()}.Apply(in)

	created, err := s.backend.CreateTodo(ctx, td)
	if err != nil {
		s.logger.Error("failed to add todo", "list", s.listID, "err", err)
		return model.Todo{}, err
	}

	s.mu.Lock()
	s.todos = append(s.todos, *created)
	s.mu.Unlock()
	due.Notify(s.notifier, []model.Todo{*created}, s.now())
	return *created, nil
}

// Toggle flips the completed flag of a todo.
func (s *Store) Toggle(ctx context.Context, id model.ID) (model.Todo, error) {
	td, ok := s.Find(id)
	if !ok {
		return model.Todo{}, fmt.Errorf("%w: %s", ErrUnknownTodo, id)
	}
	td.Completed = !td.Completed
	return s.replace(ctx, td, "failed to toggle todo")
}

// Update replaces the editable fields of a todo.
func (s *Store) Update(ctx context.Context, id model.ID, in model.TodoInput) (model.Todo, error) {
	td, ok := s.Find(id)
	if !ok {
		return model.Todo{}, fmt.Errorf("%w: %s", ErrUnknownTodo, id)
	}
	in, err := in.Validate()
	if err != nil {
		return model.Todo{}, err
	}
	return s.replace(ctx, td.Apply(in), "failed to update todo")
}

func (s *Store) Remove(ctx context.Context, id model.ID) error {
	if _, ok := s.Find(id); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTodo, id)
	}
	if err := s.backend.DeleteTodo(ctx, id); err != nil {
		s.logger.Error("failed to remove todo", "id", id, "err", err)
		return err
	}
	s.mu.Lock()
	if i := s.index(id); i >= 0 {
		s.todos = append(s.todos[:i:i], s.todos[i+1:]...)
	}
	s.mu.Unlock()
	return nil
}

// replace sends the full record and swaps in the server's answer.
func (s *Store) replace(ctx context.Context, td model.Todo, failMsg string) (model.Todo, error) {
	updated, err := s.backend.UpdateTodo(ctx, td)
	if err != nil {
		s.logger.Error(failMsg, "id", td.ID, "err", err)
		return model.Todo{}, err
	}
	s.mu.Lock()
	if i := s.index(td.ID); i >= 0 {
		s.todos[i] = *updated
	}
	s.mu.Unlock()
	return *updated, nil
}

// callers hold s.mu
func (s *Store) index(id model.ID) int {
	for i, td := range s.todos {
		if td.ID == id {
			return i
		}
	}
	return -1
}
