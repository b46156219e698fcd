// Package lists keeps a local mirror of the remote todo-list collection.
//
// Every mutation goes to the API first; local state only changes once the
// server answered. A failed call is logged and returned and local state is
// left as it was, so the mirror may drift from the server until the next
// Fetch.
package lists

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/Makepad-fr/tadalists/internal/api"
	"github.com/Makepad-fr/tadalists/internal/logging"
	"github.com/Makepad-fr/tadalists/internal/model"
)

var (
	ErrEmptyName     = errors.New("list name cannot be empty")
	ErrDuplicateName = errors.New("a list with the same name already exists")
	ErrUnknownList   = errors.New("unknown list")
)

// FetchFailedMessage is the generic message shown when loading fails.
const FetchFailedMessage = "failed to fetch"

// DefaultCascadeDelay is the pause between deleting a list's todos and
// deleting the list itself.
const DefaultCascadeDelay = 500 * time.Millisecond

type Store struct {
	backend api.Backend
	logger  *log.Logger
	delay   time.Duration

	mu      sync.RWMutex
	lists   []model.TodoList
	loaded  bool
	lastErr string
}

type Option func(*Store)

func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCascadeDelay overrides DefaultCascadeDelay.
func WithCascadeDelay(d time.Duration) Option {
	return func(s *Store) {
		if d >= 0 {
			s.delay = d
		}
	}
}

func NewStore(backend api.Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		logger:  logging.Discard(),
		delay:   DefaultCascadeDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Lists returns a copy of the local lists in server order.
func (s *Store) Lists() []model.TodoList {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.TodoList(nil), s.lists...)
}

// Loaded reports whether a Fetch has completed, successfully or not.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Err returns the generic load error message, or "" after a good fetch.
func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *Store) Find(id model.ID) (model.TodoList, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.index(id)
	if i < 0 {
		return model.TodoList{}, false
	}
	return s.lists[i], true
}

// Resolve finds a list by id, falling back to a case-insensitive name match.
func (s *Store) Resolve(ref string) (model.TodoList, error) {
	ref = strings.TrimSpace(ref)
	if l, ok := s.Find(model.ID(ref)); ok {
		return l, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, l := range s.lists {
		if sameName(l.Name, ref) {
			return l, nil
		}
	}
	return model.TodoList{}, fmt.Errorf("%w: %q", ErrUnknownList, ref)
}

// Fetch replaces the local lists with the server's.
func (s *Store) Fetch(ctx context.Context) error {
	lists, err := s.backend.ListTodoLists(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = true
	if err != nil {
		s.lastErr = FetchFailedMessage
		s.logger.Error("failed to fetch todo lists", "err", err)
		return err
	}
	s.lastErr = ""
	s.lists = lists
	return nil
}

// Add creates a list. Empty and duplicate names are rejected before any
// request is sent.
func (s *Store) Add(ctx context.Context, name string) (model.TodoList, error) {
	name = strings.TrimSpace(name)
	if err := s.checkName(name, ""); err != nil {
		return model.TodoList{}, err
	}

	created, err := s.backend.CreateTodoList(ctx, name)
	if err != nil {
		s.logger.Error("failed to add todo list", "name", name, "err", err)
		return model.TodoList{}, err
	}

	s.mu.Lock()
	s.lists = append(s.lists, *created)
	s.mu.Unlock()
	s.logger.Info("added todo list", "id", created.ID, "name", created.Name)
	return *created, nil
}

// Rename replaces the list's name. The same validation as Add applies,
// except that a list may keep its own name.
func (s *Store) Rename(ctx context.Context, id model.ID, name string) (model.TodoList, error) {
	name = strings.TrimSpace(name)
	current, ok := s.Find(id)
	if !ok {
		return model.TodoList{}, fmt.Errorf("%w: %s", ErrUnknownList, id)
	}
	if err := s.checkName(name, id); err != nil {
		return model.TodoList{}, err
	}

	current.Name = name
	updated, err := s.backend.UpdateTodoList(ctx, current)
	if err != nil {
		s.logger.Error("failed to update todo list", "id", id, "err", err)
		return model.TodoList{}, err
	}

	s.mu.Lock()
	if i := s.index(id); i >= 0 {
		s.lists[i] = *updated
	}
	s.mu.Unlock()
	return *updated, nil
}

// Remove deletes a list and its todos: every todo of the list is deleted
// concurrently, the list is dropped locally, and after the cascade delay the
// list itself is deleted. A 404 while clearing the todos means the list is
// already gone; it is dropped locally and Remove returns nil. Any other
// failure leaves whatever was not yet deleted on the server.
func (s *Store) Remove(ctx context.Context, id model.ID) error {
	if err := s.deleteTodos(ctx, id); err != nil {
		if api.IsNotFound(err) {
			s.drop(id)
			return nil
		}
		s.logger.Error("failed to remove todo list", "id", id, "err", err)
		return err
	}

	s.drop(id)

	if s.delay > 0 {
		t := time.NewTimer(s.delay)
		select {
		case <-ctx.Done():
			t.Stop()
			s.logger.Error("failed to remove todo list", "id", id, "err", ctx.Err())
			return ctx.Err()
		case <-t.C:
		}
	}

	if err := s.backend.DeleteTodoList(ctx, id); err != nil {
		s.logger.Error("failed to remove todo list", "id", id, "err", err)
		return err
	}
	s.logger.Info("removed todo list and its todos", "id", id)
	return nil
}

func (s *Store) deleteTodos(ctx context.Context, id model.ID) error {
	todos, err := s.backend.ListTodos(ctx, id)
	if err != nil {
		return err
	}
	// one delete per todo; a failure does not cancel the others
	var g errgroup.Group
	for _, td := range todos {
		g.Go(func() error {
			return s.backend.DeleteTodo(ctx, td.ID)
		})
	}
	return g.Wait()
}

func (s *Store) drop(id model.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.index(id); i >= 0 {
		s.lists = append(s.lists[:i:i], s.lists[i+1:]...)
	}
}

// checkName validates name against the local lists, ignoring the list self.
func (s *Store) checkName(name string, self model.ID) error {
	if name == "" {
		return ErrEmptyName
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, l := range s.lists {
		if l.ID != self && sameName(l.Name, name) {
			return fmt.Errorf("%w: %q", ErrDuplicateName, l.Name)
		}
	}
	return nil
}

// callers hold s.mu
func (s *Store) index(id model.ID) int {
	for i, l := range s.lists {
		if l.ID == id {
			return i
		}
	}
	return -1
}

func sameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
