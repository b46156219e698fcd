// Package apitest provides an in-memory fake of the todo-list REST API
// backed by httptest.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/Makepad-fr/tadalists/internal/model"
)

// Request records one call received by the fake.
type Request struct {
	Method string
	Path   string
	Query  string
	Auth   string
}

type failure struct {
	method string
	prefix string
	status int
}

type Server struct {
	*httptest.Server

	mu       sync.Mutex
	nextID   int
	lists    map[model.ID]model.TodoList
	todos    map[model.ID]model.Todo
	requests []Request
	failures []failure
}

// NewServer starts a fake API and closes it when the test ends.
func NewServer(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		lists: map[model.ID]model.TodoList{},
		todos: map[model.ID]model.Todo{},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /todoLists", s.listLists)
	mux.HandleFunc("GET /todoLists/{id}", s.getList)
	mux.HandleFunc("POST /todoLists", s.createList)
	mux.HandleFunc("PUT /todoLists/{id}", s.updateList)
	mux.HandleFunc("DELETE /todoLists/{id}", s.deleteList)
	mux.HandleFunc("GET /todos", s.listTodos)
	mux.HandleFunc("POST /todos", s.createTodo)
	mux.HandleFunc("PUT /todos/{id}", s.updateTodo)
	mux.HandleFunc("DELETE /todos/{id}", s.deleteTodo)

	s.Server = httptest.NewServer(s.record(mux))
	t.Cleanup(s.Close)
	return s
}

// FailNext makes the next request matching method and path prefix answer
// with status.
func (s *Server) FailNext(method, pathPrefix string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, failure{method: method, prefix: pathPrefix, status: status})
}

// SeedList stores a list directly, bypassing the HTTP layer.
func (s *Server) SeedList(name string) model.TodoList {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := model.TodoList{ID: s.newID(), Name: name}
	s.lists[l.ID] = l
	return l
}

// SeedTodo stores a todo directly, bypassing the HTTP layer.
func (s *Server) SeedTodo(td model.Todo) model.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	td.ID = s.newID()
	if td.Tags == nil {
		td.Tags = []string{}
	}
	s.todos[td.ID] = td
	return td
}

func (s *Server) Lists() []model.TodoList {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.TodoList, 0, len(s.lists))
	for _, l := range s.lists {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return idLess(out[i].ID, out[j].ID) })
	return out
}

func (s *Server) Todos() []model.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedTodos("")
}

// Requests returns the calls received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Count returns how many received calls match method and path prefix.
func (s *Server) Count(method, pathPrefix string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method && strings.HasPrefix(r.Path, pathPrefix) {
			n++
		}
	}
	return n
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Auth:   r.Header.Get("Authorization"),
		})
		for i, f := range s.failures {
			if f.method == r.Method && strings.HasPrefix(r.URL.Path, f.prefix) {
				s.failures = append(s.failures[:i], s.failures[i+1:]...)
				s.mu.Unlock()
				writeJSON(w, f.status, map[string]string{"message": http.StatusText(f.status)})
				return
			}
		}
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) listLists(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Lists())
}

func (s *Server) getList(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	l, ok := s.lists[model.ID(r.PathValue("id"))]
	s.mu.Unlock()
	if !ok {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) createList(w http.ResponseWriter, r *http.Request) {
	var l model.TodoList
	if err := json.NewDecoder(r.Body).Decode(&l); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}
	s.mu.Lock()
	l.ID = s.newID()
	s.lists[l.ID] = l
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, l)
}

func (s *Server) updateList(w http.ResponseWriter, r *http.Request) {
	id := model.ID(r.PathValue("id"))
	var l model.TodoList
	if err := json.NewDecoder(r.Body).Decode(&l); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lists[id]; !ok {
		notFound(w)
		return
	}
	l.ID = id
	s.lists[id] = l
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) deleteList(w http.ResponseWriter, r *http.Request) {
	id := model.ID(r.PathValue("id"))
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.lists[id]
	if !ok {
		notFound(w)
		return
	}
	delete(s.lists, id)
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) listTodos(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := s.sortedTodos(model.ID(r.URL.Query().Get("todoListsId")))
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createTodo(w http.ResponseWriter, r *http.Request) {
	var td model.Todo
	if err := json.NewDecoder(r.Body).Decode(&td); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}
	s.mu.Lock()
	td.ID = s.newID()
	s.todos[td.ID] = td
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, td)
}

func (s *Server) updateTodo(w http.ResponseWriter, r *http.Request) {
	id := model.ID(r.PathValue("id"))
	var td model.Todo
	if err := json.NewDecoder(r.Body).Decode(&td); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.todos[id]; !ok {
		notFound(w)
		return
	}
	td.ID = id
	s.todos[id] = td
	writeJSON(w, http.StatusOK, td)
}

func (s *Server) deleteTodo(w http.ResponseWriter, r *http.Request) {
	id := model.ID(r.PathValue("id"))
	s.mu.Lock()
	defer s.mu.Unlock()
	td, ok := s.todos[id]
	if !ok {
		notFound(w)
		return
	}
	delete(s.todos, id)
	writeJSON(w, http.StatusOK, td)
}

// callers hold s.mu
func (s *Server) newID() model.ID {
	s.nextID++
	return model.ID(strconv.Itoa(s.nextID))
}

// callers hold s.mu
func (s *Server) sortedTodos(listID model.ID) []model.Todo {
	out := make([]model.Todo, 0, len(s.todos))
	for _, td := range s.todos {
		if listID != "" && td.ListID != listID {
			continue
		}
		out = append(out, td)
	}
	sort.Slice(out, func(i, j int) bool { return idLess(out[i].ID, out[j].ID) })
	return out
}

func idLess(a, b model.ID) bool {
	ai, errA := strconv.Atoi(a.String())
	bi, errB := strconv.Atoi(b.String())
	if errA == nil && errB == nil {
		return ai < bi
	}
	return a < b
}

func notFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, "Not found")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
