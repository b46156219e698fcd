// Package api is a thin client for the todo-list REST API
// (/todoLists and /todos resources).
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/Makepad-fr/tadalists/internal/model"
)

const (
	listsPath = "/todoLists"
	todosPath = "/todos"

	DefaultTimeout = 10 * time.Second
)

// Backend is the set of remote operations the list and todo stores use.
type Backend interface {
	ListTodoLists(ctx context.Context) ([]model.TodoList, error)
	GetTodoList(ctx context.Context, id model.ID) (*model.TodoList, error)
	CreateTodoList(ctx context.Context, name string) (*model.TodoList, error)
	UpdateTodoList(ctx context.Context, list model.TodoList) (*model.TodoList, error)
	DeleteTodoList(ctx context.Context, id model.ID) error

	ListTodos(ctx context.Context, listID model.ID) ([]model.Todo, error)
	CreateTodo(ctx context.Context, todo model.Todo) (*model.Todo, error)
	UpdateTodo(ctx context.Context, todo model.Todo) (*model.Todo, error)
	DeleteTodo(ctx context.Context, id model.ID) error
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *log.Logger
}

type Option func(*Client)

// WithToken sends token as a bearer token on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = strings.TrimSpace(token) }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

// ---------------------------------------------------
// todo lists
// ---------------------------------------------------

func (c *Client) ListTodoLists(ctx context.Context) ([]model.TodoList, error) {
	var lists []model.TodoList
	if err := c.do(ctx, http.MethodGet, listsPath, nil, nil, &lists); err != nil {
		return nil, fmt.Errorf("list todo lists: %w", err)
	}
	if lists == nil {
		lists = []model.TodoList{}
	}
	return lists, nil
}

func (c *Client) GetTodoList(ctx context.Context, id model.ID) (*model.TodoList, error) {
	var list model.TodoList
	if err := c.do(ctx, http.MethodGet, itemPath(listsPath, id), nil, nil, &list); err != nil {
		return nil, fmt.Errorf("get todo list %s: %w", id, err)
	}
	return &list, nil
}

func (c *Client) CreateTodoList(ctx context.Context, name string) (*model.TodoList, error) {
	var created model.TodoList
	if err := c.do(ctx, http.MethodPost, listsPath, nil, model.TodoList{Name: name}, &created); err != nil {
		return nil, fmt.Errorf("create todo list: %w", err)
	}
	return &created, nil
}

func (c *Client) UpdateTodoList(ctx context.Context, list model.TodoList) (*model.TodoList, error) {
	var updated model.TodoList
	if err := c.do(ctx, http.MethodPut, itemPath(listsPath, list.ID), nil, list, &updated); err != nil {
		return nil, fmt.Errorf("update todo list %s: %w", list.ID, err)
	}
	return &updated, nil
}

func (c *Client) DeleteTodoList(ctx context.Context, id model.ID) error {
	if err := c.do(ctx, http.MethodDelete, itemPath(listsPath, id), nil, nil, nil); err != nil {
		return fmt.Errorf("delete todo list %s: %w", id, err)
	}
	return nil
}

// ---------------------------------------------------
// todos
// ---------------------------------------------------

func (c *Client) ListTodos(ctx context.Context, listID model.ID) ([]model.Todo, error) {
	q := url.Values{}
	q.Set("todoListsId", listID.String())
	var todos []model.Todo
	if err := c.do(ctx, http.MethodGet, todosPath, q, nil, &todos); err != nil {
		return nil, fmt.Errorf("list todos of %s: %w", listID, err)
	}
	if todos == nil {
		todos = []model.Todo{}
	}
	return todos, nil
}

func (c *Client) CreateTodo(ctx context.Context, todo model.Todo) (*model.Todo, error) {
	todo.ID = ""
	var created model.Todo
	if err := c.do(ctx, http.MethodPost, todosPath, nil, todo, &created); err != nil {
		return nil, fmt.Errorf("create todo: %w", err)
	}
	return &created, nil
}

func (c *Client) UpdateTodo(ctx context.Context, todo model.Todo) (*model.Todo, error) {
	var updated model.Todo
	if err := c.do(ctx, http.MethodPut, itemPath(todosPath, todo.ID), nil, todo, &updated); err != nil {
		return nil, fmt.Errorf("update todo %s: %w", todo.ID, err)
	}
	return &updated, nil
}

func (c *Client) DeleteTodo(ctx context.Context, id model.ID) error {
	if err := c.do(ctx, http.MethodDelete, itemPath(todosPath, id), nil, nil, nil); err != nil {
		return fmt.Errorf("delete todo %s: %w", id, err)
	}
	return nil
}

// ---------------------------------------------------
// transport
// ---------------------------------------------------

func itemPath(collection string, id model.ID) string {
	return collection + "/" + url.PathEscape(id.String())
}

// do sends one JSON request. A nil in skips the body, a nil out discards
// the response body.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", reqID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "method", method, "path", path, "request_id", reqID, "err", err)
		return err
	}
	defer resp.Body.Close()
	c.logger.Debug("request", "method", method, "path", path, "status", resp.StatusCode,
		"request_id", reqID, "elapsed", time.Since(start).Round(time.Millisecond))

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(method, path, resp.StatusCode, respBody)
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
