package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Makepad-fr/tadalists/internal/api"
	"github.com/Makepad-fr/tadalists/internal/api/apitest"
	"github.com/Makepad-fr/tadalists/internal/model"
)

func TestClientListCRUD(t *testing.T) {
	srv := apitest.NewServer(t)
	c := api.NewClient(srv.URL)
	ctx := context.Background()

	created, err := c.CreateTodoList(ctx, "Groceries")
	if err != nil {
		t.Fatalf("CreateTodoList: %v", err)
	}
	if created.ID == "" || created.Name != "Groceries" {
		t.Fatalf("created = %+v", created)
	}

	created.Name = "Shopping"
	updated, err := c.UpdateTodoList(ctx, *created)
	if err != nil {
		t.Fatalf("UpdateTodoList: %v", err)
	}
	if updated.Name != "Shopping" {
		t.Errorf("updated name = %q, want Shopping", updated.Name)
	}

	got, err := c.GetTodoList(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetTodoList: %v", err)
	}
	if got.Name != "Shopping" {
		t.Errorf("GetTodoList name = %q, want Shopping", got.Name)
	}

	lists, err := c.ListTodoLists(ctx)
	if err != nil {
		t.Fatalf("ListTodoLists: %v", err)
	}
	if len(lists) != 1 {
		t.Fatalf("len(lists) = %d, want 1", len(lists))
	}

	if err := c.DeleteTodoList(ctx, created.ID); err != nil {
		t.Fatalf("DeleteTodoList: %v", err)
	}
	if _, err := c.GetTodoList(ctx, created.ID); !api.IsNotFound(err) {
		t.Errorf("GetTodoList after delete: err = %v, want not found", err)
	}
}

func TestClientTodosFilteredByList(t *testing.T) {
	srv := apitest.NewServer(t)
	a := srv.SeedList("A")
	b := srv.SeedList("B")
	srv.SeedTodo(model.Todo{ListID: a.ID, Text: "one"})
	srv.SeedTodo(model.Todo{ListID: b.ID, Text: "two"})

	c := api.NewClient(srv.URL + "/")
	todos, err := c.ListTodos(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("ListTodos: %v", err)
	}
	if len(todos) != 1 || todos[0].Text != "one" {
		t.Fatalf("ListTodos(a) = %+v, want only \"one\"", todos)
	}
	reqs := srv.Requests()
	if last := reqs[len(reqs)-1]; last.Query != "todoListsId="+a.ID.String() {
		t.Errorf("query = %q", last.Query)
	}
}

func TestClientTodoRoundTrip(t *testing.T) {
	srv := apitest.NewServer(t)
	l := srv.SeedList("Work")
	c := api.NewClient(srv.URL)
	ctx := context.Background()

	due := model.NewDate(2024, time.August, 1)
	created, err := c.CreateTodo(ctx, model.Todo{
		ListID:    l.ID,
		Text:      "ship release",
		Priority:  model.PriorityHigh,
		DueDate:   due,
		CreatedAt: time.Date(2024, 7, 30, 10, 0, 0, 0, time.UTC),
		Tags:      []string{"work"},
	})
	if err != nil {
		t.Fatalf("CreateTodo: %v", err)
	}
	if created.ID == "" || !created.DueDate.Equal(due.Time) || created.Priority != model.PriorityHigh {
		t.Fatalf("created = %+v", created)
	}

	created.Completed = true
	updated, err := c.UpdateTodo(ctx, *created)
	if err != nil {
		t.Fatalf("UpdateTodo: %v", err)
	}
	if !updated.Completed {
		t.Error("update did not persist completed flag")
	}

	if err := c.DeleteTodo(ctx, created.ID); err != nil {
		t.Fatalf("DeleteTodo: %v", err)
	}
	if err := c.DeleteTodo(ctx, created.ID); !api.IsNotFound(err) {
		t.Errorf("second delete: err = %v, want not found", err)
	}
}

func TestClientSendsBearerToken(t *testing.T) {
	srv := apitest.NewServer(t)
	c := api.NewClient(srv.URL, api.WithToken(" abc123 "))
	if _, err := c.ListTodoLists(context.Background()); err != nil {
		t.Fatalf("ListTodoLists: %v", err)
	}
	if got := srv.Requests()[0].Auth; got != "Bearer abc123" {
		t.Errorf("Authorization = %q, want %q", got, "Bearer abc123")
	}
}

func TestAPIErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"message field", `{"message":"list is locked"}`, "list is locked"},
		{"error field", `{"error":"boom"}`, "boom"},
		{"json string", `"Not found"`, "Not found"},
		{"raw text", `upstream down`, "upstream down"},
		{"empty", ``, http.StatusText(http.StatusTeapot)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTeapot)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			_, err := api.NewClient(ts.URL).ListTodoLists(context.Background())
			var apiErr *api.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("err = %v, want *APIError", err)
			}
			if apiErr.StatusCode != http.StatusTeapot || apiErr.Message != tt.want {
				t.Errorf("got %d %q, want %d %q", apiErr.StatusCode, apiErr.Message, http.StatusTeapot, tt.want)
			}
		})
	}
}

func TestClientHonoursContext(t *testing.T) {
	srv := apitest.NewServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := api.NewClient(srv.URL).ListTodoLists(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
