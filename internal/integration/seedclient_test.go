package integration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestFetchTodos_Success(t *testing.T) {
	var gotLimit string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLimit = r.URL.Query().Get("_limit")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"userId":1,"id":1,"title":"A","completed":false},
			{"userId":1,"id":2,"title":"B","completed":true},
			{"userId":1,"id":3,"title":"C","completed":false},
			{"userId":1,"id":4,"title":"D","completed":false},
			{"userId":1,"id":5,"title":"E","completed":true}
		]`))
	}))
	defer srv.Close()

	todos, err := NewTodoClient(srv.URL+"/todos", time.Second).FetchTodos(context.Background(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotLimit != "5" {
		t.Errorf("expected _limit=5, got %q", gotLimit)
	}
	if len(todos) != 5 {
		t.Fatalf("expected 5 todos, got %d", len(todos))
	}
	wantTitles := []string{"A", "B", "C", "D", "E"}
	for i, todo := range todos {
		if todo.Title != wantTitles[i] {
			t.Errorf("todo %d: title = %q, want %q", i, todo.Title, wantTitles[i])
		}
	}
	if !todos[1].Completed || !todos[4].Completed || todos[0].Completed {
		t.Errorf("completed flags not decoded: %+v", todos)
	}
}

func TestFetchTodos_KeepsExistingQuery(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := NewTodoClient(srv.URL+"/todos?userId=2", 0).FetchTodos(context.Background(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(gotQuery, "userId=2") || !strings.Contains(gotQuery, "_limit=3") {
		t.Errorf("unexpected query %q", gotQuery)
	}
}

func TestFetchTodos_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewTodoClient(srv.URL, time.Second).FetchTodos(context.Background(), 5)
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if !strings.Contains(err.Error(), "500") {
		t.Errorf("expected status code in error, got %v", err)
	}
}

func TestFetchTodos_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"title": "not an array"}`))
	}))
	defer srv.Close()

	if _, err := NewTodoClient(srv.URL, time.Second).FetchTodos(context.Background(), 5); err == nil {
		t.Fatal("expected error for malformed body")
	}
}

func TestFetchTodos_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewTodoClient(srv.URL, time.Second).FetchTodos(ctx, 5); err == nil {
		t.Fatal("expected error for canceled context")
	}
}
