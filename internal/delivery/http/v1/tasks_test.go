package v1

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/valter-silva-au/todo/internal/core"
	"github.com/valter-silva-au/todo/internal/storage"
	"github.com/valter-silva-au/todo/pkg/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type failingPersister struct{}

func (failingPersister) Load(context.Context) ([]models.Task, error) { return nil, nil }
func (failingPersister) Save(context.Context, []models.Task) error {
	return errors.New("disk full")
}

func newTestRouter(t *testing.T, tasks ...models.Task) (*gin.Engine, *core.TaskStore) {
	t.Helper()
	persister := storage.NewMemoryStore("tasks", nil)
	if len(tasks) > 0 {
		if err := persister.Save(context.Background(), tasks); err != nil {
			t.Fatal(err)
		}
	}
	store := core.NewTaskStore(persister, core.NewTaskIDGenerator(), zerolog.Nop())
	store.Load(context.Background())
	return NewRouter(zerolog.Nop(), New(zerolog.Nop(), store)), store
}

func doRequest(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

var fixture = []models.Task{
	{ID: "t1", Text: "Later", DueDate: "2024-05-02", Completed: true},
	{ID: "t2", Text: "Undated", DueDate: "soon"},
	{ID: "t3", Text: "Sooner", DueDate: "2024-05-01"},
}

func TestHandleListTasks(t *testing.T) {
	r, _ := newTestRouter(t, fixture...)

	tests := []struct {
		name    string
		query   string
		wantIDs []string
	}{
		{"all", "", []string{"t1", "t2", "t3"}},
		{"active", "?filter=active", []string{"t2", "t3"}},
		{"completed", "?filter=COMPLETED", []string{"t1"}},
		{"unknown filter", "?filter=bogus", []string{"t1", "t2", "t3"}},
		{"sorted", "?sort=date", []string{"t3", "t1", "t2"}},
		{"sorted bool", "?sort=true&filter=active", []string{"t3", "t2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(r, http.MethodGet, "/api/v1/tasks"+tt.query, "")
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", w.Code)
			}
			var resp listTasksResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decoding body: %v", err)
			}
			if len(resp.Tasks) != len(tt.wantIDs) {
				t.Fatalf("got %d tasks, want %d", len(resp.Tasks), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if resp.Tasks[i].ID != id {
					t.Errorf("task %d = %s, want %s", i, resp.Tasks[i].ID, id)
				}
			}
			if resp.Total != 3 || resp.Active != 2 || resp.Completed != 1 {
				t.Errorf("unexpected counts %+v", resp)
			}
		})
	}
}

func TestHandleListTasks_EmptyIsArray(t *testing.T) {
	r, _ := newTestRouter(t)
	w := doRequest(r, http.MethodGet, "/api/v1/tasks", "")
	if !strings.Contains(w.Body.String(), `"tasks":[]`) {
		t.Errorf("expected empty array, got %s", w.Body.String())
	}
}

func TestHandleCreateTask(t *testing.T) {
	r, store := newTestRouter(t)

	w := doRequest(r, http.MethodPost, "/api/v1/tasks", `{"text":"  Buy milk ","dueDate":"2024-01-01"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
	}
	var task models.Task
	if err := json.Unmarshal(w.Body.Bytes(), &task); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if task.Text != "Buy milk" || task.DueDate != "2024-01-01" || task.Completed || task.ID == "" {
		t.Errorf("unexpected task %+v", task)
	}
	if store.Len() != 1 {
		t.Errorf("store has %d tasks, want 1", store.Len())
	}
}

func TestHandleCreateTask_Validation(t *testing.T) {
	r, store := newTestRouter(t)

	bodies := []string{
		`{"text":"","dueDate":"2024-01-01"}`,
		`{"text":"x","dueDate":"   "}`,
		`{}`,
		`not json`,
	}
	for _, body := range bodies {
		w := doRequest(r, http.MethodPost, "/api/v1/tasks", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, w.Code)
		}
	}
	if store.Len() != 0 {
		t.Errorf("store has %d tasks, want 0", store.Len())
	}
}

func TestHandleToggleTask(t *testing.T) {
	r, store := newTestRouter(t, fixture...)

	w := doRequest(r, http.MethodPost, "/api/v1/tasks/t2/toggle", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if task, _ := store.Get("t2"); !task.Completed {
		t.Error("expected t2 to be completed")
	}

	w = doRequest(r, http.MethodPost, "/api/v1/tasks/nope/toggle", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestHandleDeleteTask(t *testing.T) {
	r, store := newTestRouter(t, fixture...)

	w := doRequest(r, http.MethodDelete, "/api/v1/tasks/t1", "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", w.Code)
	}
	if _, ok := store.Get("t1"); ok {
		t.Error("expected t1 to be gone")
	}

	w = doRequest(r, http.MethodDelete, "/api/v1/tasks/t1", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
	if store.Len() != 2 {
		t.Errorf("store has %d tasks, want 2", store.Len())
	}
}

func TestHandleSortTasks(t *testing.T) {
	r, store := newTestRouter(t, fixture...)

	w := doRequest(r, http.MethodPost, "/api/v1/tasks/sort", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	got := store.GetAll()
	want := []string{"t3", "t1", "t2"}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("stored task %d = %s, want %s", i, got[i].ID, id)
		}
	}
}

func TestHandleCreateTask_PersistFailure(t *testing.T) {
	store := core.NewTaskStore(failingPersister{}, core.NewTaskIDGenerator(), zerolog.Nop())
	r := NewRouter(zerolog.Nop(), New(zerolog.Nop(), store))

	w := doRequest(r, http.MethodPost, "/api/v1/tasks", `{"text":"a","dueDate":"2024-01-01"}`)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
	if store.Len() != 0 {
		t.Errorf("store has %d tasks, want 0", store.Len())
	}
}
