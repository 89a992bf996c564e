package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"task-planner/internal/calendar"
	"task-planner/internal/model"
	"task-planner/internal/repository"
	"task-planner/internal/service"
)

const testToday = calendar.Day("2024-03-10")

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := repository.NewDB(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	tasks := repository.NewTaskRepository(db)
	planned := repository.NewPlannedTaskRepository(db)
	lists := repository.NewListRepository(db)

	return NewServer(
		service.NewPlannerService(tasks, planned, nil),
		service.NewTaskService(tasks, planned, lists),
		service.NewListService(lists),
		calendar.FixedClock(testToday, time.UTC),
		nil,
	)
}

func do(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(userIDHeader, "1")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return out
}

func createTask(t *testing.T, s *Server, body map[string]any) model.Task {
	t.Helper()
	w := do(t, s, http.MethodPost, "/api/tasks", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("create task: status %d body %s", w.Code, w.Body.String())
	}
	return decode[model.Task](t, w)
}

type agendaResponse struct {
	Date  calendar.Day     `json:"date"`
	Tasks []model.TaskView `json:"tasks"`
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestRequiresUserHeader(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/agenda", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if w.Header().Get(requestIDHeader) == "" {
		t.Fatalf("expected request id header")
	}
}

func TestCompleteFlow(t *testing.T) {
	s := newTestServer(t)
	task := createTask(t, s, map[string]any{"list": "Home", "title": "water plants", "recurring": "daily", "due_date": string(testToday)})

	w := do(t, s, http.MethodPost, fmt.Sprintf("/api/tasks/%d/complete", task.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("complete: status %d body %s", w.Code, w.Body.String())
	}
	if got := decode[idResponse](t, w); got.ID != task.ID {
		t.Fatalf("expected id %d, got %d", task.ID, got.ID)
	}

	w = do(t, s, http.MethodGet, "/api/agenda", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("agenda: status %d", w.Code)
	}
	agenda := decode[agendaResponse](t, w)
	if agenda.Date != testToday || len(agenda.Tasks) != 1 || !agenda.Tasks[0].IsComplete {
		t.Fatalf("unexpected agenda %+v", agenda)
	}

	w = do(t, s, http.MethodPost, fmt.Sprintf("/api/tasks/%d/uncomplete", task.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("uncomplete: status %d", w.Code)
	}
	w = do(t, s, http.MethodPost, fmt.Sprintf("/api/tasks/%d/uncomplete", task.ID), nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 on second uncomplete, got %d", w.Code)
	}
}

func TestAgendaRollsOverdueTasksForward(t *testing.T) {
	s := newTestServer(t)
	task := createTask(t, s, map[string]any{"list": "Home", "title": "trash", "recurring": "weekly", "due_date": "2024-03-03"})

	agenda := decode[agendaResponse](t, do(t, s, http.MethodGet, "/api/agenda", nil))
	if len(agenda.Tasks) != 1 || agenda.Tasks[0].ID != task.ID {
		t.Fatalf("expected rolled task on today's agenda, got %+v", agenda.Tasks)
	}
	if due := agenda.Tasks[0].DueDate; due == nil || *due != testToday {
		t.Fatalf("expected due %s, got %v", testToday, due)
	}
}

func TestScheduleEndpoints(t *testing.T) {
	s := newTestServer(t)
	task := createTask(t, s, map[string]any{"list": "Inbox", "title": "post letter"})
	path := fmt.Sprintf("/api/tasks/%d/schedule", task.ID)

	if w := do(t, s, http.MethodPost, path, scheduleRequest{Date: "2024-03-11"}); w.Code != http.StatusOK {
		t.Fatalf("schedule: status %d body %s", w.Code, w.Body.String())
	}
	if w := do(t, s, http.MethodPost, path, scheduleRequest{Date: "2024-03-11"}); w.Code != http.StatusConflict {
		t.Fatalf("expected 409 on duplicate schedule, got %d", w.Code)
	}
	if w := do(t, s, http.MethodPost, path, scheduleRequest{Date: "11.03.2024"}); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 on bad date, got %d", w.Code)
	}

	agenda := decode[agendaResponse](t, do(t, s, http.MethodGet, "/api/agenda?date=2024-03-11", nil))
	if len(agenda.Tasks) != 1 || !agenda.Tasks[0].ScheduledTomorrow {
		t.Fatalf("expected task pinned tomorrow, got %+v", agenda.Tasks)
	}

	if w := do(t, s, http.MethodDelete, path+"/2024-03-11", nil); w.Code != http.StatusOK {
		t.Fatalf("unschedule: status %d", w.Code)
	}
	if w := do(t, s, http.MethodDelete, path+"/2024-03-11", nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second unschedule, got %d", w.Code)
	}
}

func TestRollforwardInvalidState(t *testing.T) {
	s := newTestServer(t)
	task := createTask(t, s, map[string]any{"list": "Inbox", "title": "one off"})

	w := do(t, s, http.MethodPost, fmt.Sprintf("/api/tasks/%d/rollforward", task.ID), nil)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
}

func TestTaskCRUD(t *testing.T) {
	s := newTestServer(t)
	task := createTask(t, s, map[string]any{"list": "Inbox", "title": "draft", "order": 2})

	w := do(t, s, http.MethodPatch, fmt.Sprintf("/api/tasks/%d", task.ID), map[string]any{"title": "final", "clear_order": true})
	if w.Code != http.StatusOK {
		t.Fatalf("patch: status %d body %s", w.Code, w.Body.String())
	}

	w = do(t, s, http.MethodGet, fmt.Sprintf("/api/tasks/%d", task.ID), nil)
	view := decode[model.TaskView](t, w)
	if view.Title != "final" || view.Order != nil {
		t.Fatalf("unexpected task after patch %+v", view)
	}

	if w := do(t, s, http.MethodPost, fmt.Sprintf("/api/tasks/%d/archive", task.ID), nil); w.Code != http.StatusOK {
		t.Fatalf("archive: status %d", w.Code)
	}
	archived := decode[agendaResponse](t, do(t, s, http.MethodGet, "/api/archived", nil))
	if len(archived.Tasks) != 1 {
		t.Fatalf("expected one archived task, got %d", len(archived.Tasks))
	}

	if w := do(t, s, http.MethodDelete, fmt.Sprintf("/api/tasks/%d", task.ID), nil); w.Code != http.StatusOK {
		t.Fatalf("delete: status %d", w.Code)
	}
	if w := do(t, s, http.MethodGet, fmt.Sprintf("/api/tasks/%d", task.ID), nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", w.Code)
	}
}

func TestCreateTaskValidation(t *testing.T) {
	s := newTestServer(t)

	cases := []struct {
		name string
		body map[string]any
	}{
		{"blank title", map[string]any{"list": "Inbox", "title": " "}},
		{"unknown recurrence", map[string]any{"list": "Inbox", "title": "x", "recurring": "hourly"}},
		{"bad due date", map[string]any{"list": "Inbox", "title": "x", "due_date": "soon"}},
	}
	for _, tc := range cases {
		if w := do(t, s, http.MethodPost, "/api/tasks", tc.body); w.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", tc.name, w.Code)
		}
	}
	if w := do(t, s, http.MethodGet, "/api/tasks/abc", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad id, got %d", w.Code)
	}
}

func TestListEndpoints(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodPost, "/api/lists", listRequest{Name: "Habits", RecurringDefault: "daily"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create list: status %d body %s", w.Code, w.Body.String())
	}
	list := decode[model.List](t, w)
	if w := do(t, s, http.MethodPost, "/api/lists", listRequest{Name: "Habits"}); w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate list, got %d", w.Code)
	}

	task := createTask(t, s, map[string]any{"list_id": list.ID, "title": "stretch"})
	if task.Recurring != model.RecurringDaily {
		t.Fatalf("expected list default recurrence, got %s", task.Recurring)
	}

	w = do(t, s, http.MethodGet, fmt.Sprintf("/api/lists/%d/tasks", list.ID), nil)
	tasks := decode[agendaResponse](t, w)
	if len(tasks.Tasks) != 1 || tasks.Tasks[0].ID != task.ID {
		t.Fatalf("unexpected list tasks %+v", tasks.Tasks)
	}

	if w := do(t, s, http.MethodPatch, fmt.Sprintf("/api/lists/%d", list.ID), listRequest{Name: "Routine"}); w.Code != http.StatusOK {
		t.Fatalf("rename: status %d", w.Code)
	}
	if w := do(t, s, http.MethodDelete, fmt.Sprintf("/api/lists/%d", list.ID), nil); w.Code != http.StatusOK {
		t.Fatalf("delete list: status %d", w.Code)
	}
	if w := do(t, s, http.MethodGet, fmt.Sprintf("/api/tasks/%d", task.ID), nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected task removed with list, got %d", w.Code)
	}
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("find: %w", model.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("x: %w", model.ErrConflict), http.StatusConflict},
		{fmt.Errorf("x: %w", model.ErrInvalidState), http.StatusUnprocessableEntity},
		{fmt.Errorf("x: %w", model.ErrInvalidArgs), http.StatusBadRequest},
		{&model.StoreError{Op: "list tasks", Err: errors.New("disk full")}, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := statusFor(tc.err); got != tc.want {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.want, got)
		}
	}
}
