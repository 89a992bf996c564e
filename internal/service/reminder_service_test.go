package service

import (
	"context"
	"strings"
	"testing"

	"task-planner/internal/model"
)

func TestSplitAgenda(t *testing.T) {
	t.Parallel()

	today := day("2024-08-10")
	views := []model.TaskView{
		{Task: model.Task{ID: 1, DueDate: dayPtr("2024-08-09")}},
		{Task: model.Task{ID: 2}, ScheduledToday: true},
		{Task: model.Task{ID: 3, DueDate: &today}, IsComplete: true},
		{Task: model.Task{ID: 4, DueDate: &today}},
		{Task: model.Task{ID: 5, DueDate: dayPtr("2024-08-12")}, ScheduledToday: true},
	}

	s := SplitAgenda(views, today)
	if len(s.Due) != 2 || s.Due[0].ID != 1 || s.Due[1].ID != 4 {
		t.Fatalf("unexpected due section %+v", s.Due)
	}
	if len(s.Planned) != 2 || s.Planned[0].ID != 2 || s.Planned[1].ID != 5 {
		t.Fatalf("unexpected planned section %+v", s.Planned)
	}
	if len(s.Done) != 1 || s.Done[0].ID != 3 {
		t.Fatalf("unexpected done section %+v", s.Done)
	}
}

func TestFormatTaskView(t *testing.T) {
	t.Parallel()

	today := day("2024-08-10")
	view := model.TaskView{
		Task: model.Task{ID: 12, ListID: 3, Title: "pay <rent>", Recurring: model.RecurringMonthly, DueDate: dayPtr("2024-08-01"), Notes: "bank"},
	}

	got := FormatTaskView(view, map[uint]string{3: "Home"}, today)
	for _, want := range []string{"⚠️", "#12", "pay &lt;rent&gt;", "🔁1м", "(Home)", "просрочено", "📝 bank"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in %q", want, got)
		}
	}

	until := day("2024-08-31")
	view.IsComplete = true
	view.CompletedUntil = &until
	got = FormatTaskView(view, nil, today)
	if !strings.HasPrefix(got, "✅") || !strings.Contains(got, "выполнено до 2024-08-31") {
		t.Fatalf("unexpected completed rendering %q", got)
	}
}

func TestDailySummary(t *testing.T) {
	t.Parallel()

	db := newFakeDB()
	planner := NewPlannerService(db.taskStore(), db.plannedStore(), nil)
	lists := NewListService(db.listStore())
	tasks := NewTaskService(db.taskStore(), db.plannedStore(), db.listStore())
	reminder := NewReminderService(planner, lists)
	ctx := context.Background()
	today := day("2024-08-10")

	if _, err := tasks.CreateTask(ctx, testUser, TaskInput{ListName: "Home", Title: "trash", Recurring: model.RecurringWeekly, DueDate: dayPtr("2024-08-03")}); err != nil {
		t.Fatalf("create weekly: %v", err)
	}
	if _, err := tasks.CreateAndSchedule(ctx, testUser, TaskInput{ListName: "Home", Title: "dentist"}, today); err != nil {
		t.Fatalf("create pinned: %v", err)
	}

	text, err := reminder.DailySummary(ctx, model.User{ID: testUser}, today)
	if err != nil {
		t.Fatalf("daily summary: %v", err)
	}
	for _, want := range []string{"10.08.2024", "trash", "dentist", "(Home)"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in summary:\n%s", want, text)
		}
	}
	// The weekly task was rolled from 2024-08-03 onto today.
	if !strings.Contains(text, "срок 2024-08-10") {
		t.Fatalf("expected rolled due date in summary:\n%s", text)
	}
}

func TestDailySummaryEmpty(t *testing.T) {
	t.Parallel()

	db := newFakeDB()
	planner := NewPlannerService(db.taskStore(), db.plannedStore(), nil)
	reminder := NewReminderService(planner, NewListService(db.listStore()))

	text, err := reminder.DailySummary(context.Background(), model.User{ID: testUser}, day("2024-08-10"))
	if err != nil {
		t.Fatalf("daily summary: %v", err)
	}
	if !strings.Contains(text, "ничего срочного") || !strings.Contains(text, "нет запланированных задач") {
		t.Fatalf("expected empty placeholders, got:\n%s", text)
	}
}
