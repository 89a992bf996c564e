package service

import (
	"context"

	"task-planner/internal/calendar"
	"task-planner/internal/model"
)

// Agenda returns the tasks relevant to day: tasks due that day and tasks
// pinned to it, each once, expanded relative to today and sorted.
func (s *PlannerService) Agenda(ctx context.Context, userID uint, day, today calendar.Day) ([]model.TaskView, error) {
	archived := false
	due, err := s.tasks.List(ctx, model.TaskFilter{UserID: userID, Archived: &archived, DueDate: &day})
	if err != nil {
		return nil, err
	}
	scheduled, err := s.tasks.ListScheduledOn(ctx, userID, day)
	if err != nil {
		return nil, err
	}
	return s.expandSorted(ctx, userID, unionByID(due, scheduled), today)
}

// ListTasks returns the active tasks of one list.
func (s *PlannerService) ListTasks(ctx context.Context, userID, listID uint, today calendar.Day) ([]model.TaskView, error) {
	archived := false
	tasks, err := s.tasks.List(ctx, model.TaskFilter{UserID: userID, ListID: &listID, Archived: &archived})
	if err != nil {
		return nil, err
	}
	return s.expandSorted(ctx, userID, tasks, today)
}

// Archived returns every archived task of the user.
func (s *PlannerService) Archived(ctx context.Context, userID uint, today calendar.Day) ([]model.TaskView, error) {
	archived := true
	tasks, err := s.tasks.List(ctx, model.TaskFilter{UserID: userID, Archived: &archived})
	if err != nil {
		return nil, err
	}
	return s.expandSorted(ctx, userID, tasks, today)
}

// GetTask returns one expanded task.
func (s *PlannerService) GetTask(ctx context.Context, userID, taskID uint, today calendar.Day) (*model.TaskView, error) {
	task, err := s.tasks.FindByID(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	views, err := s.Expand(ctx, userID, []model.Task{*task}, today)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *PlannerService) expandSorted(ctx context.Context, userID uint, tasks []model.Task, today calendar.Day) ([]model.TaskView, error) {
	views, err := s.Expand(ctx, userID, tasks, today)
	if err != nil {
		return nil, err
	}
	SortViews(views)
	return views, nil
}

// unionByID concatenates task sets keeping the first occurrence of each id.
func unionByID(sets ...[]model.Task) []model.Task {
	seen := make(map[uint]struct{})
	var out []model.Task
	for _, set := range sets {
		for _, task := range set {
			if _, ok := seen[task.ID]; ok {
				continue
			}
			seen[task.ID] = struct{}{}
			out = append(out, task)
		}
	}
	return out
}
