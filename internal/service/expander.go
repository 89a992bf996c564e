package service

import (
	"context"

	"task-planner/internal/calendar"
	"task-planner/internal/model"
)

// Expand derives scheduling and completion flags for tasks relative to today.
// Output keeps input order.
func (s *PlannerService) Expand(ctx context.Context, userID uint, tasks []model.Task, today calendar.Day) ([]model.TaskView, error) {
	views := make([]model.TaskView, 0, len(tasks))
	if len(tasks) == 0 {
		return views, nil
	}

	taskIDs := make([]uint, 0, len(tasks))
	for _, task := range tasks {
		taskIDs = append(taskIDs, task.ID)
	}
	tomorrow := today.AddDays(1)

	plannedToday, err := s.planned.List(ctx, model.PlannedTaskFilter{UserID: userID, TaskIDs: taskIDs, Date: &today})
	if err != nil {
		return nil, err
	}
	plannedTomorrow, err := s.planned.List(ctx, model.PlannedTaskFilter{UserID: userID, TaskIDs: taskIDs, Date: &tomorrow})
	if err != nil {
		return nil, err
	}
	completed, err := s.planned.List(ctx, model.PlannedTaskFilter{UserID: userID, TaskIDs: taskIDs, CutoffGTE: &today})
	if err != nil {
		return nil, err
	}

	onToday := taskSet(plannedToday)
	onTomorrow := taskSet(plannedTomorrow)
	satisfying := make(map[uint]model.PlannedTask, len(completed))
	for _, entry := range completed {
		if cur, ok := satisfying[entry.TaskID]; !ok || entry.ID < cur.ID {
			satisfying[entry.TaskID] = entry
		}
	}

	for _, task := range tasks {
		view := model.TaskView{
			Task:              task,
			ScheduledToday:    onToday[task.ID],
			ScheduledTomorrow: onTomorrow[task.ID],
		}
		if entry, ok := satisfying[task.ID]; ok {
			date, until, id := entry.Date, *entry.CompleteUpTo, entry.ID
			view.IsComplete = true
			view.CompletedAt = &date
			view.CompletedUntil = &until
			view.CompletedID = &id
		}
		views = append(views, view)
	}
	return views, nil
}

func taskSet(entries []model.PlannedTask) map[uint]bool {
	set := make(map[uint]bool, len(entries))
	for _, entry := range entries {
		set[entry.TaskID] = true
	}
	return set
}
