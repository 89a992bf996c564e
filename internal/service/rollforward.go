package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"task-planner/internal/calendar"
	"task-planner/internal/model"
)

// Rollforward moves an overdue recurring task's due date to its next
// occurrence on or after today.
func (s *PlannerService) Rollforward(ctx context.Context, userID, taskID uint, today calendar.Day) (uint, error) {
	task, err := s.tasks.FindByID(ctx, userID, taskID)
	if err != nil {
		return 0, err
	}

	next, err := nextDueDate(*task, today)
	if err != nil {
		return 0, s.invalidState("rollforward", taskID, fmt.Errorf("rollforward task %d: %w", taskID, err))
	}

	if err := s.tasks.Update(ctx, userID, taskID, map[string]any{"due_date": next}); err != nil {
		return 0, err
	}
	s.log.Info("task rolled forward", zap.Uint("task_id", taskID), zap.String("from", task.DueDate.String()), zap.String("to", next.String()))
	return taskID, nil
}

// RollforwardOverdue rolls every active recurring task whose due date is
// before today forward and returns their ids. Once and perpetual tasks are
// left overdue.
func (s *PlannerService) RollforwardOverdue(ctx context.Context, userID uint, today calendar.Day) ([]uint, error) {
	archived := false
	overdue, err := s.tasks.List(ctx, model.TaskFilter{UserID: userID, Archived: &archived, DueDateBefore: &today})
	if err != nil {
		return nil, err
	}

	var rolled []uint
	for _, task := range overdue {
		if !task.Recurring.HasDueDate() {
			continue
		}
		next, err := nextDueDate(task, today)
		if err != nil {
			return rolled, s.invalidState("rollforward", task.ID, fmt.Errorf("rollforward task %d: %w", task.ID, err))
		}
		if err := s.tasks.Update(ctx, userID, task.ID, map[string]any{"due_date": next}); err != nil {
			return rolled, err
		}
		rolled = append(rolled, task.ID)
	}
	if len(rolled) > 0 {
		s.log.Info("overdue tasks rolled forward", zap.Uint("user_id", userID), zap.Int("count", len(rolled)))
	}
	return rolled, nil
}

// nextDueDate returns the first occurrence on or after today. Month and year
// steps are taken from the original due date so a clamped month end does not
// drift (Jan 31 -> Feb 29 -> Mar 31).
func nextDueDate(task model.Task, today calendar.Day) (calendar.Day, error) {
	switch {
	case task.Archived:
		return "", fmt.Errorf("task is archived: %w", model.ErrInvalidState)
	case task.DueDate == nil:
		return "", fmt.Errorf("task has no due date: %w", model.ErrInvalidState)
	case !task.DueDate.Before(today):
		return "", fmt.Errorf("task is not overdue (due %s): %w", *task.DueDate, model.ErrInvalidState)
	}

	due := *task.DueDate
	var step func(n int) calendar.Day
	switch task.Recurring {
	case model.RecurringOnce, model.RecurringPerpetual:
		return "", fmt.Errorf("%s task is not recurring: %w", task.Recurring, model.ErrInvalidState)
	case model.RecurringDaily:
		step = due.AddDays
	case model.RecurringWeekly:
		step = func(n int) calendar.Day { return due.AddDays(7 * n) }
	case model.RecurringMonthly:
		step = due.AddMonths
	case model.RecurringYearly:
		step = due.AddYears
	default:
		return "", fmt.Errorf("unknown recurring kind %q: %w", task.Recurring, model.ErrInvalidState)
	}

	n := 1
	next := step(n)
	for next.Before(today) {
		n++
		next = step(n)
	}
	return next, nil
}
