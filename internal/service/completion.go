package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"task-planner/internal/calendar"
	"task-planner/internal/model"
)

// Complete marks the task satisfied as of today. Today's planned entry is
// created or, when it already exists (as a pin or an earlier completion),
// its cutoff is overwritten. Calling it twice yields the same single entry.
func (s *PlannerService) Complete(ctx context.Context, userID, taskID uint, today calendar.Day) (uint, error) {
	task, err := s.tasks.FindByID(ctx, userID, taskID)
	if err != nil {
		return 0, err
	}

	cutoff, err := completeUpTo(task.Recurring, task.DueDate, today)
	if err != nil {
		return 0, s.invalidState("complete", taskID, fmt.Errorf("complete task %d: %w", taskID, err))
	}

	entry, err := s.entryOn(ctx, userID, taskID, today)
	if err != nil {
		return 0, err
	}
	if entry == nil {
		created := &model.PlannedTask{UserID: userID, TaskID: taskID, Date: today, CompleteUpTo: &cutoff}
		err := s.planned.Create(ctx, created)
		if err == nil {
			s.log.Debug("task completed", zap.Uint("task_id", taskID), zap.String("complete_up_to", cutoff.String()))
			return taskID, nil
		}
		if !errors.Is(err, model.ErrConflict) {
			return 0, err
		}
		// A concurrent request created today's entry first.
		if entry, err = s.entryOn(ctx, userID, taskID, today); err != nil {
			return 0, err
		}
		if entry == nil {
			return 0, fmt.Errorf("complete task %d: %w", taskID, model.ErrConflict)
		}
	}

	if err := s.planned.Update(ctx, entry.ID, map[string]any{"complete_up_to": cutoff}); err != nil {
		return 0, err
	}
	s.log.Debug("task completed", zap.Uint("task_id", taskID), zap.String("complete_up_to", cutoff.String()))
	return taskID, nil
}

// Uncomplete clears the cutoff of every entry that currently satisfies the task.
func (s *PlannerService) Uncomplete(ctx context.Context, userID, taskID uint, today calendar.Day) (uint, error) {
	if _, err := s.tasks.FindByID(ctx, userID, taskID); err != nil {
		return 0, err
	}

	active, err := s.planned.List(ctx, model.PlannedTaskFilter{UserID: userID, TaskIDs: []uint{taskID}, CutoffGTE: &today})
	if err != nil {
		return 0, err
	}
	if len(active) == 0 {
		return 0, fmt.Errorf("task %d is not complete: %w", taskID, model.ErrConflict)
	}
	for _, entry := range active {
		if err := s.planned.Update(ctx, entry.ID, map[string]any{"complete_up_to": nil}); err != nil {
			return 0, err
		}
	}
	return taskID, nil
}

// completeUpTo returns the day through which a completion made today holds.
// Date-driven kinds complete through their due date, which must not be stale:
// an overdue recurring task has to be rolled forward before completion.
func completeUpTo(kind model.Recurring, due *calendar.Day, today calendar.Day) (calendar.Day, error) {
	switch kind {
	case model.RecurringOnce:
		return calendar.Forever, nil
	case model.RecurringPerpetual, model.RecurringDaily:
		return today, nil
	case model.RecurringWeekly, model.RecurringMonthly, model.RecurringYearly:
		if due == nil {
			return "", fmt.Errorf("%s task has no due date: %w", kind, model.ErrInvalidState)
		}
		if due.Before(today) {
			return "", fmt.Errorf("%s task is overdue since %s, roll it forward first: %w", kind, *due, model.ErrInvalidState)
		}
		return *due, nil
	default:
		return "", fmt.Errorf("unknown recurring kind %q: %w", kind, model.ErrInvalidState)
	}
}

// entryOn returns the task's planned entry dated day, or nil.
func (s *PlannerService) entryOn(ctx context.Context, userID, taskID uint, day calendar.Day) (*model.PlannedTask, error) {
	entries, err := s.planned.List(ctx, model.PlannedTaskFilter{UserID: userID, TaskIDs: []uint{taskID}, Date: &day})
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0], nil
}
