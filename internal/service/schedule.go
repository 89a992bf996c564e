package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"task-planner/internal/calendar"
	"task-planner/internal/model"
)

// Schedule pins the task to day. It is rejected when the task is already
// pinned to that day or already satisfied on or after it.
func (s *PlannerService) Schedule(ctx context.Context, userID, taskID uint, day calendar.Day) (uint, error) {
	if _, err := s.tasks.FindByID(ctx, userID, taskID); err != nil {
		return 0, err
	}

	pinned, err := s.entryOn(ctx, userID, taskID, day)
	if err != nil {
		return 0, err
	}
	if pinned != nil {
		return 0, fmt.Errorf("task %d already scheduled on %s: %w", taskID, day, model.ErrConflict)
	}

	satisfied, err := s.planned.List(ctx, model.PlannedTaskFilter{UserID: userID, TaskIDs: []uint{taskID}, CutoffGTE: &day})
	if err != nil {
		return 0, err
	}
	if len(satisfied) > 0 {
		return 0, fmt.Errorf("task %d already completed through %s: %w", taskID, *satisfied[0].CompleteUpTo, model.ErrConflict)
	}

	// The unique (task, date) index reports a racing duplicate as ErrConflict.
	if err := s.planned.Create(ctx, &model.PlannedTask{UserID: userID, TaskID: taskID, Date: day}); err != nil {
		return 0, err
	}
	s.log.Debug("task scheduled", zap.Uint("task_id", taskID), zap.String("date", day.String()))
	return taskID, nil
}

// Unschedule removes the task's entry dated day.
func (s *PlannerService) Unschedule(ctx context.Context, userID, taskID uint, day calendar.Day) (uint, error) {
	entry, err := s.entryOn(ctx, userID, taskID, day)
	if err != nil {
		return 0, err
	}
	if entry == nil {
		return 0, fmt.Errorf("task %d is not scheduled on %s: %w", taskID, day, model.ErrNotFound)
	}
	if err := s.planned.Delete(ctx, entry.ID); err != nil {
		return 0, err
	}
	return taskID, nil
}
