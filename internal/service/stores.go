package service

import (
	"context"

	"task-planner/internal/calendar"
	"task-planner/internal/model"
)

// TaskStore is the task record store the planner reads and writes through.
type TaskStore interface {
	Create(ctx context.Context, task *model.Task) error
	FindByID(ctx context.Context, userID, taskID uint) (*model.Task, error)
	List(ctx context.Context, f model.TaskFilter) ([]model.Task, error)
	// ListScheduledOn returns non-archived tasks with a planned entry dated day.
	ListScheduledOn(ctx context.Context, userID uint, day calendar.Day) ([]model.Task, error)
	Update(ctx context.Context, userID, taskID uint, fields map[string]any) error
	Delete(ctx context.Context, userID, taskID uint) (*model.Task, error)
}

// PlannedTaskStore holds schedule pins and completion cutoffs.
type PlannedTaskStore interface {
	Create(ctx context.Context, entry *model.PlannedTask) error
	FindByID(ctx context.Context, userID, id uint) (*model.PlannedTask, error)
	List(ctx context.Context, f model.PlannedTaskFilter) ([]model.PlannedTask, error)
	Update(ctx context.Context, id uint, fields map[string]any) error
	Delete(ctx context.Context, id uint) error
}

type ListStore interface {
	Create(ctx context.Context, list *model.List) error
	GetOrCreate(ctx context.Context, userID uint, name string, recurring model.Recurring) (*model.List, error)
	ListByUser(ctx context.Context, userID uint) ([]model.List, error)
	GetByID(ctx context.Context, userID, id uint) (*model.List, error)
	Update(ctx context.Context, userID, id uint, fields map[string]any) error
	Delete(ctx context.Context, userID, id uint) error
}
