package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"task-planner/internal/calendar"
	"task-planner/internal/model"
)

// TaskInput represents data required to create a task. Either ListID or
// ListName selects the list; a named list is created on demand.
type TaskInput struct {
	ListID    uint
	ListName  string
	Title     string
	Notes     string
	Recurring model.Recurring
	DueDate   *calendar.Day
	Order     *int
}

// TaskPatch carries optional task edits. Clear* flags null the field.
type TaskPatch struct {
	ListID       *uint
	Title        *string
	Notes        *string
	Recurring    *model.Recurring
	DueDate      *calendar.Day
	ClearDueDate bool
	Order        *int
	ClearOrder   bool
}

// TaskService wraps task CRUD around the record stores.
type TaskService struct {
	tasks   TaskStore
	planned PlannedTaskStore
	lists   ListStore
}

func NewTaskService(tasks TaskStore, planned PlannedTaskStore, lists ListStore) *TaskService {
	return &TaskService{tasks: tasks, planned: planned, lists: lists}
}

func (s *TaskService) CreateTask(ctx context.Context, userID uint, input TaskInput) (*model.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("title is required: %w", model.ErrInvalidArgs)
	}

	list, err := s.resolveList(ctx, userID, input)
	if err != nil {
		return nil, err
	}

	recurring := input.Recurring
	if recurring == "" {
		recurring = list.RecurringDefault
	}
	if recurring == "" {
		recurring = model.RecurringOnce
	}
	if !recurring.Valid() {
		return nil, fmt.Errorf("unknown recurring kind %q: %w", recurring, model.ErrInvalidArgs)
	}

	task := model.Task{
		UserID:    userID,
		ListID:    list.ID,
		Title:     title,
		Notes:     strings.TrimSpace(input.Notes),
		Recurring: recurring,
		DueDate:   input.DueDate,
		Order:     input.Order,
	}
	if err := s.tasks.Create(ctx, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// CreateAndSchedule creates a task for day. Date-driven kinds take day as
// their due date; once and perpetual tasks are pinned to it instead.
func (s *TaskService) CreateAndSchedule(ctx context.Context, userID uint, input TaskInput, day calendar.Day) (*model.Task, error) {
	input.DueDate = nil
	kind := input.Recurring
	if kind == "" {
		list, err := s.resolveList(ctx, userID, input)
		if err != nil {
			return nil, err
		}
		kind = list.RecurringDefault
		input.ListID, input.ListName = list.ID, ""
	}
	if kind.Valid() && kind.HasDueDate() {
		input.DueDate = &day
	}

	task, err := s.CreateTask(ctx, userID, input)
	if err != nil {
		return nil, err
	}
	if task.DueDate == nil {
		if err := s.planned.Create(ctx, &model.PlannedTask{UserID: userID, TaskID: task.ID, Date: day}); err != nil {
			// Drop the half-created task so a failed pin leaves nothing behind.
			if _, delErr := s.tasks.Delete(ctx, userID, task.ID); delErr != nil {
				return nil, errors.Join(err, delErr)
			}
			return nil, err
		}
	}
	return task, nil
}

func (s *TaskService) GetTask(ctx context.Context, userID, taskID uint) (*model.Task, error) {
	return s.tasks.FindByID(ctx, userID, taskID)
}

func (s *TaskService) UpdateTask(ctx context.Context, userID, taskID uint, p TaskPatch) (uint, error) {
	fields := make(map[string]any)
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return 0, fmt.Errorf("title is required: %w", model.ErrInvalidArgs)
		}
		fields["title"] = title
	}
	if p.Notes != nil {
		fields["notes"] = strings.TrimSpace(*p.Notes)
	}
	if p.Recurring != nil {
		if !p.Recurring.Valid() {
			return 0, fmt.Errorf("unknown recurring kind %q: %w", *p.Recurring, model.ErrInvalidArgs)
		}
		fields["recurring"] = *p.Recurring
	}
	switch {
	case p.ClearDueDate:
		fields["due_date"] = nil
	case p.DueDate != nil:
		fields["due_date"] = *p.DueDate
	}
	switch {
	case p.ClearOrder:
		fields["display_order"] = nil
	case p.Order != nil:
		fields["display_order"] = *p.Order
	}
	if p.ListID != nil {
		if _, err := s.lists.GetByID(ctx, userID, *p.ListID); err != nil {
			return 0, err
		}
		fields["list_id"] = *p.ListID
	}
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty patch: %w", model.ErrInvalidArgs)
	}

	if err := s.tasks.Update(ctx, userID, taskID, fields); err != nil {
		return 0, err
	}
	return taskID, nil
}

// DeleteTask removes a task and its planned entries.
func (s *TaskService) DeleteTask(ctx context.Context, userID, taskID uint) (*model.Task, error) {
	return s.tasks.Delete(ctx, userID, taskID)
}

func (s *TaskService) Archive(ctx context.Context, userID, taskID uint) (uint, error) {
	if err := s.tasks.Update(ctx, userID, taskID, map[string]any{"archived": true}); err != nil {
		return 0, err
	}
	return taskID, nil
}

func (s *TaskService) Unarchive(ctx context.Context, userID, taskID uint) (uint, error) {
	if err := s.tasks.Update(ctx, userID, taskID, map[string]any{"archived": false}); err != nil {
		return 0, err
	}
	return taskID, nil
}

func (s *TaskService) resolveList(ctx context.Context, userID uint, input TaskInput) (*model.List, error) {
	if input.ListID != 0 {
		return s.lists.GetByID(ctx, userID, input.ListID)
	}
	name := strings.TrimSpace(input.ListName)
	if name == "" {
		return nil, fmt.Errorf("list is required: %w", model.ErrInvalidArgs)
	}
	return s.lists.GetOrCreate(ctx, userID, name, model.RecurringOnce)
}
