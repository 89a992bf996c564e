package repository

import (
	"context"

	"gorm.io/gorm"

	"task-planner/internal/calendar"
	"task-planner/internal/model"
)

// TaskRepository handles CRUD for tasks.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	return storeErr("create task", r.db.WithContext(ctx).Create(task).Error)
}

func (r *TaskRepository) FindByID(ctx context.Context, userID, taskID uint) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, taskID).First(&task).Error; err != nil {
		return nil, storeErr("find task", err)
	}
	return &task, nil
}

func (r *TaskRepository) List(ctx context.Context, f model.TaskFilter) ([]model.Task, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", f.UserID)
	if f.ListID != nil {
		q = q.Where("list_id = ?", *f.ListID)
	}
	if f.Archived != nil {
		q = q.Where("archived = ?", *f.Archived)
	}
	if f.DueDate != nil {
		q = q.Where("due_date = ?", *f.DueDate)
	}
	if f.DueDateBefore != nil {
		q = q.Where("due_date IS NOT NULL AND due_date < ?", *f.DueDateBefore)
	}

	var tasks []model.Task
	if err := q.Order("id ASC").Find(&tasks).Error; err != nil {
		return nil, storeErr("list tasks", err)
	}
	return tasks, nil
}

// ListScheduledOn returns non-archived tasks pinned to day.
func (r *TaskRepository) ListScheduledOn(ctx context.Context, userID uint, day calendar.Day) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Select("tasks.*").
		Joins("JOIN planned_tasks ON planned_tasks.task_id = tasks.id").
		Where("tasks.user_id = ? AND tasks.archived = ? AND planned_tasks.date = ?", userID, false, day).
		Order("tasks.id ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, storeErr("list scheduled tasks", err)
	}
	return tasks, nil
}

// Update applies column updates to a task owned by userID.
func (r *TaskRepository) Update(ctx context.Context, userID, taskID uint, fields map[string]any) error {
	db := r.db.WithContext(ctx)
	res := db.Model(&model.Task{}).Where("user_id = ? AND id = ?", userID, taskID).Updates(fields)
	if res.Error != nil {
		return storeErr("update task", res.Error)
	}
	if res.RowsAffected == 0 {
		// Some drivers report zero rows when nothing changed.
		var count int64
		if err := db.Model(&model.Task{}).Where("user_id = ? AND id = ?", userID, taskID).Count(&count).Error; err != nil {
			return storeErr("update task", err)
		}
		if count == 0 {
			return storeErr("update task", gorm.ErrRecordNotFound)
		}
	}
	return nil
}

// Delete removes a task and its planned entries, returning the removed task.
func (r *TaskRepository) Delete(ctx context.Context, userID, taskID uint) (*model.Task, error) {
	var removed model.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND id = ?", userID, taskID).First(&removed).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", taskID).Delete(&model.PlannedTask{}).Error; err != nil {
			return err
		}
		return tx.Delete(&removed).Error
	})
	if err != nil {
		return nil, storeErr("delete task", err)
	}
	return &removed, nil
}
