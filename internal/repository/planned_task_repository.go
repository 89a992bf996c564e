package repository

import (
	"context"

	"gorm.io/gorm"

	"task-planner/internal/model"
)

// PlannedTaskRepository stores schedule pins and completion cutoffs.
type PlannedTaskRepository struct {
	db *gorm.DB
}

func NewPlannedTaskRepository(db *gorm.DB) *PlannedTaskRepository {
	return &PlannedTaskRepository{db: db}
}

func (r *PlannedTaskRepository) Create(ctx context.Context, entry *model.PlannedTask) error {
	return storeErr("create planned task", r.db.WithContext(ctx).Create(entry).Error)
}

func (r *PlannedTaskRepository) FindByID(ctx context.Context, userID, id uint) (*model.PlannedTask, error) {
	var entry model.PlannedTask
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, id).First(&entry).Error; err != nil {
		return nil, storeErr("find planned task", err)
	}
	return &entry, nil
}

func (r *PlannedTaskRepository) List(ctx context.Context, f model.PlannedTaskFilter) ([]model.PlannedTask, error) {
	if f.TaskIDs != nil && len(f.TaskIDs) == 0 {
		return nil, nil
	}

	q := r.db.WithContext(ctx).Where("user_id = ?", f.UserID)
	if f.TaskIDs != nil {
		q = q.Where("task_id IN ?", f.TaskIDs)
	}
	if f.Date != nil {
		q = q.Where("date = ?", *f.Date)
	}
	if f.CutoffGTE != nil {
		q = q.Where("complete_up_to IS NOT NULL AND complete_up_to >= ?", *f.CutoffGTE)
	}

	var entries []model.PlannedTask
	if err := q.Order("id ASC").Find(&entries).Error; err != nil {
		return nil, storeErr("list planned tasks", err)
	}
	return entries, nil
}

func (r *PlannedTaskRepository) Update(ctx context.Context, id uint, fields map[string]any) error {
	res := r.db.WithContext(ctx).Model(&model.PlannedTask{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return storeErr("update planned task", res.Error)
	}
	return nil
}

func (r *PlannedTaskRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.PlannedTask{}, id)
	if res.Error != nil {
		return storeErr("delete planned task", res.Error)
	}
	if res.RowsAffected == 0 {
		return storeErr("delete planned task", gorm.ErrRecordNotFound)
	}
	return nil
}
