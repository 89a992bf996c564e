package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"task-planner/internal/model"
)

// ListRepository manages task lists.
type ListRepository struct {
	db *gorm.DB
}

func NewListRepository(db *gorm.DB) *ListRepository {
	return &ListRepository{db: db}
}

func (r *ListRepository) Create(ctx context.Context, list *model.List) error {
	return storeErr("create list", r.db.WithContext(ctx).Create(list).Error)
}

// GetOrCreate finds a list by name or creates it with the given default recurrence.
func (r *ListRepository) GetOrCreate(ctx context.Context, userID uint, name string, recurring model.Recurring) (*model.List, error) {
	var list model.List
	db := r.db.WithContext(ctx)
	err := db.Where("user_id = ? AND name = ?", userID, name).First(&list).Error
	switch {
	case err == nil:
		return &list, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		list = model.List{UserID: userID, Name: name, RecurringDefault: recurring}
		if err := db.Create(&list).Error; err != nil {
			return nil, storeErr("create list", err)
		}
		return &list, nil
	default:
		return nil, storeErr("find list", err)
	}
}

func (r *ListRepository) ListByUser(ctx context.Context, userID uint) ([]model.List, error) {
	var lists []model.List
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("display_order IS NULL, display_order ASC, name ASC").
		Find(&lists).Error; err != nil {
		return nil, storeErr("list lists", err)
	}
	return lists, nil
}

func (r *ListRepository) GetByID(ctx context.Context, userID, id uint) (*model.List, error) {
	var list model.List
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, id).First(&list).Error; err != nil {
		return nil, storeErr("find list", err)
	}
	return &list, nil
}

func (r *ListRepository) Update(ctx context.Context, userID, id uint, fields map[string]any) error {
	res := r.db.WithContext(ctx).Model(&model.List{}).Where("user_id = ? AND id = ?", userID, id).Updates(fields)
	if res.Error != nil {
		return storeErr("update list", res.Error)
	}
	return nil
}

// Delete removes a list together with its tasks and their planned entries.
func (r *ListRepository) Delete(ctx context.Context, userID, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var list model.List
		if err := tx.Where("user_id = ? AND id = ?", userID, id).First(&list).Error; err != nil {
			return err
		}
		taskIDs := tx.Model(&model.Task{}).Select("id").Where("list_id = ?", list.ID)
		if err := tx.Where("task_id IN (?)", taskIDs).Delete(&model.PlannedTask{}).Error; err != nil {
			return fmt.Errorf("delete planned tasks: %w", err)
		}
		if err := tx.Where("list_id = ?", list.ID).Delete(&model.Task{}).Error; err != nil {
			return fmt.Errorf("delete tasks: %w", err)
		}
		return tx.Delete(&list).Error
	})
	return storeErr("delete list", err)
}
