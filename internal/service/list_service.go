package service

import (
	"context"
	"fmt"
	"strings"

	"task-planner/internal/model"
)

// ListService provides helpers around task lists.
type ListService struct {
	repo ListStore
}

func NewListService(repo ListStore) *ListService {
	return &ListService{repo: repo}
}

func (s *ListService) Create(ctx context.Context, userID uint, name string, recurring model.Recurring) (*model.List, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("list name is required: %w", model.ErrInvalidArgs)
	}
	if recurring == "" {
		recurring = model.RecurringOnce
	}
	if !recurring.Valid() {
		return nil, fmt.Errorf("unknown recurring kind %q: %w", recurring, model.ErrInvalidArgs)
	}
	list := model.List{UserID: userID, Name: name, RecurringDefault: recurring}
	if err := s.repo.Create(ctx, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (s *ListService) List(ctx context.Context, userID uint) ([]model.List, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *ListService) Get(ctx context.Context, userID, id uint) (*model.List, error) {
	return s.repo.GetByID(ctx, userID, id)
}

func (s *ListService) Rename(ctx context.Context, userID, id uint, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("list name is required: %w", model.ErrInvalidArgs)
	}
	if _, err := s.repo.GetByID(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.Update(ctx, userID, id, map[string]any{"name": name})
}

// Delete removes the list with all of its tasks.
func (s *ListService) Delete(ctx context.Context, userID, id uint) error {
	return s.repo.Delete(ctx, userID, id)
}

// Names maps list ids to display names.
func (s *ListService) Names(ctx context.Context, userID uint) (map[uint]string, error) {
	lists, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	names := make(map[uint]string, len(lists))
	for _, list := range lists {
		names[list.ID] = list.Name
	}
	return names, nil
}
