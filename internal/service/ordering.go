package service

import (
	"sort"

	"task-planner/internal/model"
)

// CompareViews orders task views for display: explicit order first, then
// due date, then id. Returns a negative number when a sorts before b.
func CompareViews(a, b model.TaskView) int {
	switch {
	case a.Order != nil && b.Order != nil:
		if *a.Order != *b.Order {
			return compareInt(*a.Order, *b.Order)
		}
	case a.Order != nil:
		return -1
	case b.Order != nil:
		return 1
	}

	switch {
	case a.DueDate != nil && b.DueDate != nil:
		if c := a.DueDate.Compare(*b.DueDate); c != 0 {
			return c
		}
	case a.DueDate != nil:
		return -1
	case b.DueDate != nil:
		return 1
	}

	return compareInt(int(a.ID), int(b.ID))
}

// SortViews sorts views in place using CompareViews.
func SortViews(views []model.TaskView) {
	sort.SliceStable(views, func(i, j int) bool {
		return CompareViews(views[i], views[j]) < 0
	})
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
