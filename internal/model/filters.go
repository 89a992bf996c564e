package model

import "task-planner/internal/calendar"

// TaskFilter narrows a task listing. Nil fields are ignored.
type TaskFilter struct {
	UserID        uint
	ListID        *uint
	Archived      *bool
	DueDate       *calendar.Day
	DueDateBefore *calendar.Day
}

// PlannedTaskFilter narrows a planned entry listing. A non-nil but empty
// TaskIDs matches nothing.
type PlannedTaskFilter struct {
	UserID    uint
	TaskIDs   []uint
	Date      *calendar.Day
	CutoffGTE *calendar.Day
}
