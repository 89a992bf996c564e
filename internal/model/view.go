package model

import "task-planner/internal/calendar"

// TaskView is a Task enriched with completion and scheduling state derived
// for a particular day. It is never persisted.
type TaskView struct {
	Task
	ScheduledToday    bool          `json:"scheduled_today"`
	ScheduledTomorrow bool          `json:"scheduled_tomorrow"`
	IsComplete        bool          `json:"is_complete"`
	CompletedAt       *calendar.Day `json:"completed_at"`
	CompletedUntil    *calendar.Day `json:"completed_until"`
	CompletedID       *uint         `json:"completed_id"`
}

// Overdue reports whether the view is unfinished and its due date is on or
// before day.
func (v TaskView) Overdue(day calendar.Day) bool {
	return !v.IsComplete && v.DueDate != nil && !v.DueDate.After(day)
}
