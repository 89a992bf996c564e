package model

import (
	"time"

	"task-planner/internal/calendar"
)

// PlannedTask pins a task to a day. A non-nil CompleteUpTo marks the task
// satisfied through that day; a nil one is a bare schedule pin.
type PlannedTask struct {
	ID           uint          `gorm:"primaryKey" json:"id"`
	UserID       uint          `gorm:"index" json:"user_id"`
	TaskID       uint          `gorm:"not null;uniqueIndex:idx_planned_task_date" json:"task_id"`
	Date         calendar.Day  `gorm:"type:varchar(10);not null;uniqueIndex:idx_planned_task_date" json:"date"`
	CompleteUpTo *calendar.Day `gorm:"type:varchar(10);index" json:"complete_up_to"`
	CreatedAt    time.Time     `json:"created_at"`
}

// CompleteOn reports whether the entry satisfies the task on day.
func (p PlannedTask) CompleteOn(day calendar.Day) bool {
	return p.CompleteUpTo != nil && !p.CompleteUpTo.Before(day)
}
