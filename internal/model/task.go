package model

import (
	"time"

	"task-planner/internal/calendar"
)

// Recurring describes how often a task comes back.
type Recurring string

const (
	RecurringOnce      Recurring = "once"
	RecurringPerpetual Recurring = "perpetual"
	RecurringDaily     Recurring = "daily"
	RecurringWeekly    Recurring = "weekly"
	RecurringMonthly   Recurring = "monthly"
	RecurringYearly    Recurring = "yearly"
)

// Valid reports whether r is one of the known kinds.
func (r Recurring) Valid() bool {
	switch r {
	case RecurringOnce, RecurringPerpetual, RecurringDaily, RecurringWeekly, RecurringMonthly, RecurringYearly:
		return true
	}
	return false
}

// HasDueDate reports whether the kind is driven by a due date.
func (r Recurring) HasDueDate() bool {
	return r != RecurringOnce && r != RecurringPerpetual
}

// Task represents a single item in the planner.
type Task struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	UserID    uint          `gorm:"index" json:"user_id"`
	ListID    uint          `gorm:"index" json:"list_id"`
	Title     string        `json:"title"`
	Notes     string        `json:"notes"`
	Recurring Recurring     `gorm:"type:varchar(16)" json:"recurring"`
	DueDate   *calendar.Day `gorm:"type:varchar(10);index" json:"due_date"`
	Archived  bool          `gorm:"default:false;index" json:"archived"`
	Order     *int          `gorm:"column:display_order" json:"order"`
	CreatedAt time.Time     `json:"inserted_at"`
	UpdatedAt time.Time     `json:"-"`
}
