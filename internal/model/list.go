package model

import "time"

// List groups tasks by area (work, groceries, habits, etc.).
type List struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	UserID           uint      `gorm:"index;uniqueIndex:idx_user_list_name" json:"user_id"`
	Name             string    `gorm:"uniqueIndex:idx_user_list_name" json:"name"`
	Order            *int      `gorm:"column:display_order" json:"order"`
	RecurringDefault Recurring `gorm:"type:varchar(16)" json:"recurring_default"`
	CreatedAt        time.Time `json:"inserted_at"`
	UpdatedAt        time.Time `json:"-"`
	Tasks            []Task    `gorm:"foreignKey:ListID" json:"-"`
}
