package model

import "time"

// Category is a user-scoped bucket that groups courses.
// SortOrder is unique per owner; courses keep their CategoryID after the
// category is deleted.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_category_owner_order" json:"user_id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	SortOrder int       `gorm:"not null;uniqueIndex:idx_category_owner_order" json:"order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Category) TableName() string {
	return "categories"
}
