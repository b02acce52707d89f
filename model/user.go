package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserStatus is the approval state of a profile
type UserStatus string

const (
	UserStatusPending  UserStatus = "pending"
	UserStatusApproved UserStatus = "approved"
	UserStatusRejected UserStatus = "rejected"
)

// Valid reports whether s is one of the known statuses
func (s UserStatus) Valid() bool {
	switch s {
	case UserStatusPending, UserStatusApproved, UserStatusRejected:
		return true
	}
	return false
}

const (
	RoleLearner = "learner"
	RoleAdmin   = "admin"
)

// Preferences holds per-user learning preferences
type Preferences struct {
	DailyGoalMinutes int  `json:"daily_goal_minutes"`
	Notifications    bool `json:"notifications"`
}

// DefaultPreferences is what a profile starts with on first sign-in
func DefaultPreferences() Preferences {
	return Preferences{DailyGoalMinutes: 30, Notifications: true}
}

// User is the profile of a signed-in principal
type User struct {
	ID           uint                            `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time                       `json:"created_at"`
	UpdatedAt    time.Time                       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt                  `gorm:"index" json:"-"`
	Subject      string                          `gorm:"type:varchar(255);uniqueIndex;not null" json:"-"` // identity provider principal id
	Email        string                          `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Name         string                          `gorm:"type:varchar(255)" json:"name"`
	PhotoURL     string                          `gorm:"type:text" json:"photo_url,omitempty"`
	Role         string                          `gorm:"type:varchar(20);default:'learner'" json:"role"`
	Status       UserStatus                      `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	Preferences  datatypes.JSONType[Preferences] `json:"preferences"`
	LastLogin    *time.Time                      `json:"last_login,omitempty"`
	TokenVersion int                             `gorm:"default:0" json:"-"`
}

// IsAdmin reports whether the user carries the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
