package model

import "time"

// UserAchievement records an unlocked achievement. One row per (user, achievement).
type UserAchievement struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;uniqueIndex:idx_user_achievement" json:"user_id"`
	AchievementID string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_user_achievement" json:"achievement_id"`
	Type          string    `gorm:"type:varchar(30)" json:"type"`
	Points        int       `json:"points"`
	UnlockedAt    time.Time `json:"unlocked_at"`
}

func (UserAchievement) TableName() string {
	return "user_achievements"
}
