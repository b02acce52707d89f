package model

import (
	"time"

	"gorm.io/datatypes"
)

// CourseProgress tracks a user's completion state for one course.
// CompletedAt is set once, when every topic of the course is complete.
type CourseProgress struct {
	ID                 uint                                `gorm:"primaryKey" json:"id"`
	UserID             uint                                `gorm:"not null;uniqueIndex:idx_progress_owner_course" json:"user_id"`
	CourseID           uint                                `gorm:"not null;uniqueIndex:idx_progress_owner_course" json:"course_id"`
	CategoryID         uint                                `gorm:"not null;index" json:"category_id"`
	TopicCompleted     datatypes.JSONType[map[string]bool] `json:"topic_completed"`
	StartedAt          time.Time                           `json:"started_at"`
	LastActivityAt     time.Time                           `json:"last_activity_at"`
	CompletedAt        *time.Time                          `gorm:"index" json:"completed_at"`
	TotalLearningHours float64                             `gorm:"not null;default:0" json:"total_learning_hours"`
	CreatedAt          time.Time                           `json:"created_at"`
	UpdatedAt          time.Time                           `json:"updated_at"`
}

func (CourseProgress) TableName() string {
	return "course_progress"
}

// Completed returns a copy of the completion map, never nil
func (p *CourseProgress) Completed() map[string]bool {
	out := make(map[string]bool)
	for k, v := range p.TopicCompleted.Data() {
		out[k] = v
	}
	return out
}

// CompletedCount counts the truthy entries of the completion map
func (p *CourseProgress) CompletedCount() int {
	n := 0
	for _, done := range p.TopicCompleted.Data() {
		if done {
			n++
		}
	}
	return n
}

// TopicCompletion is an append-only log of effective topic completions
type TopicCompletion struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ProgressID   uint      `gorm:"not null;index" json:"progress_id"`
	UserID       uint      `gorm:"not null;index:idx_completion_user_time" json:"user_id"`
	CourseID     uint      `gorm:"not null" json:"course_id"`
	TopicID      string    `gorm:"type:varchar(50);not null" json:"topic_id"`
	MinutesSpent int       `json:"minutes_spent"`
	CompletedAt  time.Time `gorm:"not null;index:idx_completion_user_time" json:"completed_at"`
}

func (TopicCompletion) TableName() string {
	return "topic_completions"
}
