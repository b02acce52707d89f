package model

import (
	"time"

	"gorm.io/datatypes"
)

// ResourceType tags a topic resource
type ResourceType string

const (
	ResourceArticle  ResourceType = "article"
	ResourceTutorial ResourceType = "tutorial"
	ResourceVideo    ResourceType = "video"
)

type TopicProject struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type TopicExercise struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// TopicResource points at learning material. URL is either a link or a
// search hint such as "Search YouTube: goroutines explained".
type TopicResource struct {
	Title string       `json:"title"`
	URL   string       `json:"url"`
	Type  ResourceType `json:"type"`
}

// Topic is one unit of a course syllabus
type Topic struct {
	ID               string          `json:"id"`
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	EstimatedMinutes int             `json:"estimated_minutes,omitempty"`
	KeyPoints        []string        `json:"key_points,omitempty"`
	Projects         []TopicProject  `json:"projects,omitempty"`
	Exercises        []TopicExercise `json:"exercises,omitempty"`
	Resources        []TopicResource `json:"resources,omitempty"`
}

// Course is a generated syllabus. It is never updated after creation.
type Course struct {
	ID         uint                        `gorm:"primaryKey" json:"id"`
	UserID     uint                        `gorm:"not null;index:idx_course_owner_category" json:"user_id"`
	CategoryID uint                        `gorm:"not null;index:idx_course_owner_category" json:"category_id"`
	Title      string                      `gorm:"type:varchar(255);not null" json:"title"`
	Goal       string                      `gorm:"type:varchar(100)" json:"goal"`
	Level      string                      `gorm:"type:varchar(100)" json:"level"`
	Topics     datatypes.JSONType[[]Topic] `json:"topics"`
	CreatedAt  time.Time                   `gorm:"index" json:"created_at"`
}

func (Course) TableName() string {
	return "courses"
}

// TopicList returns the course topics in syllabus order
func (c *Course) TopicList() []Topic {
	return c.Topics.Data()
}

// FindTopic returns the index of the topic with the given id, or -1
func (c *Course) FindTopic(topicID string) int {
	for i, t := range c.Topics.Data() {
		if t.ID == topicID {
			return i
		}
	}
	return -1
}
