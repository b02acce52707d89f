package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sahilchouksey/skills-lab/database"
	"github.com/sahilchouksey/skills-lab/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var dbSeq atomic.Int64

// DB opens a fresh in-memory SQLite database with every model migrated.
// Each call gets its own database, closed when the test ends.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(tb.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbSeq.Add(1))

	store, err := database.OpenSQLite(dsn, nil)
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	db := store.DB()
	if err := store.Init(); err != nil {
		tb.Fatalf("migrate: %v", err)
	}

	tb.Cleanup(func() {
		_ = store.Close()
	})
	return db
}

func SeedUser(tb testing.TB, db *gorm.DB, email string, status model.UserStatus) *model.User {
	tb.Helper()
	u := &model.User{
		Subject:     "sub-" + email,
		Email:       email,
		Name:        "Test User",
		Role:        model.RoleLearner,
		Status:      status,
		Preferences: datatypes.NewJSONType(model.DefaultPreferences()),
	}
	if err := db.WithContext(context.Background()).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedCategory(tb testing.TB, db *gorm.DB, userID uint, name string, order int) *model.Category {
	tb.Helper()
	c := &model.Category{UserID: userID, Name: name, SortOrder: order}
	if err := db.Create(c).Error; err != nil {
		tb.Fatalf("seed category: %v", err)
	}
	return c
}

// Topics builds n topics with ids topic-0 .. topic-(n-1)
func Topics(n int) []model.Topic {
	topics := make([]model.Topic, n)
	for i := range topics {
		topics[i] = model.Topic{
			ID:               fmt.Sprintf("topic-%d", i),
			Title:            fmt.Sprintf("Topic %d", i),
			Description:      "description",
			EstimatedMinutes: 20,
		}
	}
	return topics
}

func SeedCourse(tb testing.TB, db *gorm.DB, userID, categoryID uint, topics []model.Topic) *model.Course {
	tb.Helper()
	c := &model.Course{
		UserID:     userID,
		CategoryID: categoryID,
		Title:      "Seeded course",
		Goal:       "Upskilling",
		Level:      "Beginner",
		Topics:     datatypes.NewJSONType(topics),
	}
	if err := db.Create(c).Error; err != nil {
		tb.Fatalf("seed course: %v", err)
	}
	return c
}

// SeedCompletedProgress stores a progress record with every topic complete
func SeedCompletedProgress(tb testing.TB, db *gorm.DB, course *model.Course, completedAt time.Time) *model.CourseProgress {
	tb.Helper()
	done := make(map[string]bool)
	for _, t := range course.TopicList() {
		done[t.ID] = true
	}
	p := &model.CourseProgress{
		UserID:         course.UserID,
		CourseID:       course.ID,
		CategoryID:     course.CategoryID,
		TopicCompleted: datatypes.NewJSONType(done),
		StartedAt:      completedAt.Add(-time.Hour),
		LastActivityAt: completedAt,
		CompletedAt:    &completedAt,
	}
	if err := db.Create(p).Error; err != nil {
		tb.Fatalf("seed progress: %v", err)
	}
	return p
}
