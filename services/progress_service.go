package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sahilchouksey/skills-lab/model"
	"github.com/sahilchouksey/skills-lab/utils/logger"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	MinMinutesSpent = 1
	MaxMinutesSpent = 240
)

// Progress states as reported in ProgressView
const (
	StateInProgress = "in-progress"
	StateComplete   = "complete"
)

// achievementEvaluator unlocks achievements after progress changes
type achievementEvaluator interface {
	Evaluate(ctx context.Context, ownerID uint) ([]Achievement, error)
}

// ProgressService tracks per (user, course) topic completion
type ProgressService struct {
	db           *gorm.DB
	achievements achievementEvaluator
	sequential   bool
	log          *logger.Logger
	now          func() time.Time
}

type ProgressOption func(*ProgressService)

// WithSequentialGating makes MarkTopicComplete reject a topic whose
// predecessor is not complete yet
func WithSequentialGating(enabled bool) ProgressOption {
	return func(s *ProgressService) { s.sequential = enabled }
}

// WithAchievements evaluates achievements after every effective change
func WithAchievements(a achievementEvaluator) ProgressOption {
	return func(s *ProgressService) { s.achievements = a }
}

func NewProgressService(db *gorm.DB, log *logger.Logger, opts ...ProgressOption) *ProgressService {
	if log == nil {
		log = logger.Nop()
	}
	s := &ProgressService{
		db:  db,
		log: log.With("component", "progress"),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TopicState is one topic as seen from a progress record
type TopicState struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	Unlocked  bool   `json:"unlocked"`
}

// ProgressView is a progress record with its derived values
type ProgressView struct {
	*model.CourseProgress
	CourseTitle    string       `json:"course_title"`
	CompletedCount int          `json:"completed_count"`
	TotalTopics    int          `json:"total_topics"`
	Percent        int          `json:"percent"`
	State          string       `json:"state"`
	Topics         []TopicState `json:"topics"`
}

// CompletionResult is returned by MarkTopicComplete
type CompletionResult struct {
	Progress         *ProgressView `json:"progress"`
	AlreadyCompleted bool          `json:"already_completed"`
	CourseCompleted  bool          `json:"course_completed"`
	Unlocked         []Achievement `json:"unlocked_achievements,omitempty"`
}

// Initialize creates the progress record for course with an empty completion
// map. It fails with ErrProgressExists when the owner already has one.
func (s *ProgressService) Initialize(ctx context.Context, ownerID uint, course *model.Course) (*model.CourseProgress, error) {
	var progress *model.CourseProgress
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		progress, err = s.initializeTx(tx, ownerID, course)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.evaluate(ctx, ownerID)
	return progress, nil
}

func (s *ProgressService) initializeTx(tx *gorm.DB, ownerID uint, course *model.Course) (*model.CourseProgress, error) {
	if course == nil || course.UserID != ownerID {
		return nil, ErrCourseNotFound
	}

	var count int64
	if err := tx.Model(&model.CourseProgress{}).
		Where("user_id = ? AND course_id = ?", ownerID, course.ID).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check progress: %w", err)
	}
	if count > 0 {
		return nil, ErrProgressExists
	}

	now := s.now()
	progress := &model.CourseProgress{
		UserID:         ownerID,
		CourseID:       course.ID,
		CategoryID:     course.CategoryID,
		TopicCompleted: datatypes.NewJSONType(map[string]bool{}),
		StartedAt:      now,
		LastActivityAt: now,
	}
	if err := tx.Create(progress).Error; err != nil {
		return nil, fmt.Errorf("failed to create progress: %w", err)
	}
	return progress, nil
}

// MarkTopicComplete marks topicID complete and adds minutesSpent to the
// learning hours. Completing an already completed topic changes nothing.
func (s *ProgressService) MarkTopicComplete(ctx context.Context, ownerID, progressID uint, topicID string, minutesSpent int) (*CompletionResult, error) {
	if minutesSpent < MinMinutesSpent || minutesSpent > MaxMinutesSpent {
		return nil, ErrInvalidMinutes
	}

	var (
		progress model.CourseProgress
		course   model.Course
		result   CompletionResult
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", progressID, ownerID).First(&progress).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProgressNotFound
			}
			return err
		}
		if err := tx.First(&course, progress.CourseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCourseNotFound
			}
			return err
		}

		topics := course.TopicList()
		idx := course.FindTopic(topicID)
		if idx < 0 {
			return ErrTopicNotFound
		}

		completed := progress.Completed()
		if completed[topicID] {
			result.AlreadyCompleted = true
			return nil
		}
		if s.sequential && idx > 0 && !completed[topics[idx-1].ID] {
			return ErrTopicLocked
		}

		now := s.now()
		completed[topicID] = true
		progress.TopicCompleted = datatypes.NewJSONType(completed)
		progress.TotalLearningHours += float64(minutesSpent) / 60
		progress.LastActivityAt = now
		if len(topics) > 0 && countDone(completed, topics) >= len(topics) && progress.CompletedAt == nil {
			progress.CompletedAt = &now
			result.CourseCompleted = true
		}

		if err := tx.Model(&progress).Updates(map[string]interface{}{
			"topic_completed":      progress.TopicCompleted,
			"total_learning_hours": progress.TotalLearningHours,
			"last_activity_at":     progress.LastActivityAt,
			"completed_at":         progress.CompletedAt,
		}).Error; err != nil {
			return err
		}

		return tx.Create(&model.TopicCompletion{
			ProgressID:   progress.ID,
			UserID:       ownerID,
			CourseID:     course.ID,
			TopicID:      topicID,
			MinutesSpent: minutesSpent,
			CompletedAt:  now,
		}).Error
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrProgressNotFound), errors.Is(err, ErrCourseNotFound),
			errors.Is(err, ErrTopicNotFound), errors.Is(err, ErrTopicLocked):
			return nil, err
		}
		return nil, fmt.Errorf("failed to mark topic complete: %w", err)
	}

	if !result.AlreadyCompleted {
		s.log.Info("topic completed",
			"user_id", ownerID,
			"progress_id", progress.ID,
			"topic_id", topicID,
			"minutes", minutesSpent,
			"course_completed", result.CourseCompleted,
		)
		result.Unlocked = s.evaluate(ctx, ownerID)
	}

	result.Progress = buildView(&progress, &course)
	return &result, nil
}

func (s *ProgressService) evaluate(ctx context.Context, ownerID uint) []Achievement {
	if s.achievements == nil {
		return nil
	}
	unlocked, err := s.achievements.Evaluate(ctx, ownerID)
	if err != nil {
		s.log.Warn("achievement evaluation failed", "user_id", ownerID, "error", err)
		return nil
	}
	return unlocked
}

// Get returns a progress record of the owner with its derived view
func (s *ProgressService) Get(ctx context.Context, ownerID, progressID uint) (*ProgressView, error) {
	var progress model.CourseProgress
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", progressID, ownerID).First(&progress).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProgressNotFound
		}
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}
	return s.view(ctx, &progress)
}

// GetByCourse returns ErrProgressNotFound while the course is not started
func (s *ProgressService) GetByCourse(ctx context.Context, ownerID, courseID uint) (*ProgressView, error) {
	var progress model.CourseProgress
	err := s.db.WithContext(ctx).Where("user_id = ? AND course_id = ?", ownerID, courseID).First(&progress).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProgressNotFound
		}
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}
	return s.view(ctx, &progress)
}

// List returns all progress of the owner, most recently active first.
// Records whose course no longer exists are skipped.
func (s *ProgressService) List(ctx context.Context, ownerID uint) ([]ProgressView, error) {
	var records []model.CourseProgress
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("last_activity_at DESC, id DESC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list progress: %w", err)
	}

	courses, err := loadCourses(ctx, s.db, records)
	if err != nil {
		return nil, err
	}

	views := make([]ProgressView, 0, len(records))
	for i := range records {
		course, ok := courses[records[i].CourseID]
		if !ok {
			continue
		}
		views = append(views, *buildView(&records[i], course))
	}
	return views, nil
}

func (s *ProgressService) view(ctx context.Context, progress *model.CourseProgress) (*ProgressView, error) {
	var course model.Course
	if err := s.db.WithContext(ctx).First(&course, progress.CourseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to load course: %w", err)
	}
	return buildView(progress, &course), nil
}

// loadCourses fetches the courses referenced by records in one query
func loadCourses(ctx context.Context, db *gorm.DB, records []model.CourseProgress) (map[uint]*model.Course, error) {
	out := make(map[uint]*model.Course)
	if len(records) == 0 {
		return out, nil
	}

	ids := make([]uint, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.CourseID)
	}

	var courses []model.Course
	if err := db.WithContext(ctx).Where("id IN ?", ids).Find(&courses).Error; err != nil {
		return nil, fmt.Errorf("failed to load courses: %w", err)
	}
	for i := range courses {
		out[courses[i].ID] = &courses[i]
	}
	return out, nil
}

func countDone(completed map[string]bool, topics []model.Topic) int {
	n := 0
	for _, t := range topics {
		if completed[t.ID] {
			n++
		}
	}
	return n
}

func buildView(progress *model.CourseProgress, course *model.Course) *ProgressView {
	topics := course.TopicList()
	completed := progress.Completed()

	states := make([]TopicState, len(topics))
	for i, t := range topics {
		states[i] = TopicState{
			ID:        t.ID,
			Title:     t.Title,
			Completed: completed[t.ID],
			Unlocked:  i == 0 || completed[topics[i-1].ID],
		}
	}

	done := countDone(completed, topics)
	percent := 0
	if len(topics) > 0 {
		percent = int(math.Round(float64(done) * 100 / float64(len(topics))))
	}

	state := StateInProgress
	if progress.CompletedAt != nil {
		state = StateComplete
	}

	return &ProgressView{
		CourseProgress: progress,
		CourseTitle:    course.Title,
		CompletedCount: done,
		TotalTopics:    len(topics),
		Percent:        percent,
		State:          state,
		Topics:         states,
	}
}
