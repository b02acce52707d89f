package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sahilchouksey/skills-lab/model"
	"github.com/sahilchouksey/skills-lab/services/syllabus"
	"github.com/sahilchouksey/skills-lab/utils/logger"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type syllabusGenerator interface {
	Generate(ctx context.Context, req syllabus.Request) syllabus.Result
}

// CourseService stores generated courses. Topics are never modified after
// creation.
type CourseService struct {
	db        *gorm.DB
	generator syllabusGenerator
	progress  *ProgressService
	log       *logger.Logger
	now       func() time.Time
}

func NewCourseService(db *gorm.DB, generator syllabusGenerator, progress *ProgressService, log *logger.Logger) *CourseService {
	if log == nil {
		log = logger.Nop()
	}
	return &CourseService{
		db:        db,
		generator: generator,
		progress:  progress,
		log:       log.With("component", "course"),
		now:       time.Now,
	}
}

// CreateCourseInput is everything a course is made of
type CreateCourseInput struct {
	CategoryID uint
	Title      string
	Goal       string
	Level      string
	Topics     []model.Topic
}

// Create persists a course for owner and returns it with its id
func (s *CourseService) Create(ctx context.Context, ownerID uint, in CreateCourseInput) (*model.Course, error) {
	var course *model.Course
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		course, err = createCourseTx(tx, ownerID, in)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}
	return course, nil
}

func createCourseTx(tx *gorm.DB, ownerID uint, in CreateCourseInput) (*model.Course, error) {
	topics := make([]model.Topic, len(in.Topics))
	copy(topics, in.Topics)

	course := &model.Course{
		UserID:     ownerID,
		CategoryID: in.CategoryID,
		Title:      in.Title,
		Goal:       in.Goal,
		Level:      in.Level,
		Topics:     datatypes.NewJSONType(topics),
	}
	if err := tx.Create(course).Error; err != nil {
		return nil, err
	}
	return course, nil
}

// Get returns the owner's course or ErrCourseNotFound
func (s *CourseService) Get(ctx context.Context, ownerID, courseID uint) (*model.Course, error) {
	var course model.Course
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", courseID, ownerID).First(&course).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to load course: %w", err)
	}
	return &course, nil
}

// ListByCategory returns the owner's courses in a category, newest first
func (s *CourseService) ListByCategory(ctx context.Context, ownerID, categoryID uint) ([]model.Course, error) {
	var courses []model.Course
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND category_id = ?", ownerID, categoryID).
		Order("created_at DESC, id DESC").
		Find(&courses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return courses, nil
}

// PreviouslyLearnedTitles collects the distinct topic titles of every course
// the owner completed in categoryID
func (s *CourseService) PreviouslyLearnedTitles(ctx context.Context, ownerID, categoryID uint) ([]string, error) {
	var records []model.CourseProgress
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND category_id = ? AND completed_at IS NOT NULL", ownerID, categoryID).
		Order("completed_at ASC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to load completed progress: %w", err)
	}

	courses, err := loadCourses(ctx, s.db, records)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	titles := []string{}
	for _, r := range records {
		course, ok := courses[r.CourseID]
		if !ok {
			continue
		}
		for _, t := range course.TopicList() {
			if t.Title == "" || seen[t.Title] {
				continue
			}
			seen[t.Title] = true
			titles = append(titles, t.Title)
		}
	}
	return titles, nil
}

// GenerateInput describes a course generation request
type GenerateInput struct {
	CategoryID      uint
	Goal            string
	Level           string
	DetailedGoal    string
	LearningStyle   string
	CourseStructure string
}

// GeneratedCourse is the outcome of GenerateCourse
type GeneratedCourse struct {
	Course     *model.Course         `json:"course"`
	Progress   *model.CourseProgress `json:"progress"`
	Source     syllabus.Source       `json:"source"`
	Diagnostic string                `json:"diagnostic,omitempty"`
}

// GenerateCourse runs the whole flow: previously learned lookup, syllabus
// generation, course creation and progress initialization
func (s *CourseService) GenerateCourse(ctx context.Context, ownerID uint, in GenerateInput) (*GeneratedCourse, error) {
	var category model.Category
	if err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", in.CategoryID, ownerID).
		First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to load category: %w", err)
	}

	learned, err := s.PreviouslyLearnedTitles(ctx, ownerID, category.ID)
	if err != nil {
		return nil, err
	}

	res := s.generator.Generate(ctx, syllabus.Request{
		Category:          category.Name,
		Goal:              in.Goal,
		Level:             in.Level,
		PreviouslyLearned: learned,
		DetailedGoal:      in.DetailedGoal,
		LearningStyle:     in.LearningStyle,
		CourseStructure:   in.CourseStructure,
	})

	out := &GeneratedCourse{Source: res.Source, Diagnostic: res.Diagnostic}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		course, err := createCourseTx(tx, ownerID, CreateCourseInput{
			CategoryID: category.ID,
			Title:      CourseTitle(category.Name, in.Level, s.now()),
			Goal:       in.Goal,
			Level:      in.Level,
			Topics:     res.Topics,
		})
		if err != nil {
			return err
		}
		out.Course = course

		out.Progress, err = s.progress.initializeTx(tx, ownerID, course)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store generated course: %w", err)
	}

	s.progress.evaluate(ctx, ownerID)

	s.log.Info("course generated",
		"user_id", ownerID,
		"course_id", out.Course.ID,
		"category_id", category.ID,
		"topics", len(res.Topics),
		"source", res.Source,
		"previously_learned", len(learned),
	)
	return out, nil
}

// CourseTitle formats "{category} – {first word of level} ({date})"
func CourseTitle(category, level string, at time.Time) string {
	word := level
	if fields := strings.Fields(level); len(fields) > 0 {
		word = fields[0]
	}
	return fmt.Sprintf("%s – %s (%s)", category, word, at.Format(dayLayout))
}
