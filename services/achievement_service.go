package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sahilchouksey/skills-lab/model"
	"github.com/sahilchouksey/skills-lab/utils/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrphanedGroup is the grouping key for completed courses whose category
// was deleted
const OrphanedGroup = "orphaned"

const dayLayout = "2006-01-02"

// Achievement is a catalog entry together with the user's unlock state
type Achievement struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Type        string     `json:"type"`
	Points      int        `json:"points"`
	Unlocked    bool       `json:"unlocked"`
	UnlockedAt  *time.Time `json:"unlocked_at,omitempty"`
}

type achievementRule struct {
	Achievement
	earned func(Stats) bool
}

var achievementCatalog = []achievementRule{
	{
		Achievement: Achievement{ID: "first-skill-started", Title: "First Steps", Description: "Started your first skill", Icon: "play", Type: "milestone", Points: 10},
		earned:      func(s Stats) bool { return s.Started >= 1 },
	},
	{
		Achievement: Achievement{ID: "first-skill-completed", Title: "First Victory", Description: "Completed your first skill", Icon: "trophy", Type: "milestone", Points: 50},
		earned:      func(s Stats) bool { return s.Completed >= 1 },
	},
	{
		Achievement: Achievement{ID: "streak-3", Title: "On a Roll", Description: "3-day learning streak", Icon: "flame", Type: "streak", Points: 20},
		earned:      func(s Stats) bool { return s.CurrentStreak >= 3 },
	},
	{
		Achievement: Achievement{ID: "streak-7", Title: "Week Warrior", Description: "7-day learning streak", Icon: "flame", Type: "streak", Points: 50},
		earned:      func(s Stats) bool { return s.CurrentStreak >= 7 },
	},
	{
		Achievement: Achievement{ID: "skills-5", Title: "Rising Star", Description: "Completed 5 skills", Icon: "star", Type: "skills", Points: 100},
		earned:      func(s Stats) bool { return s.Completed >= 5 },
	},
	{
		Achievement: Achievement{ID: "skills-10", Title: "AI Survivor", Description: "Completed 10 skills", Icon: "shield", Type: "skills", Points: 200},
		earned:      func(s Stats) bool { return s.Completed >= 10 },
	},
}

// Stats summarises a user's learning activity
type Stats struct {
	Started            int     `json:"started"`
	InProgress         int     `json:"in_progress"`
	Completed          int     `json:"completed"`
	TopicsCompleted    int     `json:"topics_completed"`
	TotalLearningHours float64 `json:"total_learning_hours"`
	CurrentStreak      int     `json:"current_streak"`
	TotalPoints        int     `json:"total_points"`
}

// CompletedCourse is one finished course inside a category group
type CompletedCourse struct {
	ProgressID         uint      `json:"progress_id"`
	CourseID           uint      `json:"course_id"`
	Title              string    `json:"title"`
	Goal               string    `json:"goal"`
	Level              string    `json:"level"`
	TopicCount         int       `json:"topic_count"`
	TotalLearningHours float64   `json:"total_learning_hours"`
	CompletedAt        time.Time `json:"completed_at"`
}

// CategoryGroup holds completed courses of one category, newest first.
// CategoryID is nil for the orphaned group.
type CategoryGroup struct {
	Key        string            `json:"key"`
	CategoryID *uint             `json:"category_id"`
	Name       string            `json:"name"`
	Orphaned   bool              `json:"orphaned"`
	Courses    []CompletedCourse `json:"courses"`

	order int
}

// AchievementService derives read-only summaries from progress records and
// unlocks achievements
type AchievementService struct {
	db  *gorm.DB
	log *logger.Logger
	now func() time.Time
}

func NewAchievementService(db *gorm.DB, log *logger.Logger) *AchievementService {
	if log == nil {
		log = logger.Nop()
	}
	return &AchievementService{db: db, log: log.With("component", "achievement"), now: time.Now}
}

// CompletedCoursesByCategory groups the owner's completed courses by the
// category recorded on the progress. Courses that no longer exist are
// skipped; categories that no longer exist collapse into OrphanedGroup.
func (s *AchievementService) CompletedCoursesByCategory(ctx context.Context, ownerID uint) ([]CategoryGroup, error) {
	var records []model.CourseProgress
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND completed_at IS NOT NULL", ownerID).
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to load completed progress: %w", err)
	}

	courses, err := loadCourses(ctx, s.db, records)
	if err != nil {
		return nil, err
	}

	var categories []model.Category
	if err := s.db.WithContext(ctx).Where("user_id = ?", ownerID).Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	byID := make(map[uint]model.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	groups := make(map[string]*CategoryGroup)
	for _, p := range records {
		course, ok := courses[p.CourseID]
		if !ok || p.CompletedAt == nil {
			continue
		}

		key := OrphanedGroup
		category, known := byID[p.CategoryID]
		if known {
			key = fmt.Sprintf("category-%d", category.ID)
		}

		g, ok := groups[key]
		if !ok {
			g = &CategoryGroup{Key: key, Name: "Orphaned", Orphaned: !known}
			if known {
				id := category.ID
				g.CategoryID = &id
				g.Name = category.Name
				g.order = category.SortOrder
			}
			groups[key] = g
		}

		g.Courses = append(g.Courses, CompletedCourse{
			ProgressID:         p.ID,
			CourseID:           course.ID,
			Title:              course.Title,
			Goal:               course.Goal,
			Level:              course.Level,
			TopicCount:         len(course.TopicList()),
			TotalLearningHours: p.TotalLearningHours,
			CompletedAt:        *p.CompletedAt,
		})
	}

	out := make([]CategoryGroup, 0, len(groups))
	for _, g := range groups {
		sort.SliceStable(g.Courses, func(i, j int) bool {
			return g.Courses[i].CompletedAt.After(g.Courses[j].CompletedAt)
		})
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Orphaned != out[j].Orphaned {
			return !out[i].Orphaned
		}
		return out[i].order < out[j].order
	})
	return out, nil
}

// Stats computes the dashboard summary for the owner
func (s *AchievementService) Stats(ctx context.Context, ownerID uint) (*Stats, error) {
	var records []model.CourseProgress
	if err := s.db.WithContext(ctx).Where("user_id = ?", ownerID).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}

	stats := Stats{Started: len(records)}
	for i := range records {
		if records[i].CompletedAt != nil {
			stats.Completed++
		} else {
			stats.InProgress++
		}
		stats.TopicsCompleted += records[i].CompletedCount()
		stats.TotalLearningHours += records[i].TotalLearningHours
	}

	streak, err := s.currentStreak(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	stats.CurrentStreak = streak

	var points int64
	if err := s.db.WithContext(ctx).Model(&model.UserAchievement{}).
		Where("user_id = ?", ownerID).
		Select("COALESCE(SUM(points), 0)").
		Scan(&points).Error; err != nil {
		return nil, fmt.Errorf("failed to sum points: %w", err)
	}
	stats.TotalPoints = int(points)

	return &stats, nil
}

// currentStreak counts consecutive UTC days with at least one completion,
// ending today or yesterday
func (s *AchievementService) currentStreak(ctx context.Context, ownerID uint) (int, error) {
	var completions []model.TopicCompletion
	if err := s.db.WithContext(ctx).
		Select("completed_at").
		Where("user_id = ?", ownerID).
		Find(&completions).Error; err != nil {
		return 0, fmt.Errorf("failed to load completions: %w", err)
	}

	days := make(map[string]bool, len(completions))
	for _, c := range completions {
		days[c.CompletedAt.UTC().Format(dayLayout)] = true
	}

	day := s.now().UTC()
	if !days[day.Format(dayLayout)] {
		day = day.AddDate(0, 0, -1)
	}

	streak := 0
	for days[day.Format(dayLayout)] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak, nil
}

// Evaluate unlocks every achievement the owner has earned and returns the
// newly unlocked ones. Each achievement is unlocked at most once.
func (s *AchievementService) Evaluate(ctx context.Context, ownerID uint) ([]Achievement, error) {
	stats, err := s.Stats(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var unlocked []Achievement
	for _, rule := range achievementCatalog {
		if !rule.earned(*stats) {
			continue
		}

		row := model.UserAchievement{
			UserID:        ownerID,
			AchievementID: rule.ID,
			Type:          rule.Type,
			Points:        rule.Points,
			UnlockedAt:    now,
		}
		result := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
		if result.Error != nil {
			return unlocked, fmt.Errorf("failed to unlock %s: %w", rule.ID, result.Error)
		}
		if result.RowsAffected == 0 {
			continue
		}

		a := rule.Achievement
		a.Unlocked = true
		a.UnlockedAt = &row.UnlockedAt
		unlocked = append(unlocked, a)
		s.log.Info("achievement unlocked", "user_id", ownerID, "achievement_id", rule.ID, "points", rule.Points)
	}
	return unlocked, nil
}

// ListAchievements returns the catalog with the owner's unlock state:
// unlocked entries newest first, then locked ones in catalog order
func (s *AchievementService) ListAchievements(ctx context.Context, ownerID uint) ([]Achievement, error) {
	var rows []model.UserAchievement
	if err := s.db.WithContext(ctx).Where("user_id = ?", ownerID).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load achievements: %w", err)
	}
	unlockedAt := make(map[string]time.Time, len(rows))
	for _, r := range rows {
		unlockedAt[r.AchievementID] = r.UnlockedAt
	}

	var unlocked, locked []Achievement
	for _, rule := range achievementCatalog {
		a := rule.Achievement
		if at, ok := unlockedAt[a.ID]; ok {
			at := at
			a.Unlocked = true
			a.UnlockedAt = &at
			unlocked = append(unlocked, a)
			continue
		}
		locked = append(locked, a)
	}

	sort.SliceStable(unlocked, func(i, j int) bool {
		return unlocked[i].UnlockedAt.After(*unlocked[j].UnlockedAt)
	})
	return append(unlocked, locked...), nil
}
