package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sahilchouksey/skills-lab/model"
	"github.com/sahilchouksey/skills-lab/utils/logger"
	"gorm.io/gorm"
)

// DefaultCategories are created for an owner who has none yet
var DefaultCategories = []string{"Coding", "Prompt Engineering", "Design", "Marketing"}

// CategoryService manages the per-user category registry. Deleting a
// category never touches the courses or progress that reference it.
type CategoryService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCategoryService(db *gorm.DB, log *logger.Logger) *CategoryService {
	if log == nil {
		log = logger.Nop()
	}
	return &CategoryService{db: db, log: log.With("component", "category")}
}

// List returns the owner's categories sorted by order
func (s *CategoryService) List(ctx context.Context, ownerID uint) ([]model.Category, error) {
	var categories []model.Category
	err := s.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("sort_order ASC, id ASC").
		Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *CategoryService) Get(ctx context.Context, ownerID, id uint) (*model.Category, error) {
	var category model.Category
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, ownerID).First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to load category: %w", err)
	}
	return &category, nil
}

// Create appends a category at position = current count. If that order is
// already taken (after deletions) it goes after the highest order instead.
func (s *CategoryService) Create(ctx context.Context, ownerID uint, name string) (*model.Category, error) {
	category := model.Category{UserID: ownerID, Name: strings.TrimSpace(name)}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := nextOrder(tx, ownerID)
		if err != nil {
			return err
		}
		category.SortOrder = order
		return tx.Create(&category).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.log.Debug("category created", "user_id", ownerID, "category_id", category.ID, "order", category.SortOrder)
	return &category, nil
}

func nextOrder(tx *gorm.DB, ownerID uint) (int, error) {
	var count int64
	if err := tx.Model(&model.Category{}).Where("user_id = ?", ownerID).Count(&count).Error; err != nil {
		return 0, err
	}

	var taken int64
	if err := tx.Model(&model.Category{}).
		Where("user_id = ? AND sort_order = ?", ownerID, count).
		Count(&taken).Error; err != nil {
		return 0, err
	}
	if taken == 0 {
		return int(count), nil
	}

	var maxOrder int
	if err := tx.Model(&model.Category{}).
		Where("user_id = ?", ownerID).
		Select("COALESCE(MAX(sort_order), -1)").
		Scan(&maxOrder).Error; err != nil {
		return 0, err
	}
	return maxOrder + 1, nil
}

func (s *CategoryService) Rename(ctx context.Context, ownerID, id uint, name string) (*model.Category, error) {
	category, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	category.Name = strings.TrimSpace(name)
	if err := s.db.WithContext(ctx).Model(category).Update("name", category.Name).Error; err != nil {
		return nil, fmt.Errorf("failed to rename category: %w", err)
	}
	return category, nil
}

// Delete removes the category only. Courses and progress keep their
// reference and surface under the orphaned grouping.
func (s *CategoryService) Delete(ctx context.Context, ownerID, id uint) error {
	result := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, ownerID).Delete(&model.Category{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete category: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// EnsureDefaults seeds DefaultCategories for an owner without categories
func (s *CategoryService) EnsureDefaults(ctx context.Context, ownerID uint) ([]model.Category, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Category{}).Where("user_id = ?", ownerID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to count categories: %w", err)
	}
	if count > 0 {
		return s.List(ctx, ownerID)
	}

	defaults := make([]model.Category, len(DefaultCategories))
	for i, name := range DefaultCategories {
		defaults[i] = model.Category{UserID: ownerID, Name: name, SortOrder: i}
	}
	if err := s.db.WithContext(ctx).Create(&defaults).Error; err != nil {
		return nil, fmt.Errorf("failed to create default categories: %w", err)
	}
	return defaults, nil
}
