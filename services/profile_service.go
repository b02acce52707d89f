package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sahilchouksey/skills-lab/model"
	"github.com/sahilchouksey/skills-lab/utils/auth"
	"github.com/sahilchouksey/skills-lab/utils/logger"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	MinDailyGoalMinutes = 5
	MaxDailyGoalMinutes = 480
)

// ProfileService maps identity-provider principals to profiles and lets
// administrators approve or reject them
type ProfileService struct {
	db        *gorm.DB
	blacklist *auth.BlacklistService
	isAdmin   func(email string) bool
	log       *logger.Logger
	now       func() time.Time
}

// NewProfileService creates a profile service. isAdmin decides which emails
// are promoted to administrators on sign-in; nil means nobody is.
func NewProfileService(db *gorm.DB, isAdmin func(email string) bool, log *logger.Logger) *ProfileService {
	if isAdmin == nil {
		isAdmin = func(string) bool { return false }
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ProfileService{
		db:        db,
		blacklist: auth.NewBlacklistService(db),
		isAdmin:   isAdmin,
		log:       log.With("component", "profile"),
		now:       time.Now,
	}
}

// SignIn creates the profile on first sign-in (pending, default preferences)
// and otherwise touches lastLogin and refreshes display metadata
func (s *ProfileService) SignIn(ctx context.Context, p auth.Principal) (*model.User, bool, error) {
	now := s.now()
	admin := s.isAdmin(p.Email)

	var user model.User
	err := s.db.WithContext(ctx).Where("subject = ?", p.Subject).First(&user).Error
	if err == nil {
		updates := map[string]interface{}{
			"last_login": now,
			"email":      strings.ToLower(p.Email),
			"name":       p.Name,
			"photo_url":  p.PhotoURL,
		}
		promote := admin && !user.IsAdmin()
		if promote {
			updates["role"] = model.RoleAdmin
			updates["status"] = model.UserStatusApproved
		}
		if err := s.db.WithContext(ctx).Model(&user).Updates(updates).Error; err != nil {
			return nil, false, fmt.Errorf("failed to update profile: %w", err)
		}
		user.LastLogin = &now
		user.Email = strings.ToLower(p.Email)
		user.Name = p.Name
		user.PhotoURL = p.PhotoURL
		if promote {
			user.Role = model.RoleAdmin
			user.Status = model.UserStatusApproved
		}
		return &user, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("failed to load profile: %w", err)
	}

	user = model.User{
		Subject:     p.Subject,
		Email:       strings.ToLower(p.Email),
		Name:        p.Name,
		PhotoURL:    p.PhotoURL,
		Role:        model.RoleLearner,
		Status:      model.UserStatusPending,
		Preferences: datatypes.NewJSONType(model.DefaultPreferences()),
		LastLogin:   &now,
	}
	if admin {
		user.Role = model.RoleAdmin
		user.Status = model.UserStatusApproved
	}

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, false, fmt.Errorf("failed to create profile: %w", err)
	}

	s.log.Info("profile created", "user_id", user.ID, "status", user.Status, "role", user.Role)
	return &user, true, nil
}

func (s *ProfileService) GetProfile(ctx context.Context, userID uint) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return &user, nil
}

// GetByEmail looks a profile up by its (case-insensitive) email
func (s *ProfileService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return &user, nil
}

func (s *ProfileService) UpdatePreferences(ctx context.Context, userID uint, prefs model.Preferences) (*model.User, error) {
	if prefs.DailyGoalMinutes < MinDailyGoalMinutes || prefs.DailyGoalMinutes > MaxDailyGoalMinutes {
		return nil, ErrInvalidPreferences
	}

	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Preferences = datatypes.NewJSONType(prefs)
	if err := s.db.WithContext(ctx).Model(user).Update("preferences", user.Preferences).Error; err != nil {
		return nil, fmt.Errorf("failed to update preferences: %w", err)
	}
	return user, nil
}

// ListUsers returns profiles newest first, optionally filtered by status
func (s *ProfileService) ListUsers(ctx context.Context, status model.UserStatus) ([]model.User, error) {
	query := s.db.WithContext(ctx).Order("created_at DESC, id DESC")
	if status != "" {
		if !status.Valid() {
			return nil, ErrInvalidStatus
		}
		query = query.Where("status = ?", status)
	}

	var users []model.User
	if err := query.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// StatusChange describes one administrator status transition
type StatusChange struct {
	AdminID   uint
	UserID    uint
	Status    model.UserStatus
	IPAddress string
}

// UpdateStatus moves a profile to a new approval status and records an audit
// entry. Leaving the approved state invalidates outstanding tokens.
func (s *ProfileService) UpdateStatus(ctx context.Context, change StatusChange) (*model.User, error) {
	if !change.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	var user model.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, change.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProfileNotFound
			}
			return err
		}

		old := user.Status
		if old == change.Status {
			return nil
		}

		updates := map[string]interface{}{"status": change.Status}
		if change.Status != model.UserStatusApproved {
			// drops every session the user still holds
			updates["token_version"] = gorm.Expr("token_version + ?", 1)
		}
		if err := tx.Model(&user).Updates(updates).Error; err != nil {
			return err
		}

		oldValue, _ := json.Marshal(map[string]string{"status": string(old)})
		newValue, _ := json.Marshal(map[string]string{"status": string(change.Status)})
		return tx.Create(&model.AdminAuditLog{
			AdminID:    change.AdminID,
			Action:     "user_status_update",
			Resource:   "user",
			ResourceID: user.ID,
			OldValue:   datatypes.JSON(oldValue),
			NewValue:   datatypes.JSON(newValue),
			IPAddress:  change.IPAddress,
		}).Error
	})
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update status: %w", err)
	}

	s.log.Info("user status updated", "user_id", user.ID, "status", change.Status, "admin_id", change.AdminID)
	return s.GetProfile(ctx, user.ID)
}

// RevokeSession blacklists a single token, used when a refresh token is rotated
func (s *ProfileService) RevokeSession(ctx context.Context, userID uint, jti string, expiresAt time.Time) error {
	return s.blacklist.RevokeToken(ctx, jti, userID, expiresAt, "logout")
}

// SignOut blacklists the presented access token and bumps token_version so
// every refresh token issued before it stops working as well
func (s *ProfileService) SignOut(ctx context.Context, userID uint, jti string, expiresAt time.Time) error {
	if err := s.blacklist.RevokeToken(ctx, jti, userID, expiresAt, "logout"); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	result := s.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).
		Update("token_version", gorm.Expr("token_version + ?", 1))
	if result.Error != nil {
		return fmt.Errorf("failed to end sessions: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	s.log.Info("user signed out", "user_id", userID)
	return nil
}

// SessionRevoked reports whether the token with the given JTI was revoked
func (s *ProfileService) SessionRevoked(ctx context.Context, jti string) (bool, error) {
	return s.blacklist.IsTokenRevoked(ctx, jti)
}
