package database

import (
	"strings"

	"github.com/sahilchouksey/skills-lab/model"
	"github.com/sahilchouksey/skills-lab/utils/logger"
	"gorm.io/gorm"
)

// Seeder brings stored data in line with deployment configuration
type Seeder struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSeeder(db *gorm.DB, log *logger.Logger) *Seeder {
	return &Seeder{db: db, log: log}
}

// SeedAdmins promotes existing profiles whose email is listed in adminEmails
// to approved admins. Profiles that have not signed in yet are promoted on
// their first sign-in instead.
func (s *Seeder) SeedAdmins(adminEmails []string) (int64, error) {
	if len(adminEmails) == 0 {
		return 0, nil
	}

	lowered := make([]string, 0, len(adminEmails))
	for _, e := range adminEmails {
		lowered = append(lowered, strings.ToLower(strings.TrimSpace(e)))
	}

	result := s.db.Model(&model.User{}).
		Where("LOWER(email) IN ?", lowered).
		Where("role <> ? OR status <> ?", model.RoleAdmin, model.UserStatusApproved).
		Updates(map[string]interface{}{
			"role":   model.RoleAdmin,
			"status": model.UserStatusApproved,
		})
	if result.Error != nil {
		return 0, result.Error
	}

	if result.RowsAffected > 0 {
		s.log.Info("promoted configured admins", "count", result.RowsAffected)
	}
	return result.RowsAffected, nil
}
