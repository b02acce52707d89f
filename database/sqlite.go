package database

import (
	"github.com/sahilchouksey/skills-lab/utils/logger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// OpenSQLite opens a SQLite database, used by tests and local tooling
func OpenSQLite(dsn string, log *logger.Logger) (*GORMStore, error) {
	if log == nil {
		log = logger.Nop()
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}
	return &GORMStore{db: db, log: log}, nil
}
