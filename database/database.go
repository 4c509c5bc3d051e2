package database

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/daydaylx/gamex-sub000/logger"
	"github.com/daydaylx/gamex-sub000/models"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

// Init opens the SQLite database named by dsn.
// "memory" or an empty DSN selects a shared in-memory database.
func Init(dsn string, log *logger.Logger) (*gorm.DB, error) {
	var err error

	gormLogger := gormlogger.New(
		zap.NewStdLog(log.SugaredLogger.Desugar()),
		gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	gormConfig := &gorm.Config{Logger: gormLogger}

	if dsn == "memory" || dsn == "" {
		log.Info("[Database] Initializing in-memory SQLite database")
		DB, err = gorm.Open(sqlite.Open("file::memory:?cache=shared"), gormConfig)
	} else {
		log.Info("[Database] Initializing file-based SQLite database", "dsn", dsn)
		dbDir := filepath.Dir(dsn)
		if dbDir != "." && dbDir != "/" {
			if mkdirErr := os.MkdirAll(dbDir, 0o755); mkdirErr != nil {
				return nil, fmt.Errorf("failed to create database directory '%s': %w", dbDir, mkdirErr)
			}
		}
		DB, err = gorm.Open(sqlite.Open(dsn), gormConfig)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database (DSN: '%s'): %w", dsn, err)
	}

	log.Info("[Database] Database connection established")
	return DB, nil
}

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Session{},
		&models.SessionResponse{},
		&models.Plan{},
		&models.PlanTask{},
		&models.Analysis{},
		&models.AnalysisQuota{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
