package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yungbote/designmill-backend/internal/logger"
	"github.com/yungbote/designmill-backend/internal/types"
	"github.com/yungbote/designmill-backend/internal/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewPostgresService connects to Postgres, or to a single-file sqlite
// database when DB_DRIVER=sqlite (the small-deployment mode).
func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	driver := utils.GetEnv("DB_DRIVER", "postgres", log)

	var (
		db  *gorm.DB
		err error
	)
	switch driver {
	case "sqlite":
		path := utils.GetEnv("SQLITE_PATH", "data/designmill.db", log)
		serviceLog.Info("Connecting to sqlite...", "path", path)
		db, err = gorm.Open(sqlite.Open(path), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
	default:
		host := utils.GetEnv("POSTGRES_HOST", "localhost", log)
		port := utils.GetEnv("POSTGRES_PORT", "5432", log)
		user := utils.GetEnv("POSTGRES_USER", "postgres", log)
		password := utils.GetEnv("POSTGRES_PASSWORD", "", log)
		name := utils.GetEnv("POSTGRES_NAME", "designmill", log)

		dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, name)
		serviceLog.Info("Connecting to Postgres...")
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			DisableForeignKeyConstraintWhenMigrating: true,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
		}
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
			return nil, fmt.Errorf("failed to enable uuid-ossp extension: %w", err)
		}
	}

	return &PostgresService{db: db, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating tables...")
	err := s.db.AutoMigrate(
		&types.VariableList{},
		&types.VariableItem{},
		&types.VariableDefault{},
		&types.GenerationPolicy{},
		&types.CooldownLogEntry{},
		&types.DesignRun{},
		&types.PromptRecord{},
		&types.AssetRecord{},
	)
	if err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	return s.seedPolicy()
}

// seedPolicy inserts the default GenerationPolicy row when the table is
// empty, so a fresh database can run the pipeline immediately.
func (s *PostgresService) seedPolicy() error {
	var count int64
	if err := s.db.Model(&types.GenerationPolicy{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count generation_policy rows: %w", err)
	}
	if count > 0 {
		return nil
	}
	policy := types.DefaultGenerationPolicy()
	if err := s.db.Create(&policy).Error; err != nil {
		return fmt.Errorf("failed to seed generation policy: %w", err)
	}
	s.log.Info("Seeded default generation policy")
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
