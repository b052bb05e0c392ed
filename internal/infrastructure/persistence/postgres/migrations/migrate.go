package migrations

import (
	"fmt"

	"github.com/SubhanAlom009/realtime-kanban-backend/internal/domain/auditlog"
	"github.com/SubhanAlom009/realtime-kanban-backend/internal/domain/task"
	"github.com/SubhanAlom009/realtime-kanban-backend/internal/domain/user"
	"github.com/SubhanAlom009/realtime-kanban-backend/internal/infrastructure/persistence/postgres/connection"
	"go.uber.org/zap"
)

// AutoMigrate runs database migrations for all models
func AutoMigrate(db *connection.Database, logger *zap.Logger) error {
	logger.Info("Starting automatic database migration...")

	// Enable UUID extension for PostgreSQL
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		logger.Error("Failed to create UUID extension", zap.Error(err))
		return fmt.Errorf("failed to create UUID extension: %v", err)
	}

	models := []interface{}{
		&user.User{},
		&task.Task{},
		&auditlog.ActionLog{},
	}

	for _, model := range models {
		if err := db.AutoMigrate(model); err != nil {
			logger.Error("Migration failed", zap.Error(err), zap.String("model", fmt.Sprintf("%T", model)))
			return fmt.Errorf("failed to migrate %T: %v", model, err)
		}
	}

	logger.Info("Database migration completed")
	return nil
}
