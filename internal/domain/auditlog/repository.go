package auditlog

import (
	"context"

	"github.com/SubhanAlom009/realtime-kanban-backend/internal/infrastructure/persistence/postgres/connection"
)

// Repository defines the interface for audit log persistence
type Repository interface {
	Create(ctx context.Context, entry *ActionLog) error
	FindAll(ctx context.Context) ([]ActionLog, error)
}

type repository struct {
	db *connection.Database
}

func NewRepository(db *connection.Database) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, entry *ActionLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) FindAll(ctx context.Context) ([]ActionLog, error) {
	var entries []ActionLog
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
