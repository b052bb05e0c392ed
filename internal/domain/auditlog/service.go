package auditlog

import (
	"context"

	"github.com/SubhanAlom009/realtime-kanban-backend/internal/domain/events"
	"github.com/SubhanAlom009/realtime-kanban-backend/internal/domain/user"
	"github.com/SubhanAlom009/realtime-kanban-backend/internal/infrastructure/realtime"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RecordInput describes one audit entry to append.
type RecordInput struct {
	Action      Action
	TaskID      uuid.UUID
	PerformedBy uuid.UUID
	Details     string
}

// Service records audit entries and serves the audit trail. Recording is
// best-effort: it runs strictly after the triggering task mutation has
// committed and its failures are logged, never propagated.
type Service interface {
	Record(ctx context.Context, input RecordInput)
	ListLogs(ctx context.Context) ([]ActionLog, error)
}

type service struct {
	repo   Repository
	users  user.Repository
	hub    *realtime.Hub
	logger *zap.Logger
}

func NewService(repo Repository, users user.Repository, hub *realtime.Hub, logger *zap.Logger) Service {
	return &service{repo: repo, users: users, hub: hub, logger: logger}
}

// Record appends an audit entry and republishes it as a log_created event,
// enriched with the performer's display fields. Failures are swallowed so
// the caller's mutation result is never affected.
func (s *service) Record(ctx context.Context, input RecordInput) {
	entry := &ActionLog{
		Action:      input.Action,
		TaskID:      input.TaskID,
		PerformedBy: input.PerformedBy,
		Details:     input.Details,
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.Error("Failed to record audit action",
			zap.Error(err),
			zap.String("action", string(input.Action)),
			zap.String("task_id", input.TaskID.String()))
		return
	}

	// Read-after-write enrichment of the performer display fields
	if performer, err := s.users.FindByID(ctx, input.PerformedBy); err == nil {
		ref := performer.AsRef()
		entry.Performer = &ref
	} else {
		s.logger.Warn("Failed to enrich audit entry performer",
			zap.Error(err),
			zap.String("performed_by", input.PerformedBy.String()))
	}

	if err := s.hub.Publish(events.EventLogCreated, entry); err != nil {
		s.logger.Error("Failed to publish log_created event", zap.Error(err))
	}
}

// ListLogs returns the audit trail newest first, each entry enriched with
// its performer's username and email.
func (s *service) ListLogs(ctx context.Context) ([]ActionLog, error) {
	entries, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(entries))
	seen := make(map[uuid.UUID]struct{}, len(entries))
	for _, entry := range entries {
		if _, ok := seen[entry.PerformedBy]; !ok {
			seen[entry.PerformedBy] = struct{}{}
			ids = append(ids, entry.PerformedBy)
		}
	}

	performers, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	refs := make(map[uuid.UUID]user.Ref, len(performers))
	for i := range performers {
		refs[performers[i].ID] = performers[i].AsRef()
	}

	for i := range entries {
		if ref, ok := refs[entries[i].PerformedBy]; ok {
			r := ref
			entries[i].Performer = &r
		}
	}

	return entries, nil
}
