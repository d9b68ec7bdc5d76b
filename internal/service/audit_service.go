package service

import (
	"context"

	"mediconnect/internal/domain/entity"
	"mediconnect/internal/domain/repository"

	"github.com/sirupsen/logrus"
)

// AuditService records admin and doctor actions. Writes are best-effort:
// a failed audit write is logged and never fails the calling operation.
type AuditService interface {
	Record(ctx context.Context, actor, action, entityName, entityID string, metadata entity.JSON)
	Recent(ctx context.Context, limit int) ([]entity.AuditLog, error)
}

type auditService struct {
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditService(log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{
		log:       log,
		auditRepo: auditRepo,
	}
}

func (s *auditService) Record(ctx context.Context, actor, action, entityName, entityID string, metadata entity.JSON) {
	auditLog := &entity.AuditLog{
		Actor:    actor,
		Action:   action,
		Entity:   entityName,
		EntityID: entityID,
		Metadata: metadata,
	}

	if err := s.auditRepo.Create(ctx, auditLog); err != nil {
		s.log.WithFields(logrus.Fields{
			"action":    action,
			"entity_id": entityID,
		}).Warnf("Failed to create audit log: %+v", err)
	}
}

func (s *auditService) Recent(ctx context.Context, limit int) ([]entity.AuditLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.auditRepo.FindRecent(ctx, limit)
}
