package service

import (
	"context"

	"github.com/fixpoint-works/repairdesk-api/internal/model"
	"github.com/fixpoint-works/repairdesk-api/internal/repository"
)

type AuditLogResponse struct {
	ID         string `json:"id"`
	Username   string `json:"username,omitempty"`
	Action     string `json:"action"`
	EntityID   string `json:"entity_id"`
	EntityName string `json:"entity_name,omitempty"`
	Details    string `json:"details"`
	CreatedAt  string `json:"created_at"`
}

type AuditService interface {
	ListLogs(ctx context.Context, page, limit int) ([]AuditLogResponse, int64, error)
}

type auditService struct {
	repo repository.AuditRepository
}

func NewAuditService(repo repository.AuditRepository) AuditService {
	return &auditService{repo: repo}
}

func (s *auditService) ListLogs(ctx context.Context, page, limit int) ([]AuditLogResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	logs, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]AuditLogResponse, 0, len(logs))
	for i := range logs {
		res = append(res, toAuditResponse(&logs[i]))
	}
	return res, total, nil
}

func toAuditResponse(entry *model.AuditLog) AuditLogResponse {
	res := AuditLogResponse{
		ID:         entry.ID.String(),
		Action:     entry.Action,
		EntityID:   entry.EntityID,
		EntityName: entry.EntityName,
		Details:    entry.Details,
		CreatedAt:  entry.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if entry.User != nil {
		res.Username = entry.User.Username
	}
	return res
}
