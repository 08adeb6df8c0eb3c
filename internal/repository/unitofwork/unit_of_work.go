package unitofwork

import (
	"context"

	"ai-teacher-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ChatSessionRepository() contract.ChatSessionRepository
	ChatMessageRepository() contract.ChatMessageRepository
	AnswerAuditLogRepository() contract.AnswerAuditLogRepository
}
