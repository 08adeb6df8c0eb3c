package contract

import (
	"context"

	"ai-teacher-be/internal/entity"
	"ai-teacher-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ChatMessageRepository interface {
	Create(ctx context.Context, message *entity.ChatMessage) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error)
	DeleteByChatSessionId(ctx context.Context, sessionId uuid.UUID) error // cascade soft delete
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
