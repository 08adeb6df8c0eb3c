package contract

import (
	"context"

	"ai-teacher-be/internal/entity"
	"ai-teacher-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ChatSessionRepository interface {
	Create(ctx context.Context, session *entity.ChatSession) error
	Update(ctx context.Context, session *entity.ChatSession) error
	// UpdateLearningSummary is the explicit write boundary for the background
	// summary fold. Last write wins; the fold is idempotent.
	UpdateLearningSummary(ctx context.Context, id uuid.UUID, summary string) error
	UpdateTitle(ctx context.Context, id uuid.UUID, title string) error
	Delete(ctx context.Context, id uuid.UUID) error // soft delete
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
