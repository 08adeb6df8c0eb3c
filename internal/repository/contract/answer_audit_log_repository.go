package contract

import (
	"context"

	"ai-teacher-be/internal/entity"
	"ai-teacher-be/internal/repository/specification"

	"github.com/google/uuid"
)

type AnswerAuditLogRepository interface {
	Create(ctx context.Context, log *entity.AnswerAuditLog) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.AnswerAuditLog, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AnswerAuditLog, error)
	// SetStudentFeedback and ApplyTeacherReview touch disjoint fields and may
	// arrive in any order; neither overwrites the other's columns.
	SetStudentFeedback(ctx context.Context, id uuid.UUID, isCorrect bool) error
	ApplyTeacherReview(ctx context.Context, id uuid.UUID, verified bool, comment *string, tags []string) error
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
