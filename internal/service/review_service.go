package service

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"

	"ai-teacher-be/internal/dto"
	"ai-teacher-be/internal/entity"
	"ai-teacher-be/internal/pkg/logger"
	"ai-teacher-be/internal/pkg/serverutils"
	"ai-teacher-be/internal/repository/specification"
	"ai-teacher-be/internal/repository/unitofwork"
	"ai-teacher-be/pkg/events"
	"ai-teacher-be/pkg/metrics"
	"ai-teacher-be/pkg/rag/audit"
)

type IReviewService interface {
	SetStudentFeedback(ctx context.Context, userId uuid.UUID, auditLogId uuid.UUID, req *dto.StudentFeedbackRequest) error
	GetReviewQueue(ctx context.Context, facultyId string, limit, offset int) (*dto.AuditLogListResponse, error)
	VerifyAnswer(ctx context.Context, auditLogId uuid.UUID, req *dto.TeacherReviewRequest) error
}

type reviewService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher audit.EventPublisher
	logger         logger.ILogger
}

func NewReviewService(
	uowFactory unitofwork.RepositoryFactory,
	eventPublisher audit.EventPublisher,
	appLogger logger.ILogger,
) IReviewService {
	return &reviewService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		logger:         appLogger,
	}
}

// SetStudentFeedback records the asking student's own verdict on an answer.
func (s *reviewService) SetStudentFeedback(ctx context.Context, userId uuid.UUID, auditLogId uuid.UUID, req *dto.StudentFeedbackRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	row, err := uow.AnswerAuditLogRepository().FindOne(ctx, specification.ByID{ID: auditLogId})
	if err != nil {
		return err
	}
	if row == nil {
		return serverutils.ErrNotFound
	}
	if row.UserId != userId {
		return serverutils.ErrForbidden
	}

	if err := uow.AnswerAuditLogRepository().SetStudentFeedback(ctx, auditLogId, *req.IsCorrect); err != nil {
		return err
	}

	metrics.StudentFeedbackTotal.WithLabelValues(strconv.FormatBool(*req.IsCorrect)).Inc()
	return nil
}

// GetReviewQueue lists a faculty's audit rows, newest first, for teacher
// review.
func (s *reviewService) GetReviewQueue(ctx context.Context, facultyId string, limit, offset int) (*dto.AuditLogListResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	facultyScope := specification.ByFacultyID{FacultyID: facultyId}

	total, err := uow.AnswerAuditLogRepository().Count(ctx, facultyScope)
	if err != nil {
		return nil, err
	}

	rows, err := uow.AnswerAuditLogRepository().FindAll(ctx,
		facultyScope,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.AuditLogResponse, 0, len(rows))
	for _, row := range rows {
		items = append(items, toAuditLogResponse(row))
	}
	return &dto.AuditLogListResponse{Items: items, Total: total}, nil
}

// VerifyAnswer applies a teacher's verdict to an audit row and announces it
// on the event bus for downstream curriculum tooling.
func (s *reviewService) VerifyAnswer(ctx context.Context, auditLogId uuid.UUID, req *dto.TeacherReviewRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	row, err := uow.AnswerAuditLogRepository().FindOne(ctx, specification.ByID{ID: auditLogId})
	if err != nil {
		return err
	}
	if row == nil {
		return serverutils.ErrNotFound
	}

	if err := uow.AnswerAuditLogRepository().ApplyTeacherReview(ctx, auditLogId, *req.Verified, req.Comment, req.Tags); err != nil {
		return err
	}

	metrics.VerifiedAnswersTotal.WithLabelValues(strconv.FormatBool(*req.Verified)).Inc()

	if s.eventPublisher != nil {
		event := events.BaseEvent{
			Type: events.TypeAnswerVerified,
			Data: map[string]interface{}{
				"audit_log_id": auditLogId.String(),
				"verified":     *req.Verified,
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Warn("REVIEW", "Failed to publish verification event", map[string]interface{}{
				"audit_log_id": auditLogId.String(),
				"error":        err.Error(),
			})
		}
	}
	return nil
}

func toAuditLogResponse(row *entity.AnswerAuditLog) *dto.AuditLogResponse {
	return &dto.AuditLogResponse{
		Id:                 row.Id,
		UserId:             row.UserId,
		SessionId:          row.SessionId,
		BookId:             row.BookId,
		QuestionText:       row.QuestionText,
		AiAnswer:           row.AiAnswer,
		SourceReference:    row.SourceReference,
		Verified:           row.Verified,
		VerifiedByTeacher:  row.VerifiedByTeacher,
		TeacherComment:     row.TeacherComment,
		RagConfidenceScore: row.RagConfidenceScore,
		CustomTags:         row.CustomTags,
		IsCorrect:          row.IsCorrect,
		CreatedAt:          row.CreatedAt,
	}
}
