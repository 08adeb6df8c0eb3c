package dto

import (
	"time"

	"github.com/google/uuid"
)

type StudentFeedbackRequest struct {
	IsCorrect *bool `json:"is_correct" validate:"required"`
}

type TeacherReviewRequest struct {
	Verified *bool    `json:"verified" validate:"required"`
	Comment  *string  `json:"comment"`
	Tags     []string `json:"tags"`
}

type AuditLogResponse struct {
	Id                 uuid.UUID `json:"id"`
	UserId             uuid.UUID `json:"user_id"`
	SessionId          uuid.UUID `json:"session_id"`
	BookId             string    `json:"book_id,omitempty"`
	QuestionText       string    `json:"question_text"`
	AiAnswer           string    `json:"ai_answer"`
	SourceReference    string    `json:"source_reference"`
	Verified           bool      `json:"verified"`
	VerifiedByTeacher  bool      `json:"verified_by_teacher"`
	TeacherComment     *string   `json:"teacher_comment,omitempty"`
	RagConfidenceScore float64   `json:"rag_confidence_score"`
	CustomTags         []string  `json:"custom_tags,omitempty"`
	IsCorrect          *bool     `json:"is_correct,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

type AuditLogListResponse struct {
	Items []*AuditLogResponse `json:"items"`
	Total int64               `json:"total"`
}
