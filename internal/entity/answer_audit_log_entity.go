package entity

import (
	"time"

	"github.com/google/uuid"
)

// AnswerAuditLog is the immutable quality/compliance record created once per
// answered turn. Teacher verification and student feedback arrive later,
// out-of-band, and touch disjoint fields.
type AnswerAuditLog struct {
	Id                 uuid.UUID
	UserId             uuid.UUID
	SessionId          uuid.UUID
	BookId             string
	QuestionText       string
	AiAnswer           string
	SourceReference    string // JSON-encoded {book, page}
	Verified           bool
	VerifiedByTeacher  bool
	TeacherComment     *string
	RagConfidenceScore float64
	CustomTags         []string
	IsCorrect          *bool // student feedback, nil until it arrives
	CreatedAt          time.Time
}
