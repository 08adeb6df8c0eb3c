package dto

import (
	"time"

	"github.com/google/uuid"
)

type ChatRequest struct {
	Message        string     `json:"message" validate:"required"`
	SessionId      *uuid.UUID `json:"session_id"`
	CollectionName string     `json:"retrieval_scope" validate:"required"`
	FacultyId      *string    `json:"faculty_id"`
	SemesterId     *string    `json:"semester_id"`
	BookId         *uuid.UUID `json:"book_id"`
}

// SourceReference attributes an answer to curriculum material. Page is
// string-or-number depending on the source document.
type SourceReference struct {
	Book string      `json:"book"`
	Page interface{} `json:"page"`
}

type ChatResponse struct {
	Message    string          `json:"answer"`
	Source     SourceReference `json:"source"`
	SessionId  uuid.UUID       `json:"session_id"`
	AuditLogId uuid.UUID       `json:"audit_log_id"`
}

type ChatSessionResponse struct {
	Id             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	CollectionName string    `json:"retrieval_scope"`
	CreatedAt      time.Time `json:"created_at"`
}

type ChatMessageResponse struct {
	Id        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// SummaryUpdateMessage is the queue payload for the background learning
// summary fold.
type SummaryUpdateMessage struct {
	SessionId       uuid.UUID `json:"session_id"`
	PreviousSummary string    `json:"previous_summary"`
	TurnDelta       string    `json:"turn_delta"`
}
