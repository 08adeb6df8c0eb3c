package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is one turn's utterance. Messages are append-only: they are
// never mutated and only disappear through session soft-delete.
type ChatMessage struct {
	Id            uuid.UUID
	ChatSessionId uuid.UUID
	Role          string
	Content       string
	CreatedAt     time.Time
	DeletedAt     *time.Time
	IsDeleted     bool
}
