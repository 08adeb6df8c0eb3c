package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByChatSessionID filters chat messages by their owning session
type ByChatSessionID struct {
	ChatSessionID uuid.UUID
}

func (s ByChatSessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("chat_session_id = ?", s.ChatSessionID)
}

// BySessionID filters audit logs by the session they reference
type BySessionID struct {
	SessionID uuid.UUID
}

func (s BySessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionID)
}

// ByFacultyID scopes audit logs to one faculty for teacher review
type ByFacultyID struct {
	FacultyID string
}

func (s ByFacultyID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id IN (SELECT id FROM chat_sessions WHERE faculty_id = ?)", s.FacultyID)
}
