package database

import (
	"ai-teacher-be/internal/model"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates the chat pipeline tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.ChatSession{},
		&model.ChatMessage{},
		&model.AnswerAuditLog{},
	)
}
