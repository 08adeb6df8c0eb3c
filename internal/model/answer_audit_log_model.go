package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AnswerAuditLog struct {
	Id                 uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId             uuid.UUID      `gorm:"type:uuid;not null;index"`
	SessionId          uuid.UUID      `gorm:"type:uuid;index"`
	BookId             string         `gorm:"type:varchar(255);index"`
	QuestionText       string         `gorm:"type:text;not null"`
	AiAnswer           string         `gorm:"type:text;not null"`
	SourceReference    string         `gorm:"type:text"` // JSON string of source info
	Verified           bool           `gorm:"default:false"`
	VerifiedByTeacher  bool           `gorm:"default:false"`
	TeacherComment     *string        `gorm:"type:text"`
	RagConfidenceScore float64        `gorm:"type:double precision"`
	CustomTags         datatypes.JSON `gorm:"type:jsonb"`
	IsCorrect          *bool          // student feedback, nullable until it arrives
	CreatedAt          time.Time      `gorm:"autoCreateTime"`
}

func (AnswerAuditLog) TableName() string {
	return "answer_audit_logs"
}
