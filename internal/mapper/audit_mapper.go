package mapper

import (
	"encoding/json"

	"ai-teacher-be/internal/entity"
	"ai-teacher-be/internal/model"

	"gorm.io/datatypes"
)

type AuditMapper struct{}

func NewAuditMapper() *AuditMapper {
	return &AuditMapper{}
}

func (m *AuditMapper) AuditLogToEntity(a *model.AnswerAuditLog) *entity.AnswerAuditLog {
	if a == nil {
		return nil
	}

	var tags []string
	if len(a.CustomTags) > 0 {
		// Tags written by us are always a JSON string array; anything else is
		// treated as no tags.
		_ = json.Unmarshal(a.CustomTags, &tags)
	}

	return &entity.AnswerAuditLog{
		Id:                 a.Id,
		UserId:             a.UserId,
		SessionId:          a.SessionId,
		BookId:             a.BookId,
		QuestionText:       a.QuestionText,
		AiAnswer:           a.AiAnswer,
		SourceReference:    a.SourceReference,
		Verified:           a.Verified,
		VerifiedByTeacher:  a.VerifiedByTeacher,
		TeacherComment:     a.TeacherComment,
		RagConfidenceScore: a.RagConfidenceScore,
		CustomTags:         tags,
		IsCorrect:          a.IsCorrect,
		CreatedAt:          a.CreatedAt,
	}
}

func (m *AuditMapper) AuditLogToModel(a *entity.AnswerAuditLog) *model.AnswerAuditLog {
	if a == nil {
		return nil
	}

	var tags datatypes.JSON
	if len(a.CustomTags) > 0 {
		raw, err := json.Marshal(a.CustomTags)
		if err == nil {
			tags = datatypes.JSON(raw)
		}
	}

	return &model.AnswerAuditLog{
		Id:                 a.Id,
		UserId:             a.UserId,
		SessionId:          a.SessionId,
		BookId:             a.BookId,
		QuestionText:       a.QuestionText,
		AiAnswer:           a.AiAnswer,
		SourceReference:    a.SourceReference,
		Verified:           a.Verified,
		VerifiedByTeacher:  a.VerifiedByTeacher,
		TeacherComment:     a.TeacherComment,
		RagConfidenceScore: a.RagConfidenceScore,
		CustomTags:         tags,
		IsCorrect:          a.IsCorrect,
		CreatedAt:          a.CreatedAt,
	}
}

func (m *AuditMapper) AuditLogsToEntities(models []*model.AnswerAuditLog) []*entity.AnswerAuditLog {
	entities := make([]*entity.AnswerAuditLog, len(models))
	for i, a := range models {
		entities[i] = m.AuditLogToEntity(a)
	}
	return entities
}
