package implementation

import (
	"context"
	"encoding/json"
	"errors"

	"ai-teacher-be/internal/entity"
	"ai-teacher-be/internal/mapper"
	"ai-teacher-be/internal/model"
	"ai-teacher-be/internal/repository/contract"
	"ai-teacher-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AnswerAuditLogRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AuditMapper
}

func NewAnswerAuditLogRepository(db *gorm.DB) contract.AnswerAuditLogRepository {
	return &AnswerAuditLogRepositoryImpl{
		db:     db,
		mapper: mapper.NewAuditMapper(),
	}
}

func (r *AnswerAuditLogRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *AnswerAuditLogRepositoryImpl) Create(ctx context.Context, log *entity.AnswerAuditLog) error {
	m := r.mapper.AuditLogToModel(log)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*log = *r.mapper.AuditLogToEntity(m)
	return nil
}

func (r *AnswerAuditLogRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.AnswerAuditLog, error) {
	var m model.AnswerAuditLog
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.AuditLogToEntity(&m), nil
}

func (r *AnswerAuditLogRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AnswerAuditLog, error) {
	var models []*model.AnswerAuditLog
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.AuditLogsToEntities(models), nil
}

func (r *AnswerAuditLogRepositoryImpl) SetStudentFeedback(ctx context.Context, id uuid.UUID, isCorrect bool) error {
	return r.db.WithContext(ctx).
		Model(&model.AnswerAuditLog{}).
		Where("id = ?", id).
		Update("is_correct", isCorrect).Error
}

func (r *AnswerAuditLogRepositoryImpl) ApplyTeacherReview(ctx context.Context, id uuid.UUID, verified bool, comment *string, tags []string) error {
	updates := map[string]interface{}{
		"verified_by_teacher": verified,
		"verified":            verified,
	}
	if comment != nil {
		updates["teacher_comment"] = *comment
	}
	if len(tags) > 0 {
		raw, err := json.Marshal(tags)
		if err != nil {
			return err
		}
		updates["custom_tags"] = datatypes.JSON(raw)
	}
	return r.db.WithContext(ctx).
		Model(&model.AnswerAuditLog{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *AnswerAuditLogRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.AnswerAuditLog{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
