package audit

import (
	"context"
	"encoding/json"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"ai-teacher-be/internal/constant"
	"ai-teacher-be/internal/entity"
	"ai-teacher-be/internal/pkg/logger"
	"ai-teacher-be/internal/repository/unitofwork"
	"ai-teacher-be/pkg/events"
	"ai-teacher-be/pkg/metrics"
	"ai-teacher-be/pkg/rag/synthesis"
)

// EventPublisher is the outbound bus contract the recorder needs. Publishing
// is best-effort; a bus failure never fails the turn.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Outcome is everything known about a completed turn at recording time.
type Outcome struct {
	UserId        uuid.UUID
	Session       *entity.ChatSession
	Question      string
	Answer        synthesis.Result
	Intent        string
	MaxScore      float64
	PassagesFound bool
}

// intentRequiresPassages reports whether the retrieval stage ran for this
// intent, i.e. whether "no passages" means retrieval came up empty rather
// than retrieval being skipped on purpose.
func intentRequiresPassages(intent string) bool {
	return intent != constant.IntentGeneral && intent != constant.IntentOutsideSyllabus
}

// Classify maps a turn outcome to its audit classification.
func Classify(o Outcome) string {
	if o.Answer.Hallucination {
		return constant.TurnHallucination
	}
	if !o.PassagesFound && intentRequiresPassages(o.Intent) {
		return constant.TurnFail
	}
	if utf8.RuneCountInString(o.Answer.Answer) < constant.MinPlausibleAnswerLength {
		return constant.TurnFail
	}
	return constant.TurnPass
}

// Recorder persists the conversational and compliance trail for each turn.
type Recorder struct {
	auditLog  logger.ILogger
	publisher EventPublisher
}

func NewRecorder(auditLog logger.ILogger, publisher EventPublisher) *Recorder {
	return &Recorder{auditLog: auditLog, publisher: publisher}
}

// Record writes the two message rows and the audit row inside the caller's
// transaction, then emits metrics and compliance events. It returns the new
// audit log id.
func (r *Recorder) Record(ctx context.Context, uow unitofwork.UnitOfWork, o Outcome) (uuid.UUID, error) {
	status := Classify(o)

	userMsg := &entity.ChatMessage{
		ChatSessionId: o.Session.Id,
		Role:          constant.ChatMessageRoleUser,
		Content:       o.Question,
	}
	if err := uow.ChatMessageRepository().Create(ctx, userMsg); err != nil {
		return uuid.Nil, err
	}

	assistantMsg := &entity.ChatMessage{
		ChatSessionId: o.Session.Id,
		Role:          constant.ChatMessageRoleAssistant,
		Content:       o.Answer.Answer,
	}
	if err := uow.ChatMessageRepository().Create(ctx, assistantMsg); err != nil {
		return uuid.Nil, err
	}

	sourceRef, err := json.Marshal(o.Answer.Source)
	if err != nil {
		sourceRef = []byte("{}")
	}

	bookId := ""
	if o.Session.BookId != nil {
		bookId = o.Session.BookId.String()
	}

	auditRow := &entity.AnswerAuditLog{
		UserId:             o.UserId,
		SessionId:          o.Session.Id,
		BookId:             bookId,
		QuestionText:       o.Question,
		AiAnswer:           o.Answer.Answer,
		SourceReference:    string(sourceRef),
		RagConfidenceScore: o.MaxScore,
		CustomTags:         []string{status},
	}
	if err := uow.AnswerAuditLogRepository().Create(ctx, auditRow); err != nil {
		return uuid.Nil, err
	}

	metrics.AnswersTotal.WithLabelValues(o.Session.FacultyId, status).Inc()

	if status == constant.TurnHallucination {
		metrics.HallucinationsBlockedTotal.Inc()
		r.recordHallucination(ctx, o, auditRow.Id)
	}

	return auditRow.Id, nil
}

// recordHallucination writes the compliance trail for a blocked answer: one
// entry on the isolated audit log and one bus event for downstream review
// tooling.
func (r *Recorder) recordHallucination(ctx context.Context, o Outcome, auditLogId uuid.UUID) {
	details := map[string]interface{}{
		"audit_log_id": auditLogId.String(),
		"session_id":   o.Session.Id.String(),
		"user_id":      o.UserId.String(),
		"faculty_id":   o.Session.FacultyId,
		"question":     o.Question,
		"answer":       o.Answer.Answer,
		"score":        o.MaxScore,
	}
	r.auditLog.Warn("AUDIT", "Hallucination blocked", details)

	if r.publisher == nil {
		return
	}
	event := events.BaseEvent{
		Type:       events.TypeHallucinationBlocked,
		Data:       details,
		OccurredAt: time.Now(),
	}
	if err := r.publisher.Publish(ctx, event); err != nil {
		r.auditLog.Error("AUDIT", "Failed to publish hallucination event", map[string]interface{}{"error": err.Error()})
	}
}
