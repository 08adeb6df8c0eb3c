package service

import (
	"context"
	"encoding/json"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"ai-teacher-be/internal/constant"
	"ai-teacher-be/internal/dto"
	"ai-teacher-be/internal/entity"
	"ai-teacher-be/internal/pkg/logger"
	"ai-teacher-be/internal/pkg/serverutils"
	"ai-teacher-be/internal/repository/specification"
	"ai-teacher-be/internal/repository/unitofwork"
	"ai-teacher-be/pkg/metrics"
	"ai-teacher-be/pkg/rag/audit"
	"ai-teacher-be/pkg/rag/guardrail"
	"ai-teacher-be/pkg/rag/intent"
	"ai-teacher-be/pkg/rag/prompt"
	"ai-teacher-be/pkg/rag/retrieval"
	"ai-teacher-be/pkg/rag/synthesis"
	"ai-teacher-be/pkg/vectorsearch"
)

const sessionTitleMaxLength = 80

type IChatService interface {
	SendChat(ctx context.Context, userId uuid.UUID, facultyId, semesterId string, req *dto.ChatRequest) (*dto.ChatResponse, error)
	GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.ChatSessionResponse, error)
	GetChatHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.ChatMessageResponse, error)
	DeleteSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error
}

type chatService struct {
	uowFactory       unitofwork.RepositoryFactory
	guard            *guardrail.Validator
	analyzer         *intent.Analyzer
	retriever        *retrieval.Orchestrator
	synthesizer      *synthesis.Synthesizer
	recorder         *audit.Recorder
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	guard *guardrail.Validator,
	analyzer *intent.Analyzer,
	retriever *retrieval.Orchestrator,
	synthesizer *synthesis.Synthesizer,
	recorder *audit.Recorder,
	publisherService IPublisherService,
	appLogger logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory:       uowFactory,
		guard:            guard,
		analyzer:         analyzer,
		retriever:        retriever,
		synthesizer:      synthesizer,
		recorder:         recorder,
		publisherService: publisherService,
		logger:           appLogger,
	}
}

// SendChat runs the full answer pipeline for one student turn: guardrail,
// session resolution, intent analysis, scoped retrieval, synthesis, then the
// transactional audit trail. Everything after the guardrail degrades rather
// than fails; the only error paths left are persistence ones.
func (s *chatService) SendChat(ctx context.Context, userId uuid.UUID, facultyId, semesterId string, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	// Guardrail refusals still resolve the session so the client keeps a
	// stable session id, but nothing else is persisted.
	if outcome := s.guard.Validate(req.Message); !outcome.OK {
		session, err := s.resolveSession(ctx, userId, facultyId, semesterId, req)
		if err != nil {
			return nil, err
		}
		return &dto.ChatResponse{
			Message:   outcome.Message,
			Source:    systemSourceRef(),
			SessionId: session.Id,
		}, nil
	}

	// Latency is tracked for answered turns only; guardrail refusals are
	// constant-time and would skew the histogram.
	start := time.Now()
	defer func() {
		metrics.AnswerLatency.Observe(time.Since(start).Seconds())
	}()

	session, err := s.resolveSession(ctx, userId, facultyId, semesterId, req)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	history, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: session.Id},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	turns := make([]prompt.Turn, 0, len(history))
	for _, msg := range history {
		turns = append(turns, prompt.Turn{Role: msg.Role, Content: msg.Content})
	}
	recentTurns := turns
	if len(recentTurns) > constant.HistoryWindow {
		recentTurns = recentTurns[len(recentTurns)-constant.HistoryWindow:]
	}
	historyStr := prompt.JoinHistory(recentTurns)

	analysis := s.analyzer.Analyze(ctx, req.Message, historyStr)

	scope := vectorsearch.Scope{
		CollectionName: session.CollectionName,
		FacultyId:      session.FacultyId,
		SemesterId:     session.SemesterId,
		BookId:         session.BookId,
	}

	var passages []vectorsearch.Passage
	var maxScore float64
	if analysis.Intent != constant.IntentOutsideSyllabus && analysis.Intent != constant.IntentGeneral {
		passages, maxScore = s.retriever.Retrieve(ctx, analysis.RewrittenQuery, scope)
	}

	answer := s.synthesizer.Synthesize(ctx, prompt.Input{
		Passages:        passages,
		Question:        req.Message,
		History:         turns,
		LearningSummary: session.LearningSummary,
		Intent:          analysis.Intent,
		Mode:            analysis.Mode,
	}, scope.Key())

	auditLogId, err := s.commitTurn(ctx, userId, session, req.Message, answer, analysis.Intent, maxScore, len(passages) > 0, len(history) == 0)
	if err != nil {
		return nil, err
	}

	s.queueSummaryUpdate(ctx, session, historyStr, req.Message, answer.Answer)

	return &dto.ChatResponse{
		Message:    answer.Answer,
		Source:     dto.SourceReference{Book: answer.Source.Book, Page: answer.Source.Page},
		SessionId:  session.Id,
		AuditLogId: auditLogId,
	}, nil
}

// commitTurn persists the turn's conversational and audit rows in a single
// transaction, titling the session on its first exchange.
func (s *chatService) commitTurn(ctx context.Context, userId uuid.UUID, session *entity.ChatSession, question string, answer synthesis.Result, intentLabel string, maxScore float64, passagesFound, firstTurn bool) (uuid.UUID, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return uuid.Nil, err
	}
	defer uow.Rollback()

	auditLogId, err := s.recorder.Record(ctx, uow, audit.Outcome{
		UserId:        userId,
		Session:       session,
		Question:      question,
		Answer:        answer,
		Intent:        intentLabel,
		MaxScore:      maxScore,
		PassagesFound: passagesFound,
	})
	if err != nil {
		return uuid.Nil, err
	}

	if firstTurn && session.Title == "" {
		title := truncateTitle(question)
		if err := uow.ChatSessionRepository().UpdateTitle(ctx, session.Id, title); err != nil {
			return uuid.Nil, err
		}
		session.Title = title
	}

	if err := uow.Commit(); err != nil {
		return uuid.Nil, err
	}
	return auditLogId, nil
}

// queueSummaryUpdate schedules the background learning-summary fold. The
// queue write is best-effort; a failure only delays the fold to a later turn.
func (s *chatService) queueSummaryUpdate(ctx context.Context, session *entity.ChatSession, historyStr, question, answer string) {
	delta := historyStr
	if delta != "" {
		delta += "\n"
	}
	delta += constant.ChatMessageRoleUser + ": " + question + "\n" + constant.ChatMessageRoleAssistant + ": " + answer

	payload, err := json.Marshal(dto.SummaryUpdateMessage{
		SessionId:       session.Id,
		PreviousSummary: session.LearningSummary,
		TurnDelta:       delta,
	})
	if err != nil {
		return
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.logger.Warn("CHAT", "Failed to queue learning summary update", map[string]interface{}{
			"session_id": session.Id.String(),
			"error":      err.Error(),
		})
	}
}

// resolveSession returns the caller's session, creating a fresh one when no
// id was sent or the id does not resolve to a session this user owns.
func (s *chatService) resolveSession(ctx context.Context, userId uuid.UUID, facultyId, semesterId string, req *dto.ChatRequest) (*entity.ChatSession, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if req.SessionId != nil {
		session, err := uow.ChatSessionRepository().FindOne(ctx,
			specification.ByID{ID: *req.SessionId},
			specification.UserOwnedBy{UserID: userId},
		)
		if err != nil {
			return nil, err
		}
		if session != nil {
			return session, nil
		}
	}

	session := &entity.ChatSession{
		Id:             uuid.New(),
		UserId:         userId,
		CollectionName: req.CollectionName,
		FacultyId:      facultyId,
		SemesterId:     semesterId,
		BookId:         req.BookId,
		CreatedAt:      time.Now(),
	}
	if err := uow.ChatSessionRepository().Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *chatService) GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.ChatSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	sessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ChatSessionResponse, 0, len(sessions))
	for _, session := range sessions {
		res = append(res, &dto.ChatSessionResponse{
			Id:             session.Id,
			Title:          session.Title,
			CollectionName: session.CollectionName,
			CreatedAt:      session.CreatedAt,
		})
	}
	return res, nil
}

func (s *chatService) GetChatHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.ChatMessageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, serverutils.ErrNotFound
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ChatMessageResponse, 0, len(messages))
	for _, msg := range messages {
		res = append(res, &dto.ChatMessageResponse{
			Id:        msg.Id,
			Role:      msg.Role,
			Content:   msg.Content,
			CreatedAt: msg.CreatedAt,
		})
	}
	return res, nil
}

// DeleteSession soft-deletes the session and cascades to its messages. Audit
// rows are retained; the compliance trail outlives the conversation.
func (s *chatService) DeleteSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if session == nil {
		return serverutils.ErrNotFound
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().DeleteByChatSessionId(ctx, sessionId); err != nil {
		return err
	}
	if err := uow.ChatSessionRepository().Delete(ctx, sessionId); err != nil {
		return err
	}
	return uow.Commit()
}

func truncateTitle(question string) string {
	if utf8.RuneCountInString(question) <= sessionTitleMaxLength {
		return question
	}
	runes := []rune(question)
	return string(runes[:sessionTitleMaxLength]) + "..."
}

func systemSourceRef() dto.SourceReference {
	return dto.SourceReference{Book: constant.SourceSystemBook, Page: constant.SourceSystemPage}
}
