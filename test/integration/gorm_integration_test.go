package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"

	"ai-teacher-be/internal/constant"
	"ai-teacher-be/internal/entity"
	"ai-teacher-be/internal/repository/specification"
	"ai-teacher-be/internal/repository/unitofwork"
	"ai-teacher-be/pkg/database"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}
	if err := database.AutoMigrate(gormDB); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.ChatSessionRepository())
	assert.NotNil(t, uow.ChatMessageRepository())
	assert.NotNil(t, uow.AnswerAuditLogRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	t.Run("Check Audit Log Repository", func(t *testing.T) {
		count, err := uow.AnswerAuditLogRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("AnswerAuditLog count: %d", count)
	})

	t.Run("Transactional Turn Write", func(t *testing.T) {
		ctx := context.Background()
		userId := uuid.New()

		session := &entity.ChatSession{
			Id:             uuid.New(),
			UserId:         userId,
			CollectionName: "integration_test",
			FacultyId:      "integration-faculty",
			SemesterId:     "integration-semester",
		}
		err := uow.ChatSessionRepository().Create(ctx, session)
		assert.NoError(t, err)

		err = uow.Begin(ctx)
		assert.NoError(t, err)
		defer uow.Rollback()

		userMsg := &entity.ChatMessage{
			ChatSessionId: session.Id,
			Role:          constant.ChatMessageRoleUser,
			Content:       "integration question",
		}
		assert.NoError(t, uow.ChatMessageRepository().Create(ctx, userMsg))

		assistantMsg := &entity.ChatMessage{
			ChatSessionId: session.Id,
			Role:          constant.ChatMessageRoleAssistant,
			Content:       "integration answer",
		}
		assert.NoError(t, uow.ChatMessageRepository().Create(ctx, assistantMsg))

		auditRow := &entity.AnswerAuditLog{
			UserId:             userId,
			SessionId:          session.Id,
			QuestionText:       "integration question",
			AiAnswer:           "integration answer",
			SourceReference:    `{"book":"integration.pdf","page":1}`,
			RagConfidenceScore: 0.91,
			CustomTags:         []string{constant.TurnPass},
		}
		assert.NoError(t, uow.AnswerAuditLogRepository().Create(ctx, auditRow))

		assert.NoError(t, uow.Commit())

		// Read back through a fresh unit of work.
		fresh := uowFactory.NewUnitOfWork(ctx)
		messages, err := fresh.ChatMessageRepository().FindAll(ctx,
			specification.ByChatSessionID{ChatSessionID: session.Id},
		)
		assert.NoError(t, err)
		assert.Len(t, messages, 2)

		row, err := fresh.AnswerAuditLogRepository().FindOne(ctx, specification.ByID{ID: auditRow.Id})
		assert.NoError(t, err)
		if assert.NotNil(t, row) {
			assert.Equal(t, []string{constant.TurnPass}, row.CustomTags)
		}

		// Cleanup
		assert.NoError(t, fresh.ChatMessageRepository().DeleteByChatSessionId(ctx, session.Id))
		assert.NoError(t, fresh.ChatSessionRepository().Delete(ctx, session.Id))
	})
}
