package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-teacher-be/internal/dto"
	"ai-teacher-be/internal/entity"
	"ai-teacher-be/pkg/rag/summary"
)

func TestSummaryConsumer_FoldsAndPersists(t *testing.T) {
	uow := &memUow{
		sessions: newMemSessionRepo(),
		messages: &memMessageRepo{},
		audits:   &memAuditRepo{},
	}
	session := &entity.ChatSession{Id: uuid.New(), UserId: uuid.New(), LearningSummary: "old summary"}
	require.NoError(t, uow.sessions.Create(context.Background(), session))

	provider := &scriptedProvider{responses: []string{"Understands neurons; struggles with synapses."}}
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	topic := "UPDATE_LEARNING_SUMMARY"

	consumer := NewSummaryConsumerService(pubSub, topic, &memFactory{uow: uow}, summary.NewFolder(provider, "gpt-4o-mini"))
	require.NoError(t, consumer.Consume(context.Background()))

	payload, _ := json.Marshal(dto.SummaryUpdateMessage{
		SessionId:       session.Id,
		PreviousSummary: "old summary",
		TurnDelta:       "user: q\nassistant: a",
	})
	publisher := NewPublisherService(pubSub, topic)
	require.NoError(t, publisher.Publish(context.Background(), payload))

	assert.Eventually(t, func() bool {
		return uow.sessions.sessions[session.Id].LearningSummary == "Understands neurons; struggles with synapses."
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSummaryConsumer_MalformedMessageIsDropped(t *testing.T) {
	uow := &memUow{
		sessions: newMemSessionRepo(),
		messages: &memMessageRepo{},
		audits:   &memAuditRepo{},
	}
	session := &entity.ChatSession{Id: uuid.New(), UserId: uuid.New(), LearningSummary: "unchanged"}
	require.NoError(t, uow.sessions.Create(context.Background(), session))

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	topic := "UPDATE_LEARNING_SUMMARY"

	consumer := NewSummaryConsumerService(pubSub, topic, &memFactory{uow: uow}, summary.NewFolder(&scriptedProvider{}, "gpt-4o-mini"))
	require.NoError(t, consumer.Consume(context.Background()))

	publisher := NewPublisherService(pubSub, topic)
	require.NoError(t, publisher.Publish(context.Background(), []byte("not json")))

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, "unchanged", uow.sessions.sessions[session.Id].LearningSummary)
}

func TestSummaryConsumer_FoldFailureLeavesSummaryUntouched(t *testing.T) {
	uow := &memUow{
		sessions: newMemSessionRepo(),
		messages: &memMessageRepo{},
		audits:   &memAuditRepo{},
	}
	session := &entity.ChatSession{Id: uuid.New(), UserId: uuid.New(), LearningSummary: "base"}
	require.NoError(t, uow.sessions.Create(context.Background(), session))

	// Empty response queue makes the provider error on every call.
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	topic := "UPDATE_LEARNING_SUMMARY"

	consumer := NewSummaryConsumerService(pubSub, topic, &memFactory{uow: uow}, summary.NewFolder(&scriptedProvider{}, "gpt-4o-mini"))
	require.NoError(t, consumer.Consume(context.Background()))

	payload, _ := json.Marshal(dto.SummaryUpdateMessage{SessionId: session.Id, PreviousSummary: "base", TurnDelta: "d"})
	require.NoError(t, NewPublisherService(pubSub, topic).Publish(context.Background(), payload))

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, "base", uow.sessions.sessions[session.Id].LearningSummary)
}
