package service

import (
	"context"
	"encoding/json"
	"log"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"ai-teacher-be/internal/dto"
	"ai-teacher-be/internal/repository/unitofwork"
	"ai-teacher-be/pkg/rag/summary"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// summaryConsumerService drains the learning-summary queue. Delivery is
// at-most-once: every message is Acked regardless of outcome, and a failed
// fold is simply retried from the same base summary on the next turn.
type summaryConsumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	folder     *summary.Folder
}

func NewSummaryConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	folder *summary.Folder,
) IConsumerService {
	return &summaryConsumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
		folder:     folder,
	}
}

func (cs *summaryConsumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *summaryConsumerService) processMessage(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	var payload dto.SummaryUpdateMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal summary update message: %v", err)
		return
	}

	updated, err := cs.folder.Fold(ctx, payload.PreviousSummary, payload.TurnDelta)
	if err != nil {
		log.Printf("[ERROR] Learning summary fold failed for session %s: %v", payload.SessionId, err)
		return
	}
	if updated == "" {
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ChatSessionRepository().UpdateLearningSummary(ctx, payload.SessionId, updated); err != nil {
		log.Printf("[ERROR] Failed to persist learning summary for session %s: %v", payload.SessionId, err)
	}
}
