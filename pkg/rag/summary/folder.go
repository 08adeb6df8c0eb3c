package summary

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"ai-teacher-be/internal/constant"
	"ai-teacher-be/pkg/llm"
)

// Delta is the payload queued after each answered turn. It carries everything
// the background fold needs so the worker never re-reads conversation state.
type Delta struct {
	SessionId       uuid.UUID `json:"session_id"`
	PreviousSummary string    `json:"previous_summary"`
	TurnDelta       string    `json:"turn_delta"`
}

const foldPrompt = `Update the student's learning state summary.
Focus on: topics understood, topics they struggle with, and overall progress.
Keep it concise and in English for internal use.`

// Folder maintains the per-session learning-state summary.
type Folder struct {
	provider llm.Provider
	model    string
}

func NewFolder(provider llm.Provider, model string) *Folder {
	return &Folder{provider: provider, model: model}
}

// Fold merges the latest turn into the running summary. The fold is
// idempotent over the same inputs, so a repeated delivery converges to the
// same summary.
func (f *Folder) Fold(ctx context.Context, previous, turnDelta string) (string, error) {
	updated, err := f.provider.Chat(ctx, []llm.Message{
		{Role: constant.ChatMessageRoleSystem, Content: foldPrompt},
		{Role: constant.ChatMessageRoleUser, Content: "Current Summary: " + previous + "\n\nRecent History: " + turnDelta},
	}, llm.WithModel(f.model), llm.WithTemperature(0))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(updated), nil
}
