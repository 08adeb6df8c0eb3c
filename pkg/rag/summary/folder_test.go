package summary

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"ai-teacher-be/pkg/llm"
)

type fakeProvider struct {
	lastMessages []llm.Message
	response     string
	err          error
}

func (f *fakeProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	f.lastMessages = history
	return f.response, f.err
}

func TestFold_MergesDeltaIntoSummary(t *testing.T) {
	p := &fakeProvider{response: "  Understands recursion; struggles with pointers.  "}
	f := NewFolder(p, "gpt-4o-mini")

	updated, err := f.Fold(context.Background(), "Understands recursion.", "user: what are pointers?\nassistant: ...")

	assert.NoError(t, err)
	assert.Equal(t, "Understands recursion; struggles with pointers.", updated)
	assert.Contains(t, p.lastMessages[1].Content, "Current Summary: Understands recursion.")
	assert.Contains(t, p.lastMessages[1].Content, "what are pointers?")
}

func TestFold_PropagatesProviderError(t *testing.T) {
	p := &fakeProvider{err: errors.New("rate limited")}
	f := NewFolder(p, "gpt-4o-mini")

	_, err := f.Fold(context.Background(), "prev", "delta")

	assert.Error(t, err)
}
