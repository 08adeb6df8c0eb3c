package intent

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"

	"ai-teacher-be/internal/constant"
	"ai-teacher-be/pkg/cache"
	"ai-teacher-be/pkg/llm"
)

type fakeProvider struct {
	response string
	err      error
	calls    int
}

func (f *fakeProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	f.calls++
	return f.response, f.err
}

func newTestAnalyzer(p *fakeProvider) *Analyzer {
	facade := cache.NewFacade(cache.NewMemoryStore())
	return NewAnalyzer(p, facade, "gpt-4o-mini", log.New(io.Discard, "", 0))
}

func TestAnalyze_HappyPath(t *testing.T) {
	p := &fakeProvider{response: `{"intent":"DEFINITION","mode":"UNDERSTANDING","rewritten_query":"definition of neuron"}`}
	a := newTestAnalyzer(p)

	result := a.Analyze(context.Background(), "ما هو العصبون؟", "")

	assert.Equal(t, constant.IntentDefinition, result.Intent)
	assert.Equal(t, constant.ModeUnderstanding, result.Mode)
	assert.Equal(t, "definition of neuron", result.RewrittenQuery)
}

func TestAnalyze_StripsMarkdownFence(t *testing.T) {
	p := &fakeProvider{response: "```json\n{\"intent\":\"EXAM_STYLE\",\"mode\":\"EXAM\",\"rewritten_query\":\"photosynthesis exam question\"}\n```"}
	a := newTestAnalyzer(p)

	result := a.Analyze(context.Background(), "سؤال امتحان عن التمثيل الضوئي", "")

	assert.Equal(t, constant.IntentExamStyle, result.Intent)
	assert.Equal(t, constant.ModeExam, result.Mode)
}

func TestAnalyze_ProviderErrorFallsBack(t *testing.T) {
	p := &fakeProvider{err: errors.New("upstream down")}
	a := newTestAnalyzer(p)

	result := a.Analyze(context.Background(), "اشرح لي الدرس", "")

	assert.Equal(t, FallbackResult("اشرح لي الدرس"), result)
}

func TestAnalyze_UnparseableFallsBack(t *testing.T) {
	p := &fakeProvider{response: "sorry I cannot do that"}
	a := newTestAnalyzer(p)

	result := a.Analyze(context.Background(), "اشرح", "")

	assert.Equal(t, constant.IntentGeneral, result.Intent)
	assert.Equal(t, "اشرح", result.RewrittenQuery)
}

func TestAnalyze_OutOfSetLabelsFallBack(t *testing.T) {
	p := &fakeProvider{response: `{"intent":"CHITCHAT","mode":"UNDERSTANDING","rewritten_query":"x"}`}
	a := newTestAnalyzer(p)

	result := a.Analyze(context.Background(), "مرحبا", "")

	assert.Equal(t, constant.IntentGeneral, result.Intent)
	assert.Equal(t, "مرحبا", result.RewrittenQuery)
}

func TestAnalyze_EmptyRewriteUsesOriginalMessage(t *testing.T) {
	p := &fakeProvider{response: `{"intent":"GENERAL","mode":"UNDERSTANDING","rewritten_query":" "}`}
	a := newTestAnalyzer(p)

	result := a.Analyze(context.Background(), "سؤالي", "")

	assert.Equal(t, "سؤالي", result.RewrittenQuery)
}

func TestAnalyze_SecondCallServedFromCache(t *testing.T) {
	p := &fakeProvider{response: `{"intent":"REVISION","mode":"UNDERSTANDING","rewritten_query":"chapter revision"}`}
	a := newTestAnalyzer(p)

	first := a.Analyze(context.Background(), "راجع معي الفصل", "h")
	second := a.Analyze(context.Background(), "راجع معي الفصل", "h")

	assert.Equal(t, first, second)
	assert.Equal(t, 1, p.calls)
}

func TestAnalyze_FallbackIsNotCached(t *testing.T) {
	p := &fakeProvider{err: errors.New("temporary outage")}
	a := newTestAnalyzer(p)

	a.Analyze(context.Background(), "سؤال", "")

	// Once the provider recovers the real classification must win.
	p.err = nil
	p.response = `{"intent":"EXAMPLE","mode":"UNDERSTANDING","rewritten_query":"worked example"}`
	result := a.Analyze(context.Background(), "سؤال", "")

	assert.Equal(t, constant.IntentExample, result.Intent)
	assert.Equal(t, 2, p.calls)
}
