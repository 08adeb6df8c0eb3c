package synthesis

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"unicode/utf8"

	"ai-teacher-be/internal/constant"
	"ai-teacher-be/pkg/cache"
	"ai-teacher-be/pkg/llm"
	"ai-teacher-be/pkg/rag/prompt"
	"ai-teacher-be/pkg/vectorsearch"
)

// SourceRef is the attribution attached to every answer. Page stays loosely
// typed because upstream passages carry string-or-number pages.
type SourceRef struct {
	Book string      `json:"book"`
	Page interface{} `json:"page"`
}

// Result is the synthesized answer for one turn.
type Result struct {
	Answer        string    `json:"answer"`
	Source        SourceRef `json:"source"`
	Hallucination bool      `json:"-"`
	CacheHit      bool      `json:"-"`
}

func systemSource() SourceRef {
	return SourceRef{Book: constant.SourceSystemBook, Page: constant.SourceSystemPage}
}

const groundednessPrompt = `You are a strict fact checker for academic content.
Given a CONTEXT and an ANSWER, decide whether every factual claim in the
ANSWER is supported by the CONTEXT. Reply with exactly one word:
GROUNDED or NOT_GROUNDED.`

// Synthesizer turns retrieved passages plus conversational context into a
// validated, source-attributed answer.
type Synthesizer struct {
	provider llm.Provider
	cache    *cache.Facade
	model    string
	logger   *log.Logger
}

func NewSynthesizer(provider llm.Provider, cacheFacade *cache.Facade, model string, logger *log.Logger) *Synthesizer {
	return &Synthesizer{
		provider: provider,
		cache:    cacheFacade,
		model:    model,
		logger:   logger,
	}
}

// Synthesize produces the answer for one turn. Every failure mode maps to a
// fixed student-facing message; the method itself never returns an error.
func (s *Synthesizer) Synthesize(ctx context.Context, in prompt.Input, scopeKey string) Result {
	if len(in.Passages) == 0 && in.Intent != constant.IntentGeneral {
		return Result{Answer: constant.MsgOutsideSyllabus, Source: systemSource()}
	}

	// Cache hits skip generation and re-validation. Only fresh generations
	// go through the groundedness judge.
	var cached Result
	if s.cache.GetAnswer(ctx, in.Question, scopeKey, &cached) {
		cached.CacheHit = true
		return cached
	}

	raw, err := s.provider.Chat(ctx, prompt.Build(in),
		llm.WithModel(s.model), llm.WithTemperature(0), llm.WithJSONMode())
	if err != nil {
		s.logger.Printf("Answer generation failed: %v", err)
		return Result{Answer: constant.MsgInternalError, Source: systemSource()}
	}

	result, ok := s.parse(raw, in.Passages)
	if !ok {
		return Result{Answer: constant.MsgInternalError, Source: systemSource()}
	}

	if len(in.Passages) > 0 && !s.grounded(ctx, result.Answer, in.Passages) {
		s.logger.Printf("Groundedness check rejected generated answer, refusing")
		return Result{
			Answer:        constant.MsgHallucinationRefusal,
			Source:        systemSource(),
			Hallucination: true,
		}
	}

	if utf8.RuneCountInString(result.Answer) >= constant.MinCacheableAnswerLength {
		s.cache.SetAnswer(ctx, in.Question, scopeKey, result)
	}
	return result
}

func (s *Synthesizer) parse(raw string, passages []vectorsearch.Passage) (Result, bool) {
	var result Result
	if err := json.Unmarshal([]byte(stripJSONFence(raw)), &result); err != nil {
		s.logger.Printf("Answer response is not valid JSON: %v", err)
		return Result{}, false
	}
	if strings.TrimSpace(result.Answer) == "" {
		s.logger.Printf("Answer response parsed but carries no answer text")
		return Result{}, false
	}
	if strings.TrimSpace(result.Source.Book) == "" {
		if len(passages) > 0 {
			result.Source = SourceRef{Book: passages[0].Source, Page: passages[0].Page}
		} else {
			result.Source = systemSource()
		}
	}
	return result, true
}

// grounded runs the binary judgment call. A judge failure counts as grounded
// so an unavailable judge degrades to normal answering instead of refusing
// every turn.
func (s *Synthesizer) grounded(ctx context.Context, answer string, passages []vectorsearch.Passage) bool {
	contextText := make([]string, 0, len(passages))
	for _, p := range passages {
		contextText = append(contextText, p.Text)
	}

	verdict, err := s.provider.Chat(ctx, []llm.Message{
		{Role: constant.ChatMessageRoleSystem, Content: groundednessPrompt},
		{Role: constant.ChatMessageRoleUser, Content: "CONTEXT:\n" + strings.Join(contextText, "\n\n") + "\n\nANSWER:\n" + answer},
	}, llm.WithModel(s.model), llm.WithTemperature(0))
	if err != nil {
		s.logger.Printf("Groundedness check unavailable, accepting answer: %v", err)
		return true
	}

	return !strings.Contains(strings.ToUpper(verdict), "NOT_GROUNDED")
}

func stripJSONFence(s string) string {
	if idx := strings.Index(s, "```json"); idx >= 0 {
		s = s[idx+len("```json"):]
		if end := strings.Index(s, "```"); end >= 0 {
			s = s[:end]
		}
	}
	return strings.TrimSpace(s)
}
