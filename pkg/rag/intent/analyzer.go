package intent

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"ai-teacher-be/internal/constant"
	"ai-teacher-be/pkg/cache"
	"ai-teacher-be/pkg/llm"
)

// Result is the intent-analysis output for one student turn.
type Result struct {
	Intent         string `json:"intent"`
	Mode           string `json:"mode"`
	RewrittenQuery string `json:"rewritten_query"`
}

const systemPrompt = `Analyze the student message and history.
Identify intent: DEFINITION, EXAMPLE, EXAM_STYLE, REVISION, CONFUSED, OUTSIDE_SYLLABUS, or GENERAL.
Identify mode: UNDERSTANDING, EXAM, or QUESTION_PREDICTION.
Rewrite the query to be optimized for vector search in academic material.

Output JSON:
{
  "intent": "...",
  "mode": "...",
  "rewritten_query": "..."
}`

var validIntents = map[string]bool{
	constant.IntentDefinition:      true,
	constant.IntentExample:         true,
	constant.IntentExamStyle:       true,
	constant.IntentRevision:        true,
	constant.IntentConfused:        true,
	constant.IntentOutsideSyllabus: true,
	constant.IntentGeneral:         true,
}

var validModes = map[string]bool{
	constant.ModeUnderstanding:      true,
	constant.ModeExam:               true,
	constant.ModeQuestionPrediction: true,
}

// FallbackResult is returned whenever analysis cannot produce a usable
// classification. It routes the raw question through the default path.
func FallbackResult(message string) Result {
	return Result{
		Intent:         constant.IntentGeneral,
		Mode:           constant.ModeUnderstanding,
		RewrittenQuery: message,
	}
}

// Analyzer classifies student turns and rewrites the question into a
// retrieval-friendly query.
type Analyzer struct {
	provider llm.Provider
	cache    *cache.Facade
	model    string
	logger   *log.Logger
}

func NewAnalyzer(provider llm.Provider, cacheFacade *cache.Facade, model string, logger *log.Logger) *Analyzer {
	return &Analyzer{
		provider: provider,
		cache:    cacheFacade,
		model:    model,
		logger:   logger,
	}
}

// Analyze resolves intent, mode and rewritten query for the message given the
// recent conversation history. Failures never propagate; the fallback result
// keeps the pipeline moving and is deliberately not cached.
func (a *Analyzer) Analyze(ctx context.Context, message, history string) Result {
	var cached Result
	if a.cache.GetIntent(ctx, message, history, &cached) {
		return cached
	}

	response, err := a.provider.Chat(ctx, []llm.Message{
		{Role: constant.ChatMessageRoleSystem, Content: systemPrompt},
		{Role: constant.ChatMessageRoleUser, Content: "History: " + history + "\n\nStudent Message: " + message},
	}, llm.WithModel(a.model), llm.WithTemperature(0), llm.WithJSONMode())
	if err != nil {
		a.logger.Printf("Intent analysis call failed, using fallback: %v", err)
		return FallbackResult(message)
	}

	var result Result
	if err := json.Unmarshal([]byte(stripJSONFence(response)), &result); err != nil {
		a.logger.Printf("Intent analysis returned unparseable output, using fallback: %v", err)
		return FallbackResult(message)
	}

	if !validIntents[result.Intent] || !validModes[result.Mode] {
		a.logger.Printf("Intent analysis returned out-of-set labels (%q/%q), using fallback", result.Intent, result.Mode)
		return FallbackResult(message)
	}
	if strings.TrimSpace(result.RewrittenQuery) == "" {
		result.RewrittenQuery = message
	}

	a.cache.SetIntent(ctx, message, history, result)
	return result
}

// stripJSONFence removes a markdown code fence the model sometimes wraps
// around its JSON output.
func stripJSONFence(s string) string {
	if idx := strings.Index(s, "```json"); idx >= 0 {
		s = s[idx+len("```json"):]
		if end := strings.Index(s, "```"); end >= 0 {
			s = s[:end]
		}
	}
	return strings.TrimSpace(s)
}
