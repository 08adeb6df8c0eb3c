package guardrail

import (
	"log"
	"strings"
	"unicode/utf8"

	"ai-teacher-be/internal/constant"
)

// Outcome is the guardrail verdict for an incoming question.
// When OK is false, Message holds the fixed refusal to return verbatim.
type Outcome struct {
	OK      bool
	Message string
}

// Validator screens raw student input before any model or retrieval work.
type Validator struct {
	maxLength int
	logger    *log.Logger
}

func NewValidator(maxLength int, logger *log.Logger) *Validator {
	if maxLength <= 0 {
		maxLength = constant.MaxQuestionLength
	}
	return &Validator{maxLength: maxLength, logger: logger}
}

// Validate applies the input checks in order: empty, over-length, then
// exam-shortcut phrases. The first failing check decides the outcome.
func (v *Validator) Validate(question string) Outcome {
	trimmed := strings.TrimSpace(question)
	if trimmed == "" {
		return Outcome{OK: false, Message: constant.MsgEmptyQuestion}
	}

	if utf8.RuneCountInString(trimmed) > v.maxLength {
		v.logger.Printf("Guardrail: rejected over-length question (%d runes)", utf8.RuneCountInString(trimmed))
		return Outcome{OK: false, Message: constant.MsgQuestionTooLong}
	}

	lowered := strings.ToLower(trimmed)
	for _, phrase := range constant.CheatingPhrases {
		if strings.Contains(lowered, strings.ToLower(phrase)) {
			v.logger.Printf("Guardrail: rejected exam-shortcut request")
			return Outcome{OK: false, Message: constant.MsgCheatingRedirect}
		}
	}

	return Outcome{OK: true}
}
