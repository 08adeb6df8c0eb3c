package prompt

import (
	"fmt"
	"strings"

	"ai-teacher-be/internal/constant"
	"ai-teacher-be/pkg/llm"
	"ai-teacher-be/pkg/vectorsearch"
)

// Turn is one prior exchange message included as conversational context.
type Turn struct {
	Role    string
	Content string
}

// Input carries everything the answer prompt is built from.
type Input struct {
	Passages        []vectorsearch.Passage
	Question        string
	History         []Turn
	LearningSummary string
	Intent          string
	Mode            string
}

const teacherSystemTemplate = `أنت مدرس جامعي ذكي.
تحدث بلغة عربية فصحى ورسمية.
أجب فقط باستخدام المحتوى المرفق أدناه.
لا تضف أي معلومة من خارج المحتوى.

يجب أن تتكون إجابتك من أربعة أقسام بهذا الترتيب:
1. التعريف
2. الشرح
3. مثال
4. ملخص

اذكر داخل الإجابة المصدر والصفحة التي اعتمدت عليها.
%s
%s
أعد الناتج بصيغة JSON فقط:
{
  "answer": "...",
  "source": {"book": "...", "page": "..."}
}`

func modeEmphasis(mode string) string {
	switch mode {
	case constant.ModeExam:
		return "ركز على صياغة الإجابة كما تصاغ في الامتحانات، مع نقاط واضحة قابلة للاستذكار."
	case constant.ModeQuestionPrediction:
		return "ركز على الأسئلة المحتملة في الامتحان حول هذا الموضوع وكيفية الإجابة عنها."
	default:
		return "ركز على الفهم العميق للمفهوم وتبسيطه خطوة بخطوة."
	}
}

func summarySection(summary string) string {
	if strings.TrimSpace(summary) == "" {
		return ""
	}
	return "حالة تعلم الطالب حتى الآن (للاسترشاد الداخلي فقط):\n" + summary + "\n"
}

// Build assembles the role-tagged message list for answer synthesis: the
// system instruction, up to the last few history turns, then the question
// together with the retrieved passages.
func Build(in Input) []llm.Message {
	messages := make([]llm.Message, 0, constant.HistoryWindow+2)
	messages = append(messages, llm.Message{
		Role:    constant.ChatMessageRoleSystem,
		Content: fmt.Sprintf(teacherSystemTemplate, modeEmphasis(in.Mode), summarySection(in.LearningSummary)),
	})

	history := in.History
	if len(history) > constant.HistoryWindow {
		history = history[len(history)-constant.HistoryWindow:]
	}
	for _, turn := range history {
		messages = append(messages, llm.Message{Role: turn.Role, Content: turn.Content})
	}

	messages = append(messages, llm.Message{
		Role:    constant.ChatMessageRoleUser,
		Content: fmt.Sprintf("المحتوى:\n%s\n\nالسؤال:\n%s", FormatPassages(in.Passages), in.Question),
	})
	return messages
}

// FormatPassages renders retrieved passages with their source attribution,
// separated so the model can cite them individually.
func FormatPassages(passages []vectorsearch.Passage) string {
	if len(passages) == 0 {
		return "لا يوجد محتوى."
	}
	parts := make([]string, 0, len(passages))
	for _, p := range passages {
		parts = append(parts, fmt.Sprintf("[المصدر: %s | الصفحة: %v]\n%s", p.Source, p.Page, p.Text))
	}
	return strings.Join(parts, "\n\n---\n\n")
}

// JoinHistory renders turns in the "role: content" form used for the intent
// stage and summary folding.
func JoinHistory(history []Turn) string {
	if len(history) == 0 {
		return ""
	}
	lines := make([]string, 0, len(history))
	for _, turn := range history {
		lines = append(lines, turn.Role+": "+turn.Content)
	}
	return strings.Join(lines, "\n")
}
