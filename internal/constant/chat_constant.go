package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
	ChatMessageRoleSystem    = "system"
)

// Student intents resolved by the analysis stage.
const (
	IntentDefinition      = "DEFINITION"
	IntentExample         = "EXAMPLE"
	IntentExamStyle       = "EXAM_STYLE"
	IntentRevision        = "REVISION"
	IntentConfused        = "CONFUSED"
	IntentOutsideSyllabus = "OUTSIDE_SYLLABUS"
	IntentGeneral         = "GENERAL"
)

// Teaching modes shaping answer emphasis.
const (
	ModeUnderstanding      = "UNDERSTANDING"
	ModeExam               = "EXAM"
	ModeQuestionPrediction = "QUESTION_PREDICTION"
)

// Turn classifications recorded on the audit trail.
const (
	TurnPass          = "PASS"
	TurnFail          = "FAIL"
	TurnHallucination = "HALLUCINATION"
)

// Pipeline tunables.
const (
	MaxQuestionLength        = 500
	SimilarityThreshold      = 0.70
	RetrievalTopK            = 5
	RetrievalMaxAttempts     = 2
	HistoryWindow            = 3
	MinCacheableAnswerLength = 80
	MinPlausibleAnswerLength = 20
)

// Fixed student-facing messages. The Arabic wording is part of the product
// contract and must not be reworded without curriculum-team sign-off.
const (
	MsgEmptyQuestion = "من فضلك اكتب سؤالك حتى أستطيع مساعدتك."

	MsgQuestionTooLong = "سؤالك طويل جداً. الحد الأقصى هو 500 حرف، حاول اختصار السؤال."

	MsgCheatingRedirect = "لا أستطيع حل الامتحان بدلاً منك، لكن يمكنني شرح أي مفهوم تجده صعباً. ما الموضوع الذي تريد فهمه؟"

	MsgOutsideSyllabus = "عذراً، هذا الموضوع غير مغطى في الكتاب المقرر. أنا هنا لمساعدتك في محتوى المنهج فقط."

	MsgHallucinationRefusal = "عذراً، لا أستطيع تأكيد هذه الإجابة من المحتوى المقرر، فهي خارج نطاق المحتوى المقرر الحالي."

	MsgInternalError = "عذراً، حدث خطأ في معالجة طلبك. يرجى المحاولة مرة أخرى لاحقاً."
)

// Answer-shortcut phrases rejected by the guardrail before any pipeline work.
var CheatingPhrases = []string{
	"حل الامتحان كامل",
	"حل الامتحان كاملاً",
	"اعطني اجابات الامتحان",
	"جاوب على كل اسئلة الامتحان",
	"solve the entire exam",
	"solve the whole exam for me",
	"give me all the exam answers",
}

const (
	// SourceSystemBook is the source label used when an answer does not come
	// from retrieved curriculum passages (refusals, degraded answers).
	SourceSystemBook = "System"
	SourceSystemPage = "N/A"
)
