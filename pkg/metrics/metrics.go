package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// AI Teacher performance metrics.
var (
	AnswersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ai_teacher_answers_total",
		Help: "Total number of AI-generated answers",
	}, []string{"faculty_id", "status"})

	HallucinationsBlockedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ai_teacher_hallucinations_blocked_total",
		Help: "Total number of hallucinations blocked by guardrails",
	})

	SimilarityScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ai_teacher_rag_similarity_score",
		Help:    "RAG similarity scores for retrieved chunks",
		Buckets: []float64{0.5, 0.6, 0.7, 0.75, 0.8, 0.85, 0.9, 0.95, 1.0},
	})

	VerifiedAnswersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ai_teacher_verified_answers_total",
		Help: "Total number of answers verified by teachers",
	}, []string{"is_verified"})

	StudentFeedbackTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ai_teacher_student_feedback_total",
		Help: "Total student feedback on AI answers",
	}, []string{"is_correct"})

	AnswerLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ai_teacher_answer_latency_seconds",
		Help:    "Time taken to generate an AI answer",
		Buckets: []float64{0.5, 1.0, 2.0, 5.0, 10.0, 20.0, 30.0, 60.0},
	})
)
