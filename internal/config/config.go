package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Ai       AIConfig
	Pipeline PipelineConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	AuditLogFilePath   string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	SummaryTopic       string
}

type DatabaseConfig struct {
	Connection string
}

type AIConfig struct {
	OpenAIAPIKey  string
	OpenAIBaseURL string // empty = api.openai.com
	ChatModel     string
	UtilityModel  string // intent analysis, groundedness, summary folds
	RagSearchURL  string
}

type PipelineConfig struct {
	MaxQuestionLength   int
	SimilarityThreshold float64
	RetrievalTopK       int
	RatePerMinute       int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			AuditLogFilePath:   getEnv("AUDIT_LOG_FILE_PATH", "logs/audit.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			SummaryTopic:       getEnv("LEARNING_SUMMARY_TOPIC_NAME", "UPDATE_LEARNING_SUMMARY"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
			OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
			ChatModel:     getEnv("LLM_CHAT_MODEL", "gpt-4o"),
			UtilityModel:  getEnv("LLM_UTILITY_MODEL", "gpt-4o-mini"),
			RagSearchURL:  getEnv("RAG_SERVICE_URL", "http://localhost:8001"),
		},
		Pipeline: PipelineConfig{
			MaxQuestionLength:   getEnvAsInt("MAX_QUESTION_LENGTH", 500),
			SimilarityThreshold: getEnvAsFloat("SIMILARITY_THRESHOLD", 0.70),
			RetrievalTopK:       getEnvAsInt("RETRIEVAL_TOP_K", 5),
			RatePerMinute:       getEnvAsInt("CHAT_RATE_PER_MINUTE", 20),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
