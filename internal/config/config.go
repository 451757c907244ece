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
	Keys     APIKeys
	Ai       AIConfig
	Rag      RagConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	JWTSecret          string
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	GoogleGemini string
}

type AIConfig struct {
	EmbeddingProvider  string // "gemini" or "ollama"
	EmbeddingModel     string
	EmbeddingDim       int
	OllamaBaseURL      string
	LLMProvider        string // "ollama" or "gemini"
	LLMModel           string // e.g. "mistral", "gemini-2.0-flash"
	Temperature        float64
	TopP               float64
	MaxTokens          int
	SummaryTemperature float64
	SummaryMaxTokens   int
}

type RagConfig struct {
	TopK              int
	ContextSliceChars int
	SummaryTopicName  string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "4000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "veritus.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			JWTSecret:          getEnv("JWT_SECRET", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider:  getEnv("EMBEDDING_PROVIDER", "ollama"),
			EmbeddingModel:     getEnv("EMBEDDING_MODEL", "nomic-embed-text"),
			EmbeddingDim:       getEnvAsInt("EMBEDDING_DIM", 1024),
			OllamaBaseURL:      getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			LLMProvider:        getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:           getEnv("LLM_MODEL", "mistral"),
			Temperature:        getEnvAsFloat("LLM_TEMPERATURE", 0.2),
			TopP:               getEnvAsFloat("LLM_TOP_P", 0.9),
			MaxTokens:          getEnvAsInt("LLM_MAX_TOKENS", 1500),
			SummaryTemperature: getEnvAsFloat("SUMMARY_TEMPERATURE", 0.3),
			SummaryMaxTokens:   getEnvAsInt("SUMMARY_MAX_TOKENS", 800),
		},
		Rag: RagConfig{
			TopK:              getEnvAsInt("RAG_TOP_K", 8),
			ContextSliceChars: getEnvAsInt("RAG_CONTEXT_SLICE_CHARS", 450),
			SummaryTopicName:  getEnv("SUMMARY_UPDATED_TOPIC_NAME", "chat.summary.updated"),
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
