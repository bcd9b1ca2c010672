package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	OllamaURL        string // "http://localhost:11434"
	OllamaEmbedModel string
	OllamaLLMModel   string
	OCRURL           string // "http://localhost:8884"

	Port        string
	Environment string

	ChunkSize    int
	ChunkOverlap int
	TopK         int
	MaxTopics    int

	StorageBackend  string // "memory" or "mongodb"
	MongoURI        string
	MongoDatabase   string
	MongoCollection string
}

func Load() *Config {
	// optional .env for local development
	_ = godotenv.Load()

	getEnv := func(key, defaultValue string) string {
		if value := os.Getenv(key); value != "" {
			return value
		}
		return defaultValue
	}

	getEnvInt := func(key string, defaultValue int) int {
		valueStr := os.Getenv(key)
		if valueStr == "" {
			return defaultValue
		}
		value, err := strconv.Atoi(valueStr)
		if err != nil {
			return defaultValue
		}
		return value
	}

	return &Config{
		// Ollama
		OllamaURL:        getEnv("OLLAMA_URL", "http://localhost:11434"),
		OllamaEmbedModel: getEnv("OLLAMA_EMBEDDING_MODEL", "simple"),
		OllamaLLMModel:   getEnv("OLLAMA_LLM_MODEL", "llama3.2:3b"),

		// OCR sidecar for pdf/image extraction
		OCRURL: getEnv("OCR_URL", "http://localhost:8884"),

		// Application settings
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		// Ingestion pipeline
		ChunkSize:    getEnvInt("CHUNK_SIZE", 1000),
		ChunkOverlap: getEnvInt("CHUNK_OVERLAP", 200),
		TopK:         getEnvInt("TOP_K", 3),
		MaxTopics:    getEnvInt("MAX_TOPICS", 5),

		// Index backend
		StorageBackend:  getEnv("STORAGE_BACKEND", "memory"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:   getEnv("MONGO_DATABASE", "studybuddy_db"),
		MongoCollection: getEnv("MONGO_COLLECTION", "note_chunks"),
	}
}
