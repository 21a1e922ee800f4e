package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the server needs, read once at startup.
type Config struct {
	ServerAddress   string
	ShutdownTimeout time.Duration

	// Question set
	QuestionsPath  string // .xlsx workbook with the question sheet
	QuestionsSheet string
	MaxQuestions   int // quiz ends after this many counted answers

	// Answer grading
	GraderBaseURL     string // OpenAI-compatible endpoint, e.g. "https://api.openai.com"
	GraderAPIKey      string
	GraderModel       string
	GraderTemperature float64
	GraderTimeout     time.Duration

	// Activity log sinks
	LogDir    string
	LogSinks  []string // "file", "sqlite"
	LogDBPath string

	// Session store (redis is used when RedisAddr is set)
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SessionTTL    time.Duration
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()
	return &Config{
		ServerAddress:   mustGetenv("SERVER_ADDRESS"),
		ShutdownTimeout: mustGetDuration("SHUTDOWN_TIMEOUT"),

		QuestionsPath:  getenvDefault("QUESTIONS_PATH", "kaigai_latest.xlsx"),
		QuestionsSheet: getenvDefault("QUESTIONS_SHEET", "sheet1"),
		MaxQuestions:   getenvInt("QUIZ_MAX_QUESTIONS", 20),

		GraderBaseURL:     getenvDefault("OPENAI_BASE_URL", "https://api.openai.com"),
		GraderAPIKey:      os.Getenv("OPENAI_API_KEY"),
		GraderModel:       getenvDefault("OPENAI_MODEL", "gpt-4"),
		GraderTemperature: getenvFloat("GRADER_TEMPERATURE", 0.4),
		GraderTimeout:     getenvDuration("GRADER_TIMEOUT", 60*time.Second),

		LogDir:    getenvDefault("LOG_DIR", "logs"),
		LogSinks:  splitList(getenvDefault("LOG_SINKS", "file")),
		LogDBPath: getenvDefault("LOG_DB_PATH", "quizlog.db"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getenvInt("REDIS_DB", 0),
		SessionTTL:    getenvDuration("SESSION_TTL", 30*time.Minute),
	}
}

func mustGetenv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("config: required environment variable %s is not set", k)
	}
	return v
}

func mustGetDuration(k string) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("config: required environment variable %s is not set", k)
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid duration: %v", k, v, err)
	}
	return d
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}

func getenvInt(k string, fallback int) int {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid integer: %v", k, v, err)
	}
	return n
}

func getenvFloat(k string, fallback float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid number: %v", k, v, err)
	}
	return f
}

func getenvDuration(k string, fallback time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid duration: %v", k, v, err)
	}
	return d
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
