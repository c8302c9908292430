package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv            string
	AppName           string
	AppPort           string
	ProfilesPath      string
	GeminiAPIKey      string
	GeminiModel       string
	GeminiBaseURL     string
	AIMaxOutputTokens int
	AITimeoutSeconds  int
	SessionMaxTurns   int
	SessionMaxUsers   int
	UseMockModel      bool
}

func Load() Config {
	_ = godotenv.Load(".env")

	return Config{
		AppEnv:            getEnv("APP_ENV", "local"),
		AppName:           getEnv("APP_NAME", "Digital Parbhani Chat API"),
		AppPort:           getEnv("APP_PORT", "8000"),
		ProfilesPath:      getEnv("PROFILES_PATH", "profiles.txt"),
		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		GeminiModel:       getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiBaseURL:     getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		AIMaxOutputTokens: getEnvInt("AI_MAX_OUTPUT_TOKENS", 1024),
		AITimeoutSeconds:  getEnvInt("AI_TIMEOUT_SECONDS", 30),
		SessionMaxTurns:   getEnvInt("SESSION_MAX_TURNS", 10),
		SessionMaxUsers:   getEnvInt("SESSION_MAX_USERS", 10000),
		UseMockModel:      getEnvBool("USE_MOCK_MODEL", false),
	}
}

func (c Config) Validate() error {
	if c.SessionMaxTurns <= 0 {
		return errors.New("SESSION_MAX_TURNS must be positive")
	}
	if c.SessionMaxUsers <= 0 {
		return errors.New("SESSION_MAX_USERS must be positive")
	}
	if c.UseMockModel {
		return nil
	}
	if strings.TrimSpace(c.GeminiAPIKey) == "" {
		return errors.New("GEMINI_API_KEY is required")
	}
	if strings.TrimSpace(c.GeminiModel) == "" {
		return errors.New("GEMINI_MODEL is required")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return parsed
}
