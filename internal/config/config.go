package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port                 string
	LogLevel             string
	LogFormat            string
	LLMProvider          string
	LLMModel             string
	LLMBaseURL           string
	LLMTimeoutSeconds    int
	GroqAPIKey           string
	OpenAIAPIKey         string
	OpenRouterAPIKey     string
	SearchProvider       string
	SearchMaxResults     int
	SearchTimeoutSeconds int
	SearXNGURL           string
	LookupSource         string
	LookupFile           string
	PostgresURL          string
	PersonasFile         string
}

func Load() Config {
	postgresURL := getEnv("POSTGRES_URL", "")
	if postgresURL == "" {
		postgresURL = buildPostgresURL()
	}
	return Config{
		Port:                 getEnv("SUDEEP_PORT", "5000"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		LogFormat:            getEnv("LOG_FORMAT", "json"),
		LLMProvider:          strings.ToLower(getEnv("LLM_PROVIDER", "groq")),
		LLMModel:             getEnv("LLM_MODEL", "llama-3.1-8b-instant"),
		LLMBaseURL:           getEnv("LLM_BASE_URL", ""),
		LLMTimeoutSeconds:    getEnvInt("LLM_TIMEOUT_SECONDS", 35),
		GroqAPIKey:           getEnv("GROQ_API_KEY", ""),
		OpenAIAPIKey:         getEnv("OPENAI_API_KEY", ""),
		OpenRouterAPIKey:     getEnv("OPENROUTER_API_KEY", ""),
		SearchProvider:       strings.ToLower(getEnv("SEARCH_PROVIDER", "duckduckgo")),
		SearchMaxResults:     clamp(getEnvInt("SEARCH_MAX_RESULTS", 10), 1, 10),
		SearchTimeoutSeconds: getEnvInt("SEARCH_TIMEOUT_SECONDS", 15),
		SearXNGURL:           getEnv("SEARXNG_URL", ""),
		LookupSource:         strings.ToLower(getEnv("LOOKUP_SOURCE", "static")),
		LookupFile:           getEnv("LOOKUP_FILE", ""),
		PostgresURL:          postgresURL,
		PersonasFile:         getEnv("PERSONAS_FILE", ""),
	}
}

// LLMAPIKey returns the credential belonging to the selected LLM provider.
func (c Config) LLMAPIKey() string {
	switch c.LLMProvider {
	case "groq":
		return c.GroqAPIKey
	case "openai":
		return c.OpenAIAPIKey
	case "openrouter":
		return c.OpenRouterAPIKey
	default:
		return ""
	}
}

// LLMConfigured reports whether completions can be requested at all.
func (c Config) LLMConfigured() bool {
	return c.LLMProvider != "local" && strings.TrimSpace(c.LLMAPIKey()) != ""
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func clamp(value, lo, hi int) int {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}

func buildPostgresURL() string {
	user := getEnv("POSTGRES_USER", "sudeep")
	password := getEnv("POSTGRES_PASSWORD", "sudeep")
	host := getEnv("POSTGRES_HOST", "localhost")
	port := getEnv("POSTGRES_PORT", "5432")
	database := getEnv("POSTGRES_DB", "sudeep")
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, database)
}
