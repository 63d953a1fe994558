package model

import "time"

// ================ Config ================
type GenerationConfig struct {
	Model          string        `envconfig:"GENERATION_MODEL" default:"gemini-2.5-flash"`
	MaxTokens      int           `envconfig:"GENERATION_MAX_TOKENS" default:"200"`
	Temperature    float32       `envconfig:"GENERATION_TEMPERATURE" default:"0.7"`
	TopK           int32         `envconfig:"GENERATION_TOP_K" default:"40"`
	TopP           float32       `envconfig:"GENERATION_TOP_P" default:"0.95"`
	ThinkingBudget int32         `envconfig:"GENERATION_THINKING_BUDGET" default:"0"`
	Timeout        time.Duration `envconfig:"GENERATION_TIMEOUT" default:"8s"`
}

type RateLimitConfig struct {
	MaxRequests int           `envconfig:"RATE_LIMIT_MAX_REQUESTS" default:"10"`
	Window      time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`
}

type SessionConfig struct {
	TTL           time.Duration `envconfig:"SESSION_TTL" default:"30m"`
	SweepInterval time.Duration `envconfig:"SESSION_SWEEP_INTERVAL" default:"1m"`
	MaxSessions   int           `envconfig:"SESSION_MAX" default:"1000"`
}

type ServerConfig struct {
	Port           string   `envconfig:"PORT" default:"8080"`
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"*"`
}
