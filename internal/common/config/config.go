// internal/common/config/config.go
package config

import "time"

// Config is the main application configuration struct.
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Server  ServerConfig  `mapstructure:"server"`
	Engine  EngineConfig  `mapstructure:"engine"`
	Cache   CacheConfig   `mapstructure:"cache"`
	GenAI   GenAIConfig   `mapstructure:"genai"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	ListenAddress   string `mapstructure:"listen_address"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

// EngineConfig holds every tunable of the draft coordination pipeline.
type EngineConfig struct {
	Cooldown            int     `mapstructure:"cooldown"`              // milliseconds between attempts per conversation
	CacheTTL            int     `mapstructure:"cache_ttl"`             // milliseconds a cached draft stays valid
	MaxTranscriptLines  int     `mapstructure:"max_transcript_lines"`  // tail retained for fingerprinting and prompts
	MaxAttempts         int     `mapstructure:"max_attempts"`          // total upstream attempts per generation
	BackoffBase         int     `mapstructure:"backoff_base"`          // milliseconds; delay is base * attempt index
	AttemptTimeout      int     `mapstructure:"attempt_timeout"`       // milliseconds per upstream attempt
	QuestionSimilarity  float64 `mapstructure:"question_similarity"`   // duplicate-question suppression threshold
	AnswerSimilarity    float64 `mapstructure:"answer_similarity"`     // stuck-loop detection threshold
	AskedQuestionsLimit int     `mapstructure:"asked_questions_limit"` // ring-buffer bound for emitted drafts
	RecentAnswersLimit  int     `mapstructure:"recent_answers_limit"`  // ring-buffer bound for user lines
	MaxConversations    int     `mapstructure:"max_conversations"`     // LRU bound on tracked conversations
}

// CacheConfig selects and configures the shared draft cache backend.
type CacheConfig struct {
	Backend string      `mapstructure:"backend"` // "memory" or "redis"
	Redis   RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// GenAIConfig holds settings for the upstream generation API.
type GenAIConfig struct {
	BaseURL     string  `mapstructure:"base_url"`
	APIKey      string  `mapstructure:"api_key"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// GetDuration converts milliseconds from config to time.Duration.
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
