// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads the base config, merges the environment-specific overlay and
// applies env-var overrides, then validates the result.
func Load() (*Config, error) {
	loadEnvFile()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like GENAI_API_KEY
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	viper.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = viper.MergeInConfig() // overlay is optional

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up directories looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// overrideEmptyConfig fills secrets from the environment when the config file
// left them blank.
func overrideEmptyConfig(cfg *Config) {
	if cfg.GenAI.APIKey == "" {
		if val := os.Getenv("GENAI_API_KEY"); val != "" {
			cfg.GenAI.APIKey = val
		}
	}
	if cfg.Cache.Redis.Password == "" {
		if val := os.Getenv("REDIS_PASSWORD"); val != "" {
			cfg.Cache.Redis.Password = val
		}
	}
}

// applyDefaults sets default values for optional configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "replydraft"
	}

	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = ":8085"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 10000
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30000
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10000
	}

	// Engine defaults
	if cfg.Engine.Cooldown == 0 {
		cfg.Engine.Cooldown = 3000
	}
	if cfg.Engine.CacheTTL == 0 {
		cfg.Engine.CacheTTL = 60000
	}
	if cfg.Engine.MaxTranscriptLines == 0 {
		cfg.Engine.MaxTranscriptLines = 80
	}
	if cfg.Engine.MaxAttempts == 0 {
		cfg.Engine.MaxAttempts = 3
	}
	if cfg.Engine.BackoffBase == 0 {
		cfg.Engine.BackoffBase = 1000
	}
	if cfg.Engine.AttemptTimeout == 0 {
		cfg.Engine.AttemptTimeout = 5000
	}
	if cfg.Engine.QuestionSimilarity == 0 {
		cfg.Engine.QuestionSimilarity = 0.7
	}
	if cfg.Engine.AnswerSimilarity == 0 {
		cfg.Engine.AnswerSimilarity = 0.7
	}
	if cfg.Engine.AskedQuestionsLimit == 0 {
		cfg.Engine.AskedQuestionsLimit = 10
	}
	if cfg.Engine.RecentAnswersLimit == 0 {
		cfg.Engine.RecentAnswersLimit = 5
	}
	if cfg.Engine.MaxConversations == 0 {
		cfg.Engine.MaxConversations = 1024
	}

	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = "memory"
	}

	if cfg.GenAI.MaxTokens == 0 {
		cfg.GenAI.MaxTokens = 500
	}
	if cfg.GenAI.Temperature == 0 {
		cfg.GenAI.Temperature = 0.7
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

// validateConfig validates critical configuration fields.
func validateConfig(cfg *Config) error {
	switch cfg.Cache.Backend {
	case "memory":
	case "redis":
		if cfg.Cache.Redis.Address == "" {
			return fmt.Errorf("cache.redis.address is required for the redis backend")
		}
	default:
		return fmt.Errorf("cache.backend must be \"memory\" or \"redis\", got %q", cfg.Cache.Backend)
	}

	if cfg.GenAI.BaseURL == "" {
		return fmt.Errorf("genai.base_url is required")
	}

	if cfg.Engine.MaxAttempts < 1 {
		return fmt.Errorf("engine.max_attempts must be at least 1")
	}
	if cfg.Engine.QuestionSimilarity <= 0 || cfg.Engine.QuestionSimilarity > 1 {
		return fmt.Errorf("engine.question_similarity must be in (0, 1]")
	}
	if cfg.Engine.AnswerSimilarity <= 0 || cfg.Engine.AnswerSimilarity > 1 {
		return fmt.Errorf("engine.answer_similarity must be in (0, 1]")
	}

	return nil
}
