package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// Config aggregates every setting the service needs.
type Config struct {
	Server    ServerConfig
	AI        AIConfig
	Interview InterviewConfig
	Archive   ArchiveConfig
	CORS      CORSConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	interview, err := loadInterviewConfig()
	if err != nil {
		return nil, err
	}

	archive, err := loadArchiveConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:    server,
		AI:        ai,
		Interview: interview,
		Archive:   archive,
		CORS:      loadCORSConfig(),
	}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Allow passing ":8080" or "127.0.0.1:8080" directly.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// AIConfig holds the Ark chat model settings backing the interview agents.
type AIConfig struct {
	APIKey      string
	AccessKey   string
	SecretKey   string
	Model       string
	BaseURL     string
	Region      string
	Temperature *float64
	TopP        *float64
	MaxTokens   *int
}

// Enabled reports whether the required credentials are present.
func (c AIConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel creates a model instance from the configuration.
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("ark credentials missing: provide ARK_API_KEY + ARK_MODEL, or an AK/SK pair")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	var topP *float32
	if c.TopP != nil {
		val := float32(*c.TopP)
		topP = &val
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   c.MaxTokens,
		Temperature: temperature,
		TopP:        topP,
	}

	return ark.NewChatModel(ctx, cfg)
}

func loadAIConfig() (AIConfig, error) {
	temperature, err := parseOptionalFloatEnv("ARK_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}

	topP, err := parseOptionalFloatEnv("ARK_TOP_P")
	if err != nil {
		return AIConfig{}, err
	}

	maxTokens, err := parseOptionalIntEnv("ARK_MAX_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}

	return AIConfig{
		APIKey:      strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		AccessKey:   strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		SecretKey:   strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		Model:       strings.TrimSpace(os.Getenv("ARK_MODEL")),
		BaseURL:     getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		Region:      getEnvOrDefault("ARK_REGION", "cn-beijing"),
		Temperature: temperature,
		TopP:        topP,
		MaxTokens:   maxTokens,
	}, nil
}

// InterviewConfig holds the session budgets and pipeline timing knobs.
type InterviewConfig struct {
	Duration          time.Duration
	MaxQuestions      int
	MaxFollowUps      int
	TickInterval      time.Duration
	CapabilityTimeout time.Duration
	IdleTimeout       time.Duration
}

func loadInterviewConfig() (InterviewConfig, error) {
	cfg := InterviewConfig{
		Duration:          35 * time.Minute,
		MaxQuestions:      8,
		MaxFollowUps:      2,
		TickInterval:      30 * time.Second,
		CapabilityTimeout: 30 * time.Second,
		IdleTimeout:       30 * time.Minute,
	}

	if minutes, err := parseOptionalIntEnv("INTERVIEW_DURATION_MINUTES"); err != nil {
		return InterviewConfig{}, err
	} else if minutes != nil {
		if *minutes < 1 {
			return InterviewConfig{}, fmt.Errorf("INTERVIEW_DURATION_MINUTES must be positive, got %d", *minutes)
		}
		cfg.Duration = time.Duration(*minutes) * time.Minute
	}

	if max, err := parseOptionalIntEnv("INTERVIEW_MAX_QUESTIONS"); err != nil {
		return InterviewConfig{}, err
	} else if max != nil {
		if *max < 1 {
			return InterviewConfig{}, fmt.Errorf("INTERVIEW_MAX_QUESTIONS must be positive, got %d", *max)
		}
		cfg.MaxQuestions = *max
	}

	if max, err := parseOptionalIntEnv("INTERVIEW_MAX_FOLLOWUPS"); err != nil {
		return InterviewConfig{}, err
	} else if max != nil {
		if *max < 0 {
			return InterviewConfig{}, fmt.Errorf("INTERVIEW_MAX_FOLLOWUPS must not be negative, got %d", *max)
		}
		cfg.MaxFollowUps = *max
	}

	if seconds, err := parseOptionalIntEnv("INTERVIEW_CAPABILITY_TIMEOUT_SECONDS"); err != nil {
		return InterviewConfig{}, err
	} else if seconds != nil && *seconds > 0 {
		cfg.CapabilityTimeout = time.Duration(*seconds) * time.Second
	}

	if minutes, err := parseOptionalIntEnv("INTERVIEW_IDLE_TIMEOUT_MINUTES"); err != nil {
		return InterviewConfig{}, err
	} else if minutes != nil {
		if *minutes < 1 {
			return InterviewConfig{}, fmt.Errorf("INTERVIEW_IDLE_TIMEOUT_MINUTES must be positive, got %d", *minutes)
		}
		cfg.IdleTimeout = time.Duration(*minutes) * time.Minute
	}

	return cfg, nil
}

// ArchiveConfig describes the optional Redis transcript archive.
type ArchiveConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// Enabled reports whether an archive address was configured.
func (c ArchiveConfig) Enabled() bool {
	return c.Addr != ""
}

func loadArchiveConfig() (ArchiveConfig, error) {
	cfg := ArchiveConfig{
		Addr:     strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		Password: strings.TrimSpace(os.Getenv("REDIS_PASSWORD")),
		TTL:      30 * 24 * time.Hour,
	}

	if db, err := parseOptionalIntEnv("REDIS_DB"); err != nil {
		return ArchiveConfig{}, err
	} else if db != nil {
		cfg.DB = *db
	}

	if days, err := parseOptionalIntEnv("ARCHIVE_TTL_DAYS"); err != nil {
		return ArchiveConfig{}, err
	} else if days != nil && *days > 0 {
		cfg.TTL = time.Duration(*days) * 24 * time.Hour
	}

	return cfg, nil
}

// CORSConfig lists the origins allowed to reach the HTTP and websocket APIs.
type CORSConfig struct {
	AllowedOrigins []string
}

// OriginAllowed checks an Origin header value. Non-browser clients that send
// no origin are allowed through.
func (c CORSConfig) OriginAllowed(origin string) bool {
	if origin == "" {
		return true
	}
	for _, allowed := range c.AllowedOrigins {
		if strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}

func loadCORSConfig() CORSConfig {
	raw := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if raw == "" {
		return CORSConfig{AllowedOrigins: []string{
			"http://localhost:5173",
			"http://localhost:5174",
			"http://localhost:3000",
			"http://127.0.0.1:5173",
			"http://127.0.0.1:5174",
			"http://127.0.0.1:3000",
		}}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return CORSConfig{AllowedOrigins: origins}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
