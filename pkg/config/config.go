package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Job store backends
const (
	JobStoreMemory   = "memory"
	JobStoreRedis    = "redis"
	JobStorePostgres = "postgres"
)

// Transcriber backends
const (
	TranscriberAssemblyAI = "assemblyai"
	TranscriberWhisper    = "whisper"
)

// Config holds application configuration
type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Storage     StorageConfig
	Upload      UploadConfig
	Pipeline    PipelineConfig
	Groq        GroqConfig
	Assembly    AssemblyAIConfig
	Whisper     WhisperConfig
	Watch       WatchConfig
	JobStore    string
	Transcriber string
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string
	Host            string
	Environment     string
	AllowedOrigins  []string
	ShutdownTimeout int
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
	MaxConns    int
	MinConns    int
	AutoMigrate bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// StorageConfig holds storage configuration
type StorageConfig struct {
	Enabled         bool
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	UseSSL          bool
	PublicURL       string
	URLExpiry       time.Duration
}

// UploadConfig holds file intake settings
type UploadConfig struct {
	Dir       string
	OutputDir string
	MaxSizeMB int
}

// PipelineConfig holds tunables of the summarization pipeline
type PipelineConfig struct {
	FFmpegPath       string        `envconfig:"FFMPEG_PATH" default:"ffmpeg"`
	FFprobePath      string        `envconfig:"FFPROBE_PATH" default:"ffprobe"`
	VideoCodec       string        `envconfig:"VIDEO_CODEC" default:"libx264"`
	AudioCodec       string        `envconfig:"AUDIO_CODEC" default:"aac"`
	Preset           string        `envconfig:"PRESET" default:"veryfast"`
	CRF              int           `envconfig:"CRF" default:"18"`
	JobTimeout       time.Duration `envconfig:"JOB_TIMEOUT" default:"2h"`
	ReasoningTimeout time.Duration `envconfig:"REASONING_TIMEOUT" default:"45s"`
	MaxSegments      int           `envconfig:"MAX_SEGMENTS" default:"5"`
	FallbackClipSecs float64       `envconfig:"FALLBACK_CLIP_SECONDS" default:"10"`
}

// GroqConfig holds reasoning service configuration
type GroqConfig struct {
	APIKey      string  `envconfig:"API_KEY"`
	BaseURL     string  `envconfig:"API_URL" default:"https://api.groq.com"`
	Model       string  `envconfig:"MODEL" default:"llama-3.3-70b-versatile"`
	Temperature float64 `envconfig:"TEMPERATURE" default:"0.3"`
	MaxTokens   int     `envconfig:"MAX_TOKENS" default:"2048"`
}

// AssemblyAIConfig holds AssemblyAI configuration
type AssemblyAIConfig struct {
	APIKey       string `envconfig:"API_KEY"`
	LanguageCode string `envconfig:"LANGUAGE_CODE" default:"en"`
}

// WhisperConfig holds local whisper.cpp configuration
type WhisperConfig struct {
	BinaryPath string `envconfig:"BINARY_PATH" default:"whisper-cli"`
	ModelPath  string `envconfig:"MODEL_PATH" default:"models/ggml-base.en.bin"`
	Language   string `envconfig:"LANGUAGE" default:"en"`
	Threads    int    `envconfig:"THREADS" default:"4"`
}

// WatchConfig holds folder intake configuration
type WatchConfig struct {
	Dir           string
	MaxConcurrent int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	config := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			Environment:     getEnv("ENVIRONMENT", "development"),
			AllowedOrigins:  strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:3000"), ","),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 10),
		},
		Database: DatabaseConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnv("DB_PORT", "5432"),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			Name:        getEnv("DB_NAME", "video_summarizer"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			MaxConns:    getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:    getEnvAsInt("DB_MIN_CONNS", 5),
			AutoMigrate: getEnvAsBool("DB_AUTO_MIGRATE", false),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Storage: StorageConfig{
			Enabled:         getEnvAsBool("STORAGE_ENABLED", false),
			Endpoint:        getEnv("STORAGE_ENDPOINT", "localhost:9000"),
			AccessKeyID:     getEnv("STORAGE_ACCESS_KEY", "minioadmin"),
			SecretAccessKey: getEnv("STORAGE_SECRET_KEY", "minioadmin"),
			BucketName:      getEnv("STORAGE_BUCKET", "video-summaries"),
			UseSSL:          getEnvAsBool("STORAGE_USE_SSL", false),
			PublicURL:       getEnv("STORAGE_PUBLIC_URL", ""),
			URLExpiry:       getEnvAsDuration("STORAGE_URL_EXPIRY", "24h"),
		},
		Upload: UploadConfig{
			Dir:       getEnv("UPLOAD_DIR", "uploads"),
			OutputDir: getEnv("OUTPUT_DIR", "outputs"),
			MaxSizeMB: getEnvAsInt("MAX_UPLOAD_MB", 500),
		},
		Watch: WatchConfig{
			Dir:           getEnv("WATCH_DIR", ""),
			MaxConcurrent: getEnvAsInt("WATCH_MAX_CONCURRENT", 2),
		},
		JobStore:    strings.ToLower(getEnv("JOB_STORE", JobStoreMemory)),
		Transcriber: strings.ToLower(getEnv("TRANSCRIBER", TranscriberWhisper)),
	}

	// Pipeline and AI provider settings are read from prefixed variables,
	// e.g. SUMMARIZER_JOB_TIMEOUT, GROQ_API_KEY, ASSEMBLYAI_API_KEY, WHISPER_MODEL_PATH
	if err := envconfig.Process("SUMMARIZER", &config.Pipeline); err != nil {
		return nil, fmt.Errorf("failed to load pipeline config: %w", err)
	}
	if err := envconfig.Process("GROQ", &config.Groq); err != nil {
		return nil, fmt.Errorf("failed to load groq config: %w", err)
	}
	if err := envconfig.Process("ASSEMBLYAI", &config.Assembly); err != nil {
		return nil, fmt.Errorf("failed to load assemblyai config: %w", err)
	}
	if err := envconfig.Process("WHISPER", &config.Whisper); err != nil {
		return nil, fmt.Errorf("failed to load whisper config: %w", err)
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.JobStore {
	case JobStoreMemory, JobStoreRedis, JobStorePostgres:
	default:
		return fmt.Errorf("JOB_STORE must be one of memory, redis, postgres (got %q)", c.JobStore)
	}

	switch c.Transcriber {
	case TranscriberWhisper:
	case TranscriberAssemblyAI:
		if c.Assembly.APIKey == "" {
			return fmt.Errorf("ASSEMBLYAI_API_KEY is required when TRANSCRIBER=assemblyai")
		}
	default:
		return fmt.Errorf("TRANSCRIBER must be one of whisper, assemblyai (got %q)", c.Transcriber)
	}

	if c.Upload.MaxSizeMB <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB must be positive")
	}
	if c.Pipeline.MaxSegments < 1 {
		return fmt.Errorf("SUMMARIZER_MAX_SEGMENTS must be at least 1")
	}
	return nil
}

// ReasoningEnabled reports whether reasoning service credentials are present
func (c *Config) ReasoningEnabled() bool {
	return c.Groq.APIKey != ""
}

// MaxUploadBytes returns the upload limit in bytes
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Upload.MaxSizeMB) * 1024 * 1024
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}
	return duration
}
