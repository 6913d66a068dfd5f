package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the tax assistant backend
type Config struct {
	General   GeneralConfig   `mapstructure:"general"`
	Databases DatabasesConfig `mapstructure:"databases"`
	Providers ProvidersConfig `mapstructure:"providers"`
	Functions FunctionsConfig `mapstructure:"functions"`
	RAG       RAGConfig       `mapstructure:"rag"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	Listen    string `mapstructure:"listen"`
	JWTSecret string `mapstructure:"jwt_secret"`
	LogLevel  string `mapstructure:"log_level"`
	// DemoMode seeds the two prototype users and serves canned document
	// fixtures so the system runs without live uploads or an OpenAI key.
	DemoMode bool `mapstructure:"demo_mode"`
}

// DatabasesConfig groups the backing stores
type DatabasesConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	URL      string `mapstructure:"url"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// DSN builds a postgres connection string, preferring the explicit URL.
func (p PostgresConfig) DSN() (string, error) {
	if p.URL != "" {
		return p.URL, nil
	}
	if p.Host == "" || p.DBName == "" {
		return "", fmt.Errorf("postgres not configured (databases.postgres.host/dbname or url)")
	}
	port := p.Port
	if port == "" {
		port = "5432"
	}
	ssl := p.SSLMode
	if ssl == "" {
		ssl = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", p.User, p.Password, p.Host, port, p.DBName, ssl), nil
}

type RedisConfig struct {
	Host     string        `mapstructure:"host"`
	Port     string        `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// ProvidersConfig contains LLM provider configurations
type ProvidersConfig struct {
	// LLM selects the provider implementation: "openai" or "mock".
	LLM    string       `mapstructure:"llm"`
	OpenAI OpenAIConfig `mapstructure:"openai"`
}

type OpenAIConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// FunctionsConfig points at the Azure Functions host that executes actions
type FunctionsConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Key     string        `mapstructure:"key"`
	Timeout time.Duration `mapstructure:"timeout"`
	// Mock short-circuits the HTTP call with canned results.
	Mock bool `mapstructure:"mock"`
}

// RAGConfig carries the context assembly constants
type RAGConfig struct {
	MaxContextTokens int `mapstructure:"max_context_tokens"`
	MaxResults       int `mapstructure:"max_results"`
	ChunkSize        int `mapstructure:"chunk_size"`
	ChunkOverlap     int `mapstructure:"chunk_overlap"`
}

// LoadConfig reads configuration from file and environment (TAXASSIST_*).
func LoadConfig(path string) *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("json")
	viper.SetDefault("general.listen", ":8080")
	viper.SetDefault("general.log_level", "info")
	viper.SetDefault("providers.llm", "openai")
	viper.SetDefault("providers.openai.model", "gpt-4o-mini")
	viper.SetDefault("providers.openai.temperature", 0.7)
	viper.SetDefault("providers.openai.max_tokens", 1500)
	viper.SetDefault("providers.openai.timeout", 30*time.Second)
	viper.SetDefault("functions.timeout", 30*time.Second)
	viper.SetDefault("databases.redis.ttl", time.Hour)
	viper.SetDefault("rag.max_context_tokens", 8000)
	viper.SetDefault("rag.max_results", 5)
	viper.SetDefault("rag.chunk_size", 500)
	viper.SetDefault("rag.chunk_overlap", 50)

	if path == "" {
		viper.AddConfigPath("./config")
		viper.AddConfigPath(".")
		exe, _ := os.Executable()
		exeDir := filepath.Dir(exe)
		viper.AddConfigPath(exeDir)
		viper.AddConfigPath(filepath.Join(exeDir, ".."))
		viper.AddConfigPath(filepath.Join(exeDir, "..", "config"))
	} else {
		viper.SetConfigFile(path)
	}

	viper.SetEnvPrefix("TAXASSIST")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		panic(fmt.Errorf("fatal error config file: %w", err))
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		panic(fmt.Errorf("fatal error config file: %w", err))
	}
	return &config
}
