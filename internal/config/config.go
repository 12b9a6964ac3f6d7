// Package config loads and holds the application configuration.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Conf holds all settings loaded from the configuration file.
var Conf Config

// Config mirrors the structure of config.yaml.
type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	JWT           JWTConfig           `mapstructure:"jwt"`
	Log           LogConfig           `mapstructure:"log"`
	Kafka         KafkaConfig         `mapstructure:"kafka"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	MinIO         MinIOConfig         `mapstructure:"minio"`
	Embedding     EmbeddingConfig     `mapstructure:"embedding"`
	LLM           LLMConfig           `mapstructure:"llm"`
	Scraper       ScraperConfig       `mapstructure:"scraper"`
	Assistant     AssistantConfig     `mapstructure:"assistant"`
	Eval          EvalConfig          `mapstructure:"eval"`
}

// ServerConfig stores HTTP server settings.
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// DatabaseConfig stores every database connection setting.
type DatabaseConfig struct {
	MySQL MySQLConfig `mapstructure:"mysql"`
	Redis RedisConfig `mapstructure:"redis"`
}

// MySQLConfig stores the MySQL connection settings.
type MySQLConfig struct {
	DSN string `mapstructure:"dsn"`
}

// RedisConfig stores the Redis connection settings.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// JWTConfig stores chat session token settings.
type JWTConfig struct {
	Secret             string `mapstructure:"secret"`
	TokenExpireMinutes int    `mapstructure:"token_expire_minutes"`
}

// LogConfig stores logging settings.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// KafkaConfig stores the ingest task queue settings.
type KafkaConfig struct {
	Brokers string `mapstructure:"brokers"`
	Topic   string `mapstructure:"topic"`
}

// ElasticsearchConfig stores the vector index settings.
type ElasticsearchConfig struct {
	Addresses string `mapstructure:"addresses"`
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"password"`
	IndexName string `mapstructure:"index_name"`
}

// MinIOConfig stores the object storage settings for CSV snapshots.
type MinIOConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	BucketName      string `mapstructure:"bucket_name"`
}

// EmbeddingConfig stores the embedding model settings.
type EmbeddingConfig struct {
	APIKey     string `mapstructure:"api_key"`
	BaseURL    string `mapstructure:"base_url"`
	Model      string `mapstructure:"model"`
	Dimensions int    `mapstructure:"dimensions"`
}

// LLMConfig stores the generative model settings.
type LLMConfig struct {
	APIKey     string              `mapstructure:"api_key"`
	BaseURL    string              `mapstructure:"base_url"`
	Model      string              `mapstructure:"model"`
	Generation LLMGenerationConfig `mapstructure:"generation"`
}

// LLMGenerationConfig tunes generation behaviour (optional).
type LLMGenerationConfig struct {
	Temperature float64 `mapstructure:"temperature"`
	TopP        float64 `mapstructure:"top_p"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

// ScraperConfig stores the listing page crawl settings.
type ScraperConfig struct {
	StartURL        string `mapstructure:"start_url"`
	MaxPages        int    `mapstructure:"max_pages"`
	ScrollPasses    int    `mapstructure:"scroll_passes"`
	ScrollDelayMs   int    `mapstructure:"scroll_delay_ms"`
	PageTimeoutSecs int    `mapstructure:"page_timeout_secs"`
	OutputPath      string `mapstructure:"output_path"`
	Headless        bool   `mapstructure:"headless"`
	UploadSnapshot  bool   `mapstructure:"upload_snapshot"`
	NotifyIngest    bool   `mapstructure:"notify_ingest"`
}

// AssistantConfig stores the Q&A pipeline settings.
type AssistantConfig struct {
	TablePath      string `mapstructure:"table_path"`
	TopK           int    `mapstructure:"top_k"`
	UseHyDE        bool   `mapstructure:"use_hyde"`
	ReindexOnStart bool   `mapstructure:"reindex_on_start"`
}

// EvalConfig stores the evaluation harness settings.
type EvalConfig struct {
	GroundTruthPath string  `mapstructure:"ground_truth_path"`
	ChartPath       string  `mapstructure:"chart_path"`
	Threshold       float64 `mapstructure:"threshold"`
}

// Init loads the YAML config from configPath into Conf, overlays secrets from
// the environment (a .env file is honoured when present) and verifies that
// the required credentials are set.
func Init(configPath string) {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		panic(fmt.Errorf("failed to read config file: %w", err))
	}

	if err := viper.Unmarshal(&Conf); err != nil {
		panic(fmt.Errorf("failed to unmarshal config: %w", err))
	}

	overlaySecrets()

	if err := validate(); err != nil {
		panic(err)
	}
}

// overlaySecrets pulls credentials from the environment so they never have to
// live in the YAML file. AI_API_KEY serves both the embedding and the chat
// endpoint when a provider-specific key is not set.
func overlaySecrets() {
	if v := os.Getenv("AI_API_KEY"); v != "" {
		if Conf.Embedding.APIKey == "" {
			Conf.Embedding.APIKey = v
		}
		if Conf.LLM.APIKey == "" {
			Conf.LLM.APIKey = v
		}
	}
	if v := os.Getenv("EMBEDDING_API_KEY"); v != "" {
		Conf.Embedding.APIKey = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		Conf.LLM.APIKey = v
	}
	if v := os.Getenv("ELASTIC_PASSWORD"); v != "" {
		Conf.Elasticsearch.Password = v
	}
}

// validate fails fast on missing credentials instead of letting the first
// remote call error out much later.
func validate() error {
	if Conf.Embedding.APIKey == "" {
		return fmt.Errorf("embedding API key is not set: export AI_API_KEY or EMBEDDING_API_KEY")
	}
	if Conf.LLM.APIKey == "" {
		return fmt.Errorf("LLM API key is not set: export AI_API_KEY or LLM_API_KEY")
	}
	if Conf.Elasticsearch.Password == "" && Conf.Elasticsearch.Username != "" {
		return fmt.Errorf("elasticsearch password is not set: export ELASTIC_PASSWORD")
	}
	return nil
}
