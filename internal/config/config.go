package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server ServerConfig `json:"server"`

	// Database Configuration
	Database DatabaseConfig `json:"database"`

	MongoDB MongoDBConfig `json:"mongodb"`
	Redis   RedisConfig   `json:"redis"`
	NATS    NATSConfig    `json:"nats"`
	Kafka   KafkaConfig   `json:"kafka"`
	Events  EventsConfig  `json:"events"`
	Tracing TracingConfig `json:"tracing"`

	// Search and ranking
	Search  SearchConfig  `json:"search"`
	Ranking RankingConfig `json:"ranking"`

	Media MediaConfig `json:"media"`

	// Logging Configuration
	Logging LoggingConfig `json:"logging"`
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	Port         string `json:"port"`
	GRPCPort     string `json:"grpc_port"`
	Host         string `json:"host"`
	ReadTimeout  int    `json:"read_timeout"`  // Seconds
	WriteTimeout int    `json:"write_timeout"` // Seconds
	Environment  string `json:"environment"`   // development, staging, production
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Driver       string   `json:"driver"` // mysql, postgres
	Host         string   `json:"host"`
	Port         string   `json:"port"`
	Username     string   `json:"username"`
	Password     string   `json:"password"`
	DatabaseName string   `json:"database_name"`
	SSLMode      string   `json:"ssl_mode"`
	MaxOpenConns int      `json:"max_open_conns"`
	MaxIdleConns int      `json:"max_idle_conns"`
	ReplicaDSNs  []string `json:"replica_dsns"`
}

type MongoDBConfig struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	Database string `json:"database"`
	Enabled  bool   `json:"enabled"` // media uploads and the mongo search backend need it

	MediaBucket      string `json:"media_bucket"`      // GridFS bucket for uploads
	SearchCollection string `json:"search_collection"` // used by SEARCH_BACKEND=mongo
	ConnectTimeout   int    `json:"connect_timeout"`   // Seconds
}

type RedisConfig struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	Password string `json:"password"`
	DB       int    `json:"db"`
	Enabled  bool   `json:"enabled"`
}

type NATSConfig struct {
	URL           string `json:"url"`
	SubjectPrefix string `json:"subject_prefix"`
	Enabled       bool   `json:"enabled"`
}

type KafkaConfig struct {
	Brokers []string `json:"brokers"`
	Topic   string   `json:"topic"`
	Enabled bool     `json:"enabled"`
}

// EventsConfig sizes the engagement bus. Zero workers delivers inline.
type EventsConfig struct {
	Workers   int `json:"workers"`
	QueueSize int `json:"queue_size"`
}

type TracingConfig struct {
	Endpoint    string `json:"endpoint"` // host:port of the OTLP HTTP collector
	ServiceName string `json:"service_name"`
	Enabled     bool   `json:"enabled"`
}

// SearchConfig picks the candidate-ID source for tag search and related funs.
type SearchConfig struct {
	Backend  string `json:"backend"`   // mysql, mongo
	CacheTTL int    `json:"cache_ttl"` // Seconds, only used with Redis enabled
}

type RankingConfig struct {
	PerPage int `json:"per_page"`
}

type MediaConfig struct {
	BaseURL string `json:"base_url"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level      string `json:"level"`       // debug, info, warn, error
	Format     string `json:"format"`      // text, utc
	OutputPath string `json:"output_path"` // stdout, stderr, or file path
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "7002"),
			GRPCPort:     getEnv("GRPC_PORT", "9002"),
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			ReadTimeout:  getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("SERVER_WRITE_TIMEOUT", 15),
			Environment:  getEnv("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Driver:       getEnv("DB_DRIVER", "mysql"),
			Host:         getEnv("MYSQL_HOST", "localhost"),
			Port:         getEnv("MYSQL_PORT", "3306"),
			Username:     getEnv("MYSQL_USERNAME", "gofun"),
			Password:     getEnv("MYSQL_PASSWORD", "gofun123"),
			DatabaseName: getEnv("MYSQL_DATABASE", "gofun"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ReplicaDSNs:  getEnvAsList("DB_REPLICA_DSNS"),
		},
		MongoDB: MongoDBConfig{
			Host:     getEnv("MONGO_HOST", "localhost"),
			Port:     getEnv("MONGO_PORT", "27017"),
			Username: getEnv("MONGO_USERNAME", "admin"),
			Password: getEnv("MONGO_PASSWORD", "admin123"),
			Database: getEnv("MONGO_DATABASE", "gofun"),
			Enabled:  getEnvAsBool("MONGO_ENABLED", true),

			MediaBucket:      getEnv("MONGO_MEDIA_BUCKET", "fun_media"),
			SearchCollection: getEnv("MONGO_SEARCH_COLLECTION", "fun_search"),
			ConnectTimeout:   getEnvAsInt("MONGO_CONNECT_TIMEOUT", 10),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},
		NATS: NATSConfig{
			URL:           getEnv("NATS_URL", "nats://localhost:4222"),
			SubjectPrefix: getEnv("NATS_SUBJECT_PREFIX", "gofun"),
			Enabled:       getEnvAsBool("NATS_ENABLED", false),
		},
		Kafka: KafkaConfig{
			Brokers: getEnvAsList("KAFKA_BROKERS"),
			Topic:   getEnv("KAFKA_TOPIC", "fun-engagement"),
			Enabled: getEnvAsBool("KAFKA_ENABLED", false),
		},
		Events: EventsConfig{
			Workers:   getEnvAsInt("EVENT_WORKERS", 4),
			QueueSize: getEnvAsInt("EVENT_QUEUE_SIZE", 1000),
		},
		Tracing: TracingConfig{
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "fun-svc"),
			Enabled:     getEnvAsBool("TRACING_ENABLED", false),
		},
		Search: SearchConfig{
			Backend:  strings.ToLower(getEnv("SEARCH_BACKEND", "mysql")),
			CacheTTL: getEnvAsInt("SEARCH_CACHE_TTL", 300),
		},
		Ranking: RankingConfig{
			PerPage: getEnvAsInt("FUNS_PER_PAGE", 5),
		},
		Logging: LoggingConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "text"),
			OutputPath: getEnv("LOG_OUTPUT", "stdout"),
		},
	}

	cfg.Media.BaseURL = getEnv("MEDIA_BASE_URL",
		fmt.Sprintf("http://localhost:%s/media", cfg.Server.Port))

	return cfg
}

func (cfg *Config) DSN() string {
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == "" {
		cfg.Database.Port = "3306"
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DatabaseName,
	)
}

func (cfg *Config) PostgresDSN() string {
	port := cfg.Database.Port
	if port == "" || port == "3306" {
		port = "5432"
	}
	sslMode := cfg.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		cfg.Database.Host,
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.DatabaseName,
		port,
		sslMode,
	)
}

func (cfg *Config) GetMongoURI() string {
	if cfg.MongoDB.Username == "" || cfg.MongoDB.Password == "" {
		return fmt.Sprintf("mongodb://%s:%s/%s",
			cfg.MongoDB.Host, cfg.MongoDB.Port, cfg.MongoDB.Database)
	}
	return fmt.Sprintf("mongodb://%s:%s@%s:%s/%s?authSource=admin",
		cfg.MongoDB.Username,
		cfg.MongoDB.Password,
		cfg.MongoDB.Host,
		cfg.MongoDB.Port,
		cfg.MongoDB.Database,
	)
}

func (cfg *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port)
}

func (cfg *Config) MongoConnectTimeout() time.Duration {
	if cfg.MongoDB.ConnectTimeout <= 0 {
		return 10 * time.Second
	}
	return time.Duration(cfg.MongoDB.ConnectTimeout) * time.Second
}

func (cfg *Config) SearchCacheTTL() time.Duration {
	return time.Duration(cfg.Search.CacheTTL) * time.Second
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsList splits a comma separated variable, dropping blanks.
func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
