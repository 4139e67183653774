package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Document store backends.
const (
	StoreDynamo = "dynamo"
	StoreMongo  = "mongo"
)

// Content storage drivers.
const (
	StorageLocal = "local"
	StorageS3    = "s3"
)

// DefaultMaxUploadSize bounds the JSON upload body, base64 content included.
const DefaultMaxUploadSize = 16 << 20

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	FolderPath    string
	StorageDriver string // "local" | "s3"
	S3BucketName  string

	DocumentStore  string // "dynamo" | "mongo"
	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables
	Mongo          Mongo

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SessionTTL        time.Duration
	WorkerConcurrency int
	MaxUploadSize     int // bytes accepted in a POST /files body

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users string
	Files string
}

// Mongo holds the MongoDB connection settings.
type Mongo struct {
	Host     string
	Port     string
	Database string
}

// URI returns the connection string for the configured host and port.
func (m Mongo) URI() string {
	return "mongodb://" + m.Host + ":" + m.Port
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort:       getEnv("PORT", "5000"),
		AppEnv:        getEnv("APP_ENV", "development"),
		FolderPath:    getEnv("FOLDER_PATH", "/tmp/files_manager"),
		StorageDriver: strings.ToLower(getEnv("STORAGE_DRIVER", StorageLocal)),
		S3BucketName:  getEnv("S3_BUCKET_NAME", "files-manager"),
		DocumentStore: strings.ToLower(getEnv("DOCUMENT_STORE", StoreDynamo)),
		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Users: getEnv("DYNAMO_TABLE_USERS", "users"),
			Files: getEnv("DYNAMO_TABLE_FILES", "files"),
		},
		Mongo: Mongo{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "27017"),
			Database: getEnv("DB_DATABASE", "files_manager"),
		},
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		RedisDB:           getEnvInt("REDIS_DB", 0),
		SessionTTL:        getEnvDuration("SESSION_TTL", 24*time.Hour),
		WorkerConcurrency: getEnvInt("WORKER_CONCURRENCY", 5),
		MaxUploadSize:     getEnvInt("MAX_UPLOAD_SIZE", DefaultMaxUploadSize),
		AllowedOrigins:    strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

// IsDevelopment reports whether the process runs with development defaults.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
