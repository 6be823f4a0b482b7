package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Sequence  SequenceConfig
	Mongo     MongoConfig
	Report    ReportConfig
	Import    ImportConfig
	Log       LogConfig
}

type AppConfig struct {
	Name            string
	Env             string
	Port            string
	Debug           bool
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

// SequenceConfig selects where the last issued document numbers live and
// which prefix each kind starts from.
type SequenceConfig struct {
	Store    string
	Prefixes map[string]string
}

type MongoConfig struct {
	URL      string
	Database string
}

type ReportConfig struct {
	Renderer   string
	ChromePath string
	Timeout    time.Duration
	Archive    ArchiveConfig
}

// ArchiveConfig points at an S3-compatible bucket. An empty Bucket disables
// archiving.
type ArchiveConfig struct {
	Bucket          string
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Prefix          string
}

type ImportConfig struct {
	MaxSize int64
}

type LogConfig struct {
	Level string
}

// SequenceKinds lists every document kind that has its own number sequence.
var SequenceKinds = []string{"purchase", "scrap", "issue", "return", "accession"}

var defaultPrefixes = map[string]string{
	"purchase":  "TIN",
	"scrap":     "BSN",
	"issue":     "ISS",
	"return":    "RET",
	"accession": "ACC",
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		slog.Warn(".env file not found, using environment variables", "error", err)
	}

	// Set defaults
	viper.SetDefault("APP_NAME", "library-api")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("APP_SHUTDOWN_TIMEOUT", 10)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "library")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "Asia/Kolkata")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("SEQUENCE_STORE", "postgres")
	for kind, prefix := range defaultPrefixes {
		viper.SetDefault("SEQUENCE_PREFIX_"+strings.ToUpper(kind), prefix)
	}
	viper.SetDefault("MONGO_URL", "mongodb://localhost:27017")
	viper.SetDefault("MONGO_DATABASE", "library")
	viper.SetDefault("REPORT_RENDERER", "gofpdf")
	viper.SetDefault("REPORT_CHROME_PATH", "")
	viper.SetDefault("REPORT_TIMEOUT", 30)
	viper.SetDefault("REPORT_ARCHIVE_BUCKET", "")
	viper.SetDefault("REPORT_ARCHIVE_REGION", "auto")
	viper.SetDefault("REPORT_ARCHIVE_PREFIX", "reports")
	viper.SetDefault("IMPORT_MAX_SIZE", 10485760)
	viper.SetDefault("LOG_LEVEL", "info")

	prefixes := make(map[string]string, len(SequenceKinds))
	for _, kind := range SequenceKinds {
		prefixes[kind] = viper.GetString("SEQUENCE_PREFIX_" + strings.ToUpper(kind))
	}

	return &Config{
		App: AppConfig{
			Name:            viper.GetString("APP_NAME"),
			Env:             viper.GetString("APP_ENV"),
			Port:            viper.GetString("APP_PORT"),
			Debug:           viper.GetBool("APP_DEBUG"),
			ShutdownTimeout: time.Duration(viper.GetInt("APP_SHUTDOWN_TIMEOUT")) * time.Second,
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
			Timezone: viper.GetString("DB_TIMEZONE"),
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		Sequence: SequenceConfig{
			Store:    viper.GetString("SEQUENCE_STORE"),
			Prefixes: prefixes,
		},
		Mongo: MongoConfig{
			URL:      viper.GetString("MONGO_URL"),
			Database: viper.GetString("MONGO_DATABASE"),
		},
		Report: ReportConfig{
			Renderer:   viper.GetString("REPORT_RENDERER"),
			ChromePath: viper.GetString("REPORT_CHROME_PATH"),
			Timeout:    time.Duration(viper.GetInt("REPORT_TIMEOUT")) * time.Second,
			Archive: ArchiveConfig{
				Bucket:          viper.GetString("REPORT_ARCHIVE_BUCKET"),
				Endpoint:        viper.GetString("REPORT_ARCHIVE_ENDPOINT"),
				Region:          viper.GetString("REPORT_ARCHIVE_REGION"),
				AccessKeyID:     viper.GetString("REPORT_ARCHIVE_ACCESS_KEY_ID"),
				SecretAccessKey: viper.GetString("REPORT_ARCHIVE_SECRET_ACCESS_KEY"),
				Prefix:          viper.GetString("REPORT_ARCHIVE_PREFIX"),
			},
		},
		Import: ImportConfig{
			MaxSize: viper.GetInt64("IMPORT_MAX_SIZE"),
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
	}
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}

// Prefix returns the default prefix for a sequence kind.
func (c *SequenceConfig) Prefix(kind string) string {
	if p := c.Prefixes[kind]; p != "" {
		return p
	}
	return defaultPrefixes[kind]
}
