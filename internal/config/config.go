package config

import (
	"net"
	"strconv"
	"strings"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Store         StoreConfig         `yaml:"store"`
	Database      DatabaseConfig      `yaml:"database"`
	Enrichment    EnrichmentConfig    `yaml:"enrichment"`
	Parser        ParserConfig        `yaml:"parser"`
	Pronunciation PronunciationConfig `yaml:"pronunciation"`
	Auth          AuthConfig          `yaml:"auth"`
	Capture       CaptureConfig       `yaml:"capture"`
	Export        ExportConfig        `yaml:"export"`
	Log           LogConfig           `yaml:"log"`
	CORS          CORSConfig          `yaml:"cors"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PUT,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"90s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// Store drivers.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverSQLite   = "sqlite"
)

// StoreConfig selects the entry store backend.
type StoreConfig struct {
	Driver     string `yaml:"driver"      env:"STORE_DRIVER"      env-default:"sqlite"`
	SQLitePath string `yaml:"sqlite_path" env:"STORE_SQLITE_PATH" env-default:"./myenglish.db"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// EnrichmentConfig holds settings of the LLM enrichment service.
// An empty APIKey disables remote calls; captures are stored with defaults.
type EnrichmentConfig struct {
	APIKey      string        `yaml:"api_key"     env:"LLM_API_KEY"`
	BaseURL     string        `yaml:"base_url"    env:"LLM_BASE_URL"`
	Model       string        `yaml:"model"       env:"LLM_MODEL"       env-default:"claude-3-5-haiku-latest"`
	Timeout     time.Duration `yaml:"timeout"     env:"LLM_TIMEOUT"     env-default:"60s"`
	MaxTokens   int64         `yaml:"max_tokens"  env:"LLM_MAX_TOKENS"  env-default:"2048"`
	Temperature float64       `yaml:"temperature" env:"LLM_TEMPERATURE" env-default:"0.2"`
}

// ParserConfig points at a spaCy-compatible dependency parse endpoint.
// An empty BaseURL means no parser is available.
type ParserConfig struct {
	BaseURL string        `yaml:"base_url" env:"PARSER_BASE_URL"`
	Timeout time.Duration `yaml:"timeout"  env:"PARSER_TIMEOUT"  env-default:"10s"`
}

// PronunciationConfig points at a FreeDictionary-compatible API used to
// attach IPA and audio to captured words. An empty BaseURL disables lookups.
type PronunciationConfig struct {
	BaseURL string        `yaml:"base_url" env:"PRONUNCIATION_BASE_URL"`
	Timeout time.Duration `yaml:"timeout"  env:"PRONUNCIATION_TIMEOUT"  env-default:"10s"`
}

// AuthConfig holds API token settings.
type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret" env:"AUTH_JWT_SECRET" env-required:"true"`
	JWTIssuer string        `yaml:"jwt_issuer" env:"AUTH_JWT_ISSUER" env-default:"myenglish"`
	TokenTTL  time.Duration `yaml:"token_ttl"  env:"AUTH_TOKEN_TTL"  env-default:"720h"`
}

// CaptureConfig holds capture pipeline settings.
type CaptureConfig struct {
	MinEnglishRatio float64       `yaml:"min_english_ratio" env:"CAPTURE_MIN_ENGLISH_RATIO" env-default:"0.6"`
	RatePerMinute   int           `yaml:"rate_per_minute"   env:"CAPTURE_RATE_PER_MINUTE"   env-default:"30"`
	SourceApp       string        `yaml:"source_app"        env:"CAPTURE_SOURCE_APP"        env-default:"api"`
	MaxArticleBytes int64         `yaml:"max_article_bytes" env:"CAPTURE_MAX_ARTICLE_BYTES" env-default:"10485760"`
	FetchTimeout    time.Duration `yaml:"fetch_timeout"     env:"CAPTURE_FETCH_TIMEOUT"     env-default:"15s"`
}

// Export drivers.
const (
	ExportDriverFS = "fs"
	ExportDriverS3 = "s3"
)

// ExportConfig selects where entry snapshots are written.
type ExportConfig struct {
	Driver    string `yaml:"driver"     env:"EXPORT_DRIVER"     env-default:"fs"`
	Dir       string `yaml:"dir"        env:"EXPORT_DIR"        env-default:"./exports"`
	Prefix    string `yaml:"prefix"     env:"EXPORT_PREFIX"     env-default:"snapshots"`
	Bucket    string `yaml:"bucket"     env:"EXPORT_S3_BUCKET"`
	Region    string `yaml:"region"     env:"EXPORT_S3_REGION"  env-default:"us-east-1"`
	Endpoint  string `yaml:"endpoint"   env:"EXPORT_S3_ENDPOINT"`
	PathStyle bool   `yaml:"path_style" env:"EXPORT_S3_PATH_STYLE" env-default:"false"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// AllowedOriginList returns trimmed, non-empty origins.
func (c CORSConfig) AllowedOriginList() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
