package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration
//
//nolint:govet // Field alignment optimization would reduce readability
type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Identity      IdentityConfig
	Payments      PaymentsConfig
	Email         EmailConfig
	ObjectStorage ObjectStorageConfig
	Logging       LoggingConfig
	Observability ObservabilityConfig
	Profiling     ProfilingConfig
	Cache         CacheConfig
}

type ServerConfig struct {
	Port           string
	GinMode        string
	AppEnv         string
	BaseURL        string
	MeetingBaseURL string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	URL      string
	MaxConns int32
	MinConns int32
}

// IdentityConfig configures the external identity provider (Clerk).
// Session tokens are HS256 JWTs verified with SessionSecret; user records are
// fetched from APIBaseURL using APIKey.
type IdentityConfig struct {
	SessionSecret string
	SessionIssuer string
	APIBaseURL    string
	APIKey        string
}

type PaymentsConfig struct {
	RazorpayKeySecret string
}

type EmailConfig struct {
	APIURL    string
	APIKey    string
	FromName  string
	FromEmail string
}

type ObjectStorageConfig struct {
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Endpoint        string
	Region          string
}

type LoggingConfig struct {
	Level string
	Dir   string
}

type ObservabilityConfig struct {
	ExporterEndpoint  string
	ServiceName       string
	ServiceNamespace  string
	ServiceVersion    string
	ServiceInstanceID string
}

type ProfilingConfig struct {
	Enabled               bool
	Endpoint              string
	AppName               string
	SampleTypes           string
	UploadIntervalSeconds int
}

type CacheConfig struct {
	IdentityUserTTLSeconds int // provider user record cache TTL in seconds
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("PORT", "8081")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("BASE_URL", "https://aureeture.ai")
	v.SetDefault("MEETING_BASE_URL", "https://meet.aureeture.ai")
	v.SetDefault("ALLOWED_CORS_ORIGINS", "https://aureeture.ai,https://www.aureeture.ai")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DIR", "/app/logs")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("IDENTITY_SESSION_ISSUER", "clerk")
	v.SetDefault("IDENTITY_API_BASE_URL", "https://api.clerk.com")
	v.SetDefault("EMAIL_FROM_NAME", "Aureeture")
	v.SetDefault("EMAIL_FROM_EMAIL", "no-reply@aureeture.ai")
	v.SetDefault("O11Y_EXPORTER_ENDPOINT", "alloy:4318") // OTLP over HTTP
	v.SetDefault("O11Y_SERVICE_NAME", "aureeture-api")
	v.SetDefault("O11Y_SERVICE_NAMESPACE", "aureeture")
	v.SetDefault("O11Y_SERVICE_VERSION", "1.0.0")
	v.SetDefault("O11Y_PROFILING_ENABLED", false)
	v.SetDefault("O11Y_PROFILING_APP_NAME", "aureeture-api")
	v.SetDefault("O11Y_PROFILING_SAMPLE_TYPES", "cpu,alloc_space,alloc_objects,goroutines,mutex,block")
	v.SetDefault("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS", 15)
	v.SetDefault("IDENTITY_USER_CACHE_TTL", 300)

	// Automatically read environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	_ = v.ReadInConfig() //nolint:errcheck // Ignore error if .env file doesn't exist

	// Parse allowed CORS origins (comma-separated)
	allowedOrigins := []string{}
	originsStr := v.GetString("ALLOWED_CORS_ORIGINS")
	if originsStr != "" {
		for _, origin := range strings.Split(originsStr, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins = append(allowedOrigins, origin)
			}
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("PORT"),
			GinMode:        v.GetString("GIN_MODE"),
			AppEnv:         v.GetString("APP_ENV"),
			BaseURL:        v.GetString("BASE_URL"),
			MeetingBaseURL: v.GetString("MEETING_BASE_URL"),
			AllowedOrigins: allowedOrigins,
		},
		Database: DatabaseConfig{
			URL:      v.GetString("DATABASE_URL"),
			MaxConns: v.GetInt32("DB_MAX_CONNS"),
			MinConns: v.GetInt32("DB_MIN_CONNS"),
		},
		Identity: IdentityConfig{
			SessionSecret: v.GetString("IDENTITY_SESSION_SECRET"),
			SessionIssuer: v.GetString("IDENTITY_SESSION_ISSUER"),
			APIBaseURL:    v.GetString("IDENTITY_API_BASE_URL"),
			APIKey:        v.GetString("IDENTITY_API_KEY"),
		},
		Payments: PaymentsConfig{
			RazorpayKeySecret: v.GetString("RAZORPAY_KEY_SECRET"),
		},
		Email: EmailConfig{
			APIURL:    v.GetString("EMAIL_API_URL"),
			APIKey:    v.GetString("EMAIL_API_KEY"),
			FromName:  v.GetString("EMAIL_FROM_NAME"),
			FromEmail: v.GetString("EMAIL_FROM_EMAIL"),
		},
		ObjectStorage: ObjectStorageConfig{
			AccessKeyID:     v.GetString("STORAGE_ACCESS_KEY_ID"),
			SecretAccessKey: v.GetString("STORAGE_SECRET_ACCESS_KEY"),
			BucketName:      v.GetString("STORAGE_BUCKET_NAME"),
			Endpoint:        v.GetString("STORAGE_ENDPOINT"),
			Region:          v.GetString("STORAGE_REGION"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
			Dir:   v.GetString("LOG_DIR"),
		},
		Observability: ObservabilityConfig{
			ExporterEndpoint:  v.GetString("O11Y_EXPORTER_ENDPOINT"),
			ServiceName:       v.GetString("O11Y_SERVICE_NAME"),
			ServiceNamespace:  v.GetString("O11Y_SERVICE_NAMESPACE"),
			ServiceVersion:    v.GetString("O11Y_SERVICE_VERSION"),
			ServiceInstanceID: v.GetString("O11Y_SERVICE_INSTANCE_ID"),
		},
		Profiling: ProfilingConfig{
			Enabled:               v.GetBool("O11Y_PROFILING_ENABLED"),
			Endpoint:              v.GetString("O11Y_PROFILING_ENDPOINT"),
			AppName:               v.GetString("O11Y_PROFILING_APP_NAME"),
			SampleTypes:           v.GetString("O11Y_PROFILING_SAMPLE_TYPES"),
			UploadIntervalSeconds: v.GetInt("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS"),
		},
		Cache: CacheConfig{
			IdentityUserTTLSeconds: v.GetInt("IDENTITY_USER_CACHE_TTL"),
		},
	}

	return cfg, nil
}

// Validate checks that required configuration is present for a production
// deployment. Development deployments are allowed to run with missing
// secrets (the auth layer degrades accordingly).
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.Server.BaseURL == "" {
		return fmt.Errorf("BASE_URL is required")
	}
	if len(c.Server.AllowedOrigins) == 0 {
		return fmt.Errorf("ALLOWED_CORS_ORIGINS is required")
	}

	if c.IsProduction() {
		if c.Identity.SessionSecret == "" {
			return fmt.Errorf("IDENTITY_SESSION_SECRET is required in production")
		}
		if c.Payments.RazorpayKeySecret == "" {
			return fmt.Errorf("RAZORPAY_KEY_SECRET is required in production")
		}
	}

	if c.Profiling.Enabled && c.Profiling.Endpoint == "" {
		return fmt.Errorf("O11Y_PROFILING_ENDPOINT is required when profiling is enabled")
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "development" || c.Server.GinMode == "debug"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.AppEnv == "production"
}
