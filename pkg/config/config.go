package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Delivery modes for rendered exports.
const (
	DeliveryStream = "stream"
	DeliveryLocal  = "local"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Auth     AuthConfig
	CORS     CORSConfig
	Log      LogConfig
	Export   ExportConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

// AuthConfig holds the shared export account and token settings.
type AuthConfig struct {
	Username     string
	PasswordHash string
	JWTSecret    string
	TokenExpiry  time.Duration
	Issuer       string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// ExportConfig pins the program milestone dates and output behaviour of the
// aggregation pipeline.
type ExportConfig struct {
	// Cutoff splits "level before" from "level after" and clamps the lower
	// bound of every export window.
	Cutoff time.Time
	// ProgramStart bounds registration submissions regardless of the
	// requested window.
	ProgramStart time.Time
	// Delivery selects DeliveryStream (response body) or DeliveryLocal
	// (SchoolData.csv / SchoolData.dat under OutputDir).
	Delivery       string
	OutputDir      string
	IncludeContact bool
	TotalsRecord   bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Auth = AuthConfig{
		Username:     v.GetString("AUTH_USERNAME"),
		PasswordHash: v.GetString("AUTH_PASSWORD_HASH"),
		JWTSecret:    v.GetString("JWT_SECRET"),
		TokenExpiry:  parseDuration(v.GetString("JWT_EXPIRATION"), time.Hour),
		Issuer:       v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cutoff, err := parseDate(v.GetString("EXPORT_CUTOFF_DATE"))
	if err != nil {
		return nil, fmt.Errorf("EXPORT_CUTOFF_DATE: %w", err)
	}
	programStart, err := parseDate(v.GetString("EXPORT_PROGRAM_START"))
	if err != nil {
		return nil, fmt.Errorf("EXPORT_PROGRAM_START: %w", err)
	}

	cfg.Export = ExportConfig{
		Cutoff:         cutoff,
		ProgramStart:   programStart,
		Delivery:       v.GetString("EXPORT_DELIVERY"),
		OutputDir:      v.GetString("EXPORT_OUTPUT_DIR"),
		IncludeContact: v.GetBool("EXPORT_INCLUDE_CONTACT"),
		TotalsRecord:   v.GetBool("EXPORT_TOTALS_RECORD"),
	}

	if cfg.Export.Delivery != DeliveryStream && cfg.Export.Delivery != DeliveryLocal {
		return nil, fmt.Errorf("EXPORT_DELIVERY must be %q or %q", DeliveryStream, DeliveryLocal)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8000)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "ilmpact")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("JWT_EXPIRATION", "1h")
	v.SetDefault("JWT_ISSUER", "steam-export-api")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	// Program milestones: cutoff 30 Sep 2025, STEAM Club registrations
	// counted from 17 Sep 2025.
	v.SetDefault("EXPORT_CUTOFF_DATE", "2025-09-30")
	v.SetDefault("EXPORT_PROGRAM_START", "2025-09-17")
	v.SetDefault("EXPORT_DELIVERY", DeliveryStream)
	v.SetDefault("EXPORT_OUTPUT_DIR", "./exports")
	v.SetDefault("EXPORT_INCLUDE_CONTACT", true)
	v.SetDefault("EXPORT_TOTALS_RECORD", false)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}

func parseDate(raw string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected YYYY-MM-DD, got %q", raw)
	}
	return t.UTC(), nil
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
