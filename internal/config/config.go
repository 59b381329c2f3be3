// Package config loads application configuration from environment
// variables (and an optional .env file loaded by the commands).
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/iliyamo/cinema-seat-booking/internal/model"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.
type Config struct {
	Env  string // application environment (e.g. "dev", "prod")
	Port string // HTTP port to listen on

	JWTSecret     string // secret used to sign box-office tokens; empty disables auth
	AccessTTLMin  int    // access token time-to-live in minutes
	BoxOfficeHash string // bcrypt hash of the box-office passcode
	BcryptCost    int    // bcrypt cost for --hash-passcode

	AMQPURL      string // RabbitMQ URL for booking events
	QueueEnabled bool   // publish booking events and run the log consumer
	QueueLogDir  string // directory the consumer writes booking.log into

	LogFile string // optional log file for the interactive front end

	Venue     VenueConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
}

// VenueConfig describes a venue created at startup.  An empty Title means
// no default venue.
type VenueConfig struct {
	Title       string
	Rows        int
	SeatsPerRow int
}

// Load reads configuration values from the environment and returns a
// Config.  Defaults apply to every unset variable; inconsistent settings
// are reported as an error.
func Load() (Config, error) {
	v := newViper()
	cfg := Config{
		Env:           v.GetString("APP_ENV"),
		Port:          v.GetString("APP_PORT"),
		JWTSecret:     v.GetString("JWT_SECRET"),
		AccessTTLMin:  v.GetInt("ACCESS_TOKEN_TTL_MIN"),
		BoxOfficeHash: v.GetString("BOX_OFFICE_PASSWORD_HASH"),
		BcryptCost:    v.GetInt("BCRYPT_COST"),
		AMQPURL:       firstNonEmpty(v.GetString("RABBITMQ_URL"), v.GetString("AMQP_URL")),
		QueueEnabled:  envBool(v, "QUEUE_ENABLED", false),
		QueueLogDir:   v.GetString("QUEUE_LOG_DIR"),
		LogFile:       v.GetString("CINEMA_LOG_FILE"),
		Venue: VenueConfig{
			Title:       strings.TrimSpace(v.GetString("VENUE_TITLE")),
			Rows:        v.GetInt("VENUE_ROWS"),
			SeatsPerRow: v.GetInt("VENUE_SEATS_PER_ROW"),
		},
		Redis:     loadRedisConfig(v),
		RateLimit: loadRateLimitConfig(v),
		Cache:     loadCacheConfig(v),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks settings that depend on each other.
func (c Config) Validate() error {
	if c.Port == "" {
		return errors.New("APP_PORT must not be empty")
	}
	if c.AccessTTLMin <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_TTL_MIN must be positive, got %d", c.AccessTTLMin)
	}
	if c.BoxOfficeHash != "" && c.JWTSecret == "" {
		return errors.New("BOX_OFFICE_PASSWORD_HASH requires JWT_SECRET")
	}
	if c.QueueEnabled && c.AMQPURL == "" {
		return errors.New("QUEUE_ENABLED requires RABBITMQ_URL")
	}
	if c.Venue.Title != "" {
		if c.Venue.Rows < 1 || c.Venue.Rows > model.MaxRows ||
			c.Venue.SeatsPerRow < 1 || c.Venue.SeatsPerRow > model.MaxSeatsPerRow {
			return fmt.Errorf("default venue needs 1-%d rows and 1-%d seats per row, got %dx%d",
				model.MaxRows, model.MaxSeatsPerRow, c.Venue.Rows, c.Venue.SeatsPerRow)
		}
	}
	return nil
}

// AuthEnabled reports whether mutating routes require a box-office token.
func (c Config) AuthEnabled() bool { return c.JWTSecret != "" }

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "dev")
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ACCESS_TOKEN_TTL_MIN", 60)
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("QUEUE_LOG_DIR", "logs")
	v.SetDefault("VENUE_ROWS", 8)
	v.SetDefault("VENUE_SEATS_PER_ROW", 10)

	setRedisDefaults(v)
	setRateLimitDefaults(v)
	setCacheDefaults(v)
	return v
}

// envBool accepts the usual spellings of true and false and falls back to
// def for anything else.
func envBool(v *viper.Viper, key string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(v.GetString(key))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return def
}

func firstNonEmpty(vals ...string) string {
	for _, s := range vals {
		if s != "" {
			return s
		}
	}
	return ""
}
