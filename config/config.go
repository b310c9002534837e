package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ahalia-sports/tournament-admin/pkg/observability"
)

// Config struct to hold the configuration settings
type Config struct {
	Postgres      PostgresConfig      `yaml:"postgres"`
	NATS          NATSConfig          `yaml:"nats"`
	HTTP          HTTPConfig          `yaml:"http"`
	JWT           JWTConfig           `yaml:"jwt"`
	Auth          AuthConfig          `yaml:"auth"`
	Queue         QueueConfig         `yaml:"queue"`
	Observability ObservabilityConfig `yaml:"observability"`
	Tournaments   []TournamentConfig  `yaml:"tournaments"`
}

// PostgresConfig holds Postgres configuration. An empty DSN selects in-memory storage.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// NATSConfig holds NATS configuration. An empty URL selects the in-process bus.
type NATSConfig struct {
	URL        string `yaml:"url"`
	QueueGroup string `yaml:"queue_group"`
}

// HTTPConfig holds the API server configuration.
type HTTPConfig struct {
	Address        string   `yaml:"address"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	RateLimit      float64  `yaml:"rate_limit"`
	RateBurst      int      `yaml:"rate_burst"`
}

// JWTConfig holds JWT configuration.
type JWTConfig struct {
	Secret     string        `yaml:"secret"`
	DefaultTTL time.Duration `yaml:"default_ttl"`
	Issuer     string        `yaml:"issuer"`
}

// AuthConfig lists the accounts allowed to sign in.
type AuthConfig struct {
	Accounts []AccountConfig `yaml:"accounts"`
}

// AccountConfig is a single sign-in account. PasswordHash is a bcrypt hash.
type AccountConfig struct {
	Email        string `yaml:"email"`
	PasswordHash string `yaml:"password_hash"`
	Role         string `yaml:"role"`
}

// QueueConfig controls the kickoff job queue.
type QueueConfig struct {
	Enabled    bool `yaml:"enabled"`
	MaxWorkers int  `yaml:"max_workers"`
}

// ObservabilityConfig holds configuration for observability components
type ObservabilityConfig struct {
	ServiceName string `yaml:"service_name"`
	Environment string `yaml:"environment"`
	LogLevel    string `yaml:"log_level"`
}

// TournamentConfig describes one tournament and its scheduling defaults.
type TournamentConfig struct {
	ID           string   `yaml:"id"`
	Name         string   `yaml:"name"`
	Sport        string   `yaml:"sport"`
	DrawPolicy   string   `yaml:"draw_policy"`
	Venues       []string `yaml:"venues"`
	KickoffTimes []string `yaml:"kickoff_times"`
	DayIncrement int      `yaml:"day_increment"`
	Timezone     string   `yaml:"timezone"`
	AutoStart    bool     `yaml:"auto_start"`
}

// DefaultTournaments returns the two college leagues with their usual venues and slots.
func DefaultTournaments() []TournamentConfig {
	venues := []string{"Main Ground", "Cricket Stadium", "Indoor Court"}
	times := []string{"15:00", "17:30"}
	return []TournamentConfig{
		{
			ID:           "asl",
			Name:         "Ahalia Soccer League",
			Sport:        "soccer",
			DrawPolicy:   "draws_allowed",
			Venues:       venues,
			KickoffTimes: times,
			DayIncrement: 3,
			Timezone:     "Asia/Kolkata",
		},
		{
			ID:           "apl",
			Name:         "Ahalia Premier League",
			Sport:        "cricket",
			DrawPolicy:   "winner_required",
			Venues:       venues,
			KickoffTimes: times,
			DayIncrement: 3,
			Timezone:     "Asia/Kolkata",
		},
	}
}

// LoadConfig loads the configuration from a YAML file.
func LoadConfig(filename string) (*Config, error) {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	data, err := os.ReadFile(filename)
	if err != nil {
		// If the file is not found, try loading from environment variables
		return loadConfigFromEnv()
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)

	return &cfg, nil
}

// applyEnvOverrides lets environment variables win over file values.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}
	if v := os.Getenv("JWT_DEFAULT_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid JWT_DEFAULT_TTL value: %w", err)
		}
		cfg.JWT.DefaultTTL = d
	}
	if v := os.Getenv("QUEUE_ENABLED"); v != "" {
		cfg.Queue.Enabled = v == "true"
	}
	if v := os.Getenv("QUEUE_MAX_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid QUEUE_MAX_WORKERS value: %w", err)
		}
		cfg.Queue.MaxWorkers = n
	}
	if v := os.Getenv("ENV"); v != "" {
		cfg.Observability.Environment = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}
	return nil
}

// loadConfigFromEnv loads the configuration from environment variables.
func loadConfigFromEnv() (*Config, error) {
	var cfg Config
	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, err
	}

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable not set")
	}

	// ADMIN_EMAIL / ADMIN_PASSWORD_HASH seed a single admin account.
	if email := os.Getenv("ADMIN_EMAIL"); email != "" {
		cfg.Auth.Accounts = append(cfg.Auth.Accounts, AccountConfig{
			Email:        email,
			PasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
			Role:         "admin",
		})
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.HTTP.Address == "" {
		cfg.HTTP.Address = ":8080"
	}
	if cfg.HTTP.RateLimit == 0 {
		cfg.HTTP.RateLimit = 10
	}
	if cfg.HTTP.RateBurst == 0 {
		cfg.HTTP.RateBurst = 20
	}
	if cfg.JWT.DefaultTTL == 0 {
		cfg.JWT.DefaultTTL = 24 * time.Hour
	}
	if cfg.JWT.Issuer == "" {
		cfg.JWT.Issuer = "tournament-admin"
	}
	if cfg.NATS.QueueGroup == "" {
		cfg.NATS.QueueGroup = "tournament-admin"
	}
	if cfg.Queue.MaxWorkers == 0 {
		cfg.Queue.MaxWorkers = 10
	}
	if cfg.Observability.ServiceName == "" {
		cfg.Observability.ServiceName = "tournament-admin"
	}
	if cfg.Observability.Environment == "" {
		cfg.Observability.Environment = "development"
	}
	if len(cfg.Tournaments) == 0 {
		cfg.Tournaments = DefaultTournaments()
	}
	for i := range cfg.Tournaments {
		t := &cfg.Tournaments[i]
		if len(t.KickoffTimes) == 0 {
			t.KickoffTimes = []string{"15:00", "17:30"}
		}
		if t.DayIncrement == 0 {
			t.DayIncrement = 3
		}
		if t.Timezone == "" {
			t.Timezone = "UTC"
		}
		if t.DrawPolicy == "" {
			t.DrawPolicy = "draws_allowed"
		}
	}
}

// Tournament returns the tournament with the given ID.
func (c *Config) Tournament(id string) (TournamentConfig, bool) {
	for _, t := range c.Tournaments {
		if t.ID == id {
			return t, true
		}
	}
	return TournamentConfig{}, false
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ToObsConfig maps the application config onto observability settings.
func ToObsConfig(appCfg *Config) observability.Config {
	return observability.Config{
		ServiceName: appCfg.Observability.ServiceName,
		Environment: appCfg.Observability.Environment,
		LogLevel:    appCfg.Observability.LogLevel,
	}
}
