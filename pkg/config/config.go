package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	// Server
	Port string `mapstructure:"PORT"`
	Env  string `mapstructure:"ENV"`

	// Logging
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// Data files
	DataDir            string `mapstructure:"DATA_DIR"`
	NCAACurrentPath    string `mapstructure:"NCAA_CURRENT_PATH"`
	NCAAHeaderPath     string `mapstructure:"NCAA_HEADER_PATH"`
	NCAAHistoryPath    string `mapstructure:"NCAA_HISTORY_PATH"`
	DraftedPath        string `mapstructure:"DRAFTED_PATH"`
	NBAStatsPath       string `mapstructure:"NBA_STATS_PATH"`
	NBAAdvancedPath    string `mapstructure:"NBA_ADVANCED_PATH"`
	NBAShootingPath    string `mapstructure:"NBA_SHOOTING_PATH"`
	ProjectionsPath    string `mapstructure:"PROJECTIONS_PATH"`
	NBAHeadshotIDsPath string `mapstructure:"NBA_HEADSHOT_IDS_PATH"`

	ProjectionsReloadSchedule string `mapstructure:"PROJECTIONS_RELOAD_SCHEDULE"`

	// Redis
	RedisURL string        `mapstructure:"REDIS_URL"`
	CacheTTL time.Duration `mapstructure:"CACHE_TTL"`

	// Database
	DatabaseURL               string `mapstructure:"DATABASE_URL"`
	SnapshotArchetypesOnStart bool   `mapstructure:"SNAPSHOT_ARCHETYPES_ON_START"`

	// JWT
	JWTSecret string `mapstructure:"JWT_SECRET"`

	// CORS
	CorsOrigins []string `mapstructure:"CORS_ORIGINS"`

	// Comparisons
	CompsK          int     `mapstructure:"COMPS_K"`
	CompMinMinutes  float64 `mapstructure:"COMP_MIN_MINUTES"`
	CompUsageBand   float64 `mapstructure:"COMP_USAGE_BAND"` // usage points on the 0-100 scale
	CompMinPoolSize int     `mapstructure:"COMP_MIN_POOL_SIZE"`

	// Archetypes
	ArchetypeK          int     `mapstructure:"ARCHETYPE_K"`
	ArchetypeMinMinutes float64 `mapstructure:"ARCHETYPE_MIN_MINUTES"`
	ArchetypeRestarts   int     `mapstructure:"ARCHETYPE_RESTARTS"`
	ArchetypeSeed       int64   `mapstructure:"ARCHETYPE_SEED"`

	// Headshots
	HeadshotTimeout       time.Duration `mapstructure:"HEADSHOT_TIMEOUT"`
	HeadshotRatePerSecond float64       `mapstructure:"HEADSHOT_RATE_PER_SECOND"`
}

func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")

	v.SetDefault("PORT", "5000")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "")

	v.SetDefault("DATA_DIR", "data")
	v.SetDefault("NCAA_CURRENT_PATH", "trank_data.csv")
	v.SetDefault("NCAA_HEADER_PATH", "pstatheaders.csv")
	v.SetDefault("NCAA_HISTORY_PATH", "CollegeBasketballPlayers2009-2021.csv")
	v.SetDefault("DRAFTED_PATH", "DraftedPlayers2009-2021.csv")
	v.SetDefault("NBA_STATS_PATH", "NBA_Stats_2026.csv")
	v.SetDefault("NBA_ADVANCED_PATH", "NBA_Advanced_2026.csv")
	v.SetDefault("NBA_SHOOTING_PATH", "NBA_Shooting_2026.csv")
	v.SetDefault("PROJECTIONS_PATH", "mlp_current_predictions_with_draftability.csv")
	v.SetDefault("NBA_HEADSHOT_IDS_PATH", "")
	v.SetDefault("PROJECTIONS_RELOAD_SCHEDULE", "@every 1h")

	v.SetDefault("REDIS_URL", "")
	v.SetDefault("CACHE_TTL", "15m")

	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("SNAPSHOT_ARCHETYPES_ON_START", false)

	v.SetDefault("JWT_SECRET", "your-secret-key")
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000")

	v.SetDefault("COMPS_K", 5)
	v.SetDefault("COMP_MIN_MINUTES", 2000)
	v.SetDefault("COMP_USAGE_BAND", 5.0)
	v.SetDefault("COMP_MIN_POOL_SIZE", 50)

	v.SetDefault("ARCHETYPE_K", 8)
	v.SetDefault("ARCHETYPE_MIN_MINUTES", 1500)
	v.SetDefault("ARCHETYPE_RESTARTS", 25)
	v.SetDefault("ARCHETYPE_SEED", 42)

	v.SetDefault("HEADSHOT_TIMEOUT", "8s")
	v.SetDefault("HEADSHOT_RATE_PER_SECOND", 2.0)

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if corsStr := v.GetString("CORS_ORIGINS"); corsStr != "" {
		config.CorsOrigins = strings.Split(corsStr, ",")
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) validate() error {
	if c.CompsK <= 0 {
		return fmt.Errorf("COMPS_K must be positive, got %d", c.CompsK)
	}
	if c.ArchetypeK <= 0 {
		return fmt.Errorf("ARCHETYPE_K must be positive, got %d", c.ArchetypeK)
	}
	if c.ArchetypeRestarts <= 0 {
		return fmt.Errorf("ARCHETYPE_RESTARTS must be positive, got %d", c.ArchetypeRestarts)
	}
	if c.CompUsageBand < 0 {
		return fmt.Errorf("COMP_USAGE_BAND must not be negative, got %v", c.CompUsageBand)
	}
	return nil
}

// DataPath resolves a configured file name against DATA_DIR. Absolute paths
// and empty names are returned unchanged.
func (c *Config) DataPath(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
