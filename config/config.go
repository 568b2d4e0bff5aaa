package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/FACorreiaa/go-vinebar-venice/internal/flow"
	"github.com/FACorreiaa/go-vinebar-venice/internal/types"
)

//go:embed config.yml
var embeddedConfig []byte

// Storage drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

type Config struct {
	Mode   string `mapstructure:"mode"`
	Server struct {
		HTTPPort string        `mapstructure:"HTTPPort"`
		Timeout  time.Duration `mapstructure:"HTTPTimeout"`
	} `mapstructure:"server"`
	Storage struct {
		Driver string `mapstructure:"driver"`
	} `mapstructure:"storage"`
	Repositories struct {
		Postgres struct {
			Host              string `mapstructure:"host"`
			Password          string `mapstructure:"password"`
			Port              string `mapstructure:"port"`
			Username          string `mapstructure:"username"`
			DB                string `mapstructure:"db"`
			SSLMODE           string `mapstructure:"SSLMODE"`
			MAXCONWAITINGTIME int    `mapstructure:"MAXCONWAITINGTIME"`
		} `mapstructure:"postgres"`
		SQLite struct {
			Path string `mapstructure:"path"`
		} `mapstructure:"sqlite"`
	} `mapstructure:"repositories"`
	Observability struct {
		Prometheus struct {
			Port string `mapstructure:"port"`
		} `mapstructure:"prometheus"`
	} `mapstructure:"observability"`
	Flow flow.Durations `mapstructure:"flow"`
	Map  struct {
		DefaultRegion types.MapRegion `mapstructure:"defaultRegion"`
	} `mapstructure:"map"`
}

// InitConfig reads config.yml from the usual places, falling back to the
// embedded copy. VINEBAR_* environment variables override file values,
// e.g. VINEBAR_STORAGE_DRIVER=sqlite.
func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	v.SetEnvPrefix("VINEBAR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %w", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err = config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

// Validate checks the values the rest of the app relies on and fills in
// defaults for optional ones.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverPostgres, DriverSQLite, DriverMemory:
	case "":
		c.Storage.Driver = DriverSQLite
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Storage.Driver == DriverSQLite && c.Repositories.SQLite.Path == "" {
		return fmt.Errorf("repositories.sqlite.path is required for the sqlite driver")
	}
	if c.Server.HTTPPort == "" {
		c.Server.HTTPPort = "8000"
	}
	if c.Map.DefaultRegion.LatitudeDelta <= 0 || c.Map.DefaultRegion.LongitudeDelta <= 0 {
		c.Map.DefaultRegion = types.DefaultMapRegion
	}

	def := flow.DefaultDurations()
	if c.Flow.SplashImage <= 0 {
		c.Flow.SplashImage = def.SplashImage
	}
	if c.Flow.Onboarding <= 0 {
		c.Flow.Onboarding = def.Onboarding
	}
	if c.Flow.CategoryReveal <= 0 {
		c.Flow.CategoryReveal = def.CategoryReveal
	}
	if c.Flow.SurpriseReveal <= 0 {
		c.Flow.SurpriseReveal = def.SurpriseReveal
	}
	return nil
}
