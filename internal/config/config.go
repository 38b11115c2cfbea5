// Package config loads adaptquiz settings from an optional YAML file and
// ADAPTQUIZ_* environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/abhisek/adaptquiz/internal/engine"
	"github.com/abhisek/adaptquiz/internal/grading"
	"github.com/abhisek/adaptquiz/internal/quiz"
	"github.com/abhisek/adaptquiz/internal/selection"
	"github.com/abhisek/adaptquiz/internal/store"
)

// EnvPrefix is prepended to every environment override, e.g.
// ADAPTQUIZ_GRADING_OVERLAP_THRESHOLD.
const EnvPrefix = "ADAPTQUIZ"

type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	Grading   GradingConfig   `mapstructure:"grading"`
	Placement PlacementConfig `mapstructure:"placement"`
	Quiz      QuizConfig      `mapstructure:"quiz"`
	Log       LogConfig       `mapstructure:"log"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"` // sqlite or postgres
	DSN    string `mapstructure:"dsn"`    // file path for sqlite, URL for postgres
}

type GradingConfig struct {
	OverlapThreshold float64 `mapstructure:"overlap_threshold"`
}

// PlacementConfig is the number of questions per difficulty in a
// placement round.
type PlacementConfig struct {
	Easy   int `mapstructure:"easy"`
	Medium int `mapstructure:"medium"`
	Hard   int `mapstructure:"hard"`
}

type QuizConfig struct {
	DefaultCount int `mapstructure:"default_count"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"` // rotated JSON log; empty disables
}

// Load reads the config file at path, if any, applies environment
// overrides and validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.BindEnv("database.dsn", EnvPrefix+"_DATABASE_DSN", "ADAPTQUIZ_DB")

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	quota := selection.DefaultPlacementQuota()

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "")
	v.SetDefault("grading.overlap_threshold", grading.DefaultOverlapThreshold)
	v.SetDefault("placement.easy", quota[quiz.DifficultyEasy])
	v.SetDefault("placement.medium", quota[quiz.DifficultyMedium])
	v.SetDefault("placement.hard", quota[quiz.DifficultyHard])
	v.SetDefault("quiz.default_count", engine.DefaultQuizCount)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.file", "")
}

// Validate rejects settings the engine cannot run with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "", "sqlite", store.DriverSQLite, store.DriverPostgres:
	default:
		return fmt.Errorf("database.driver: unsupported driver %q", c.Database.Driver)
	}
	if t := c.Grading.OverlapThreshold; t <= 0 || t > 1 {
		return fmt.Errorf("grading.overlap_threshold: must be in (0, 1], got %v", t)
	}
	p := c.Placement
	if p.Easy < 0 || p.Medium < 0 || p.Hard < 0 {
		return fmt.Errorf("placement: quotas must not be negative, got %d/%d/%d", p.Easy, p.Medium, p.Hard)
	}
	if p.Easy+p.Medium+p.Hard == 0 {
		return fmt.Errorf("placement: at least one question is required")
	}
	if c.Quiz.DefaultCount <= 0 {
		return fmt.Errorf("quiz.default_count: must be positive, got %d", c.Quiz.DefaultCount)
	}
	return nil
}

// GradingConfig returns the grader settings.
func (c *Config) GradingConfig() grading.Config {
	return grading.Config{OverlapThreshold: c.Grading.OverlapThreshold}
}

// EngineConfig returns the engine settings.
func (c *Config) EngineConfig() engine.Config {
	return engine.Config{
		PlacementQuota: selection.Quota{
			quiz.DifficultyEasy:   c.Placement.Easy,
			quiz.DifficultyMedium: c.Placement.Medium,
			quiz.DifficultyHard:   c.Placement.Hard,
		},
		DefaultQuizCount: c.Quiz.DefaultCount,
	}
}

// StoreConfig returns the database settings.
func (c *Config) StoreConfig() store.Config {
	return store.Config{Driver: c.Database.Driver, DSN: c.Database.DSN}
}
