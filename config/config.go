package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"os-scheduler/internal/logger"
	"os-scheduler/internal/schedulers"
)

const (
	DefaultPort                  = 9095
	DefaultPolicy                = "fcfs"
	DefaultRoundRobinTimeQuantum = 2
	EnvPrefix                    = "CPUSCHED"
)

type SchedulerConfig struct {
	Port                  int
	DefaultPolicy         string
	RoundRobinTimeQuantum int
	MetricsEnabled        bool
	Log                   logger.Config
}

// Load reads the YAML file at path, or ./config.yaml when path is empty.
// Environment variables prefixed with CPUSCHED_ override file values, e.g.
// CPUSCHED_SCHEDULER_ROUND_ROBIN_TIME_QUANTUM. A missing ./config.yaml is
// not an error; a missing explicit path is.
func Load(path string) (*SchedulerConfig, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	config := fromViper(v)
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Default returns the configuration used when no file is present.
func Default() *SchedulerConfig {
	v := viper.New()
	setDefaults(v)
	return fromViper(v)
}

func fromViper(v *viper.Viper) *SchedulerConfig {
	return &SchedulerConfig{
		Port:                  v.GetInt("port"),
		DefaultPolicy:         v.GetString("scheduler.default_policy"),
		RoundRobinTimeQuantum: v.GetInt("scheduler.round_robin.time_quantum"),
		MetricsEnabled:        v.GetBool("metrics.enabled"),
		Log: logger.Config{
			Level:      v.GetString("log.level"),
			Format:     v.GetString("log.format"),
			File:       v.GetString("log.file"),
			MaxSizeMB:  v.GetInt("log.max_size_mb"),
			MaxBackups: v.GetInt("log.max_backups"),
			MaxAgeDays: v.GetInt("log.max_age_days"),
			Compress:   v.GetBool("log.compress"),
		},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", DefaultPort)
	v.SetDefault("scheduler.default_policy", DefaultPolicy)
	v.SetDefault("scheduler.round_robin.time_quantum", DefaultRoundRobinTimeQuantum)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", logger.DefaultMaxSizeMB)
	v.SetDefault("log.max_backups", logger.DefaultMaxBackups)
	v.SetDefault("log.max_age_days", logger.DefaultMaxAgeDays)
	v.SetDefault("log.compress", false)
}

// Validate rejects settings that would only fail once a simulation starts.
func (c *SchedulerConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.RoundRobinTimeQuantum <= 0 {
		return fmt.Errorf("scheduler.round_robin.time_quantum: %w: got %d", schedulers.ErrInvalidQuantum, c.RoundRobinTimeQuantum)
	}
	if _, err := schedulers.ParsePolicy(c.DefaultPolicy); err != nil {
		return fmt.Errorf("scheduler.default_policy: %w", err)
	}
	return nil
}
