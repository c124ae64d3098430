package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tinytelemetry/variantscope/internal/model"
	"github.com/tinytelemetry/variantscope/internal/socketrpc"

	"github.com/spf13/viper"
)

// cliConfig holds only dashboard-relevant configuration.
type cliConfig struct {
	DataPath           string        `mapstructure:"data-path"`
	DefaultCountry     string        `mapstructure:"default-country"`
	DefaultVariant     string        `mapstructure:"default-variant"`
	DefaultMetric      string        `mapstructure:"default-metric"`
	BarLimit           int           `mapstructure:"bar-limit"`
	Skin               string        `mapstructure:"skin"`
	ReverseScrollWheel bool          `mapstructure:"reverse-scroll-wheel"`
	SocketPath         string        `mapstructure:"socket-path"`
	QueryTimeout       time.Duration `mapstructure:"query-timeout"`
}

func loadCLIConfig(configPath string) (cliConfig, error) {
	var cfg cliConfig

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, fmt.Errorf("finding home directory: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("VARIANTSCOPE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("data-path", "")
	v.SetDefault("default-country", "")
	v.SetDefault("default-variant", "")
	v.SetDefault("default-metric", string(model.DefaultMetric))
	v.SetDefault("bar-limit", model.DefaultBarLimit)
	v.SetDefault("skin", model.DefaultSkin)
	v.SetDefault("reverse-scroll-wheel", false)
	v.SetDefault("socket-path", socketrpc.DefaultSocketPath())
	v.SetDefault("query-timeout", model.DefaultQueryTimeout)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigFile(filepath.Join(home, ".config", "variantscope", "config.yml"))
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	if _, err := model.ParseMetric(cfg.DefaultMetric); err != nil {
		return cfg, fmt.Errorf("invalid default-metric: %w", err)
	}
	if cfg.BarLimit <= 0 {
		return cfg, fmt.Errorf("invalid bar-limit: %d", cfg.BarLimit)
	}
	if strings.HasPrefix(cfg.DataPath, "~/") {
		cfg.DataPath = filepath.Join(home, cfg.DataPath[2:])
	}

	return cfg, nil
}
