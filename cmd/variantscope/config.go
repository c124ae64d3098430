package main

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/tinytelemetry/variantscope/internal/model"
	"github.com/tinytelemetry/variantscope/internal/socketrpc"

	"github.com/spf13/viper"
)

const (
	defaultBindHost     = "127.0.0.1"
	defaultAPIPort      = 3000
	defaultMetric       = model.DefaultMetric
	defaultBarLimit     = model.DefaultBarLimit
	defaultSkin         = model.DefaultSkin
	defaultQueryTimeout = model.DefaultQueryTimeout
)

// appConfig is internal runtime configuration.
// It is package-private to keep defaults and shape local to the CLI entrypoint.
type appConfig struct {
	DataPath           string        `mapstructure:"data-path"`
	DefaultCountry     string        `mapstructure:"default-country"`
	DefaultVariant     string        `mapstructure:"default-variant"`
	DefaultMetric      string        `mapstructure:"default-metric"`
	BarLimit           int           `mapstructure:"bar-limit"`
	Skin               string        `mapstructure:"skin"`
	ReverseScrollWheel bool          `mapstructure:"reverse-scroll-wheel"`
	SocketPath         string        `mapstructure:"socket-path"`
	APIEnabled         bool          `mapstructure:"api-enabled"`
	APIPort            int           `mapstructure:"api-port"`
	APIAddr            string        `mapstructure:"api-addr"`
	QueryTimeout       time.Duration `mapstructure:"query-timeout"`
	ConfigPath         string        `mapstructure:"-"` // not from config file
}

func loadConfig(configPath string) (appConfig, error) {
	var cfg appConfig

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
	v.SetDefault("default-metric", string(defaultMetric))
	v.SetDefault("bar-limit", defaultBarLimit)
	v.SetDefault("skin", defaultSkin)
	v.SetDefault("reverse-scroll-wheel", false)
	v.SetDefault("socket-path", socketrpc.DefaultSocketPath())
	v.SetDefault("api-enabled", true)
	v.SetDefault("api-port", defaultAPIPort)
	v.SetDefault("api-addr", "")
	v.SetDefault("query-timeout", defaultQueryTimeout)

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
	if _, err := os.Stat(v.ConfigFileUsed()); err == nil {
		cfg.ConfigPath = v.ConfigFileUsed()
	}

	if cfg.APIPort <= 0 || cfg.APIPort > 65535 {
		return cfg, fmt.Errorf("invalid api-port: %d", cfg.APIPort)
	}
	if _, err := model.ParseMetric(cfg.DefaultMetric); err != nil {
		return cfg, fmt.Errorf("invalid default-metric: %w", err)
	}
	if cfg.BarLimit <= 0 {
		return cfg, fmt.Errorf("invalid bar-limit: %d", cfg.BarLimit)
	}

	// Expand ~ in data-path
	if strings.HasPrefix(cfg.DataPath, "~/") {
		cfg.DataPath = filepath.Join(home, cfg.DataPath[2:])
	}

	if cfg.APIAddr == "" {
		cfg.APIAddr = net.JoinHostPort(defaultBindHost, strconv.Itoa(cfg.APIPort))
	}

	return cfg, nil
}
