package config

import (
	"errors"
	"os"

	"github.com/spf13/viper"
)

// Size ceilings for the two upload flows. The checker flow accepts larger
// reference genomes than the mutation-finder flow.
const (
	DefaultAnalyzeMaxBytes  = 3 << 30 // 3 GiB, TB-checker flow
	DefaultMutationMaxBytes = 1 << 30 // 1 GiB, mutation-finder flow
)

type Config struct {
	Addr             string `mapstructure:"addr"`
	TemplatesDir     string `mapstructure:"templates_dir"`
	StaticDir        string `mapstructure:"static_dir"`
	SessionStore     string `mapstructure:"session_store"` // "json" or "sqlite"
	SessionPath      string `mapstructure:"session_path"`
	DatasetURL       string `mapstructure:"dataset_url"`
	CachePath        string `mapstructure:"cache_path"`
	CacheTTLSecs     int64  `mapstructure:"cache_ttl_seconds"`
	LogLevel         string `mapstructure:"log_level"`
	LogFile          string `mapstructure:"log_file"`
	Seed             int64  `mapstructure:"seed"`
	AnalyzeMaxBytes  int64  `mapstructure:"analyze_max_bytes"`
	MutationMaxBytes int64  `mapstructure:"mutation_max_bytes"`
}

// Load reads a JSON config from the given path. If path is empty, looks
// for ./config.json. A missing file is not fatal: defaults are returned.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("json")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
	}

	v.SetDefault("addr", ":8080")
	v.SetDefault("templates_dir", "web/templates")
	v.SetDefault("static_dir", "web/static")
	v.SetDefault("session_store", "json")
	v.SetDefault("session_path", "session.json")
	v.SetDefault("cache_ttl_seconds", int64(7*24*3600))
	v.SetDefault("log_level", "info")
	v.SetDefault("analyze_max_bytes", int64(DefaultAnalyzeMaxBytes))
	v.SetDefault("mutation_max_bytes", int64(DefaultMutationMaxBytes))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	return &c, nil
}
