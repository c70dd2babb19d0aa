package config

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/IlikeChooros/go-minimax/pkg/connect4"
	"github.com/IlikeChooros/go-minimax/pkg/minimax"
)

const EnvPrefix = "MINIMAX"

type Config struct {
	// Search
	Depth    int `mapstructure:"depth" yaml:"depth"`
	WinScore int `mapstructure:"win_score" yaml:"win_score"`
	Inf      int `mapstructure:"inf" yaml:"inf"`
	Threads  int `mapstructure:"threads" yaml:"threads"`

	// Board
	Width   int `mapstructure:"width" yaml:"width"`
	Height  int `mapstructure:"height" yaml:"height"`
	Connect int `mapstructure:"connect" yaml:"connect"`

	// Arena
	Games   int `mapstructure:"games" yaml:"games"`
	Workers int `mapstructure:"workers" yaml:"workers"`

	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
}

func setDefaults(v *viper.Viper) {
	rules := connect4.Standard()
	v.SetDefault("depth", minimax.DefaultDepthLimit)
	v.SetDefault("win_score", int(minimax.DefaultWinScore))
	v.SetDefault("inf", int(minimax.DefaultInf))
	v.SetDefault("threads", minimax.UnlimitedThreads)
	v.SetDefault("width", rules.Width)
	v.SetDefault("height", rules.Height)
	v.SetDefault("connect", rules.Connect)
	v.SetDefault("games", 10)
	v.SetDefault("workers", 2)
	v.SetDefault("log_level", "info")
}

// Load the configuration, the file at 'path' is optional (empty path skips it).
// MINIMAX_* environment variables override the file, e.g. MINIMAX_DEPTH=6.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Limits() *minimax.Limits {
	return minimax.DefaultLimits().
		SetDepth(c.Depth).
		SetWinScore(minimax.Score(c.WinScore)).
		SetInf(minimax.Score(c.Inf)).
		SetThreads(c.Threads)
}

func (c *Config) Rules() connect4.Rules {
	return connect4.Rules{Width: c.Width, Height: c.Height, Connect: c.Connect}
}

func (c *Config) Level() (zerolog.Level, error) {
	return zerolog.ParseLevel(strings.ToLower(c.LogLevel))
}

func (c *Config) Validate() error {
	if err := c.Limits().Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := c.Rules().Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if bound := connect4.NewWindowHeuristic(c.Rules()).Bound(); minimax.Score(c.Inf) <= bound {
		return fmt.Errorf("config: %w: inf (%d) must be greater than the heuristic bound (%d)",
			minimax.ErrInvalidLimits, c.Inf, bound)
	}
	if _, err := c.Level(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Games < 0 || c.Workers < 1 {
		return fmt.Errorf("config: invalid arena setup, games=%d workers=%d", c.Games, c.Workers)
	}
	return nil
}

// Effective configuration as yaml, can be fed back to Load
func (c *Config) YAML() (string, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
