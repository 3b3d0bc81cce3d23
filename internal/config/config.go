// Package config loads server settings from .env files, the environment
// and command-line flags.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"sketchpad/internal/canvas"
	"sketchpad/internal/middleware"
)

const EnvPrefix = "SKETCHPAD"

// Config is the resolved server configuration
type Config struct {
	Addr              string  `mapstructure:"addr"`
	Domains           string  `mapstructure:"domains"`
	CanvasWidth       int     `mapstructure:"canvas_width"`
	CanvasHeight      int     `mapstructure:"canvas_height"`
	Background        string  `mapstructure:"background"`
	MaxRooms          int     `mapstructure:"max_rooms"`
	MaxRoomSize       int     `mapstructure:"max_room_size"`
	MaxShapes         int     `mapstructure:"max_shapes"`
	MaxMessageSize    int     `mapstructure:"max_message_size"`
	MessagesPerSecond float64 `mapstructure:"messages_per_second"`
	BurstSize         int     `mapstructure:"burst_size"`
	LogLevel          string  `mapstructure:"log_level"`
	LogFormat         string  `mapstructure:"log_format"`
}

// SetDefaults registers every key so the environment can override it
func SetDefaults(v *viper.Viper) {
	v.SetDefault("addr", ":8080")
	v.SetDefault("domains", "")
	v.SetDefault("canvas_width", canvas.DefaultWidth)
	v.SetDefault("canvas_height", canvas.DefaultHeight)
	v.SetDefault("background", canvas.DefaultBackground)
	v.SetDefault("max_rooms", 100)
	v.SetDefault("max_room_size", 20)
	v.SetDefault("max_shapes", 50000)
	v.SetDefault("max_message_size", 4096)
	v.SetDefault("messages_per_second", 120)
	v.SetDefault("burst_size", 60)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
}

// Load reads envFiles (missing files are skipped) into the process
// environment, then resolves v against defaults, environment and any
// flags already bound to v.
func Load(v *viper.Viper, envFiles ...string) (*Config, error) {
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", file, err)
		}
	}

	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	// DOMAINS without prefix is still honoured
	if err := v.BindEnv("domains", EnvPrefix+"_DOMAINS", "DOMAINS"); err != nil {
		return nil, err
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

// Validate rejects settings the server cannot run with
func (c *Config) Validate() error {
	positive := map[string]int{
		"canvas_width":     c.CanvasWidth,
		"canvas_height":    c.CanvasHeight,
		"max_rooms":        c.MaxRooms,
		"max_room_size":    c.MaxRoomSize,
		"max_shapes":       c.MaxShapes,
		"max_message_size": c.MaxMessageSize,
		"burst_size":       c.BurstSize,
	}
	for key, value := range positive {
		if value <= 0 {
			return fmt.Errorf("config: %s must be positive, got %d", key, value)
		}
	}

	if c.MessagesPerSecond <= 0 {
		return fmt.Errorf("config: messages_per_second must be positive, got %v", c.MessagesPerSecond)
	}

	if _, err := canvas.ParseColor(c.Background); err != nil {
		return fmt.Errorf("config: background: %w", err)
	}

	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("config: log_format must be text or json, got %q", c.LogFormat)
	}

	return nil
}

// AllowedOrigins splits the comma-separated domain list
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, d := range strings.Split(c.Domains, ",") {
		if d = strings.TrimSpace(d); d != "" {
			origins = append(origins, d)
		}
	}
	return origins
}

// Canvas returns the surface options for new rooms
func (c *Config) Canvas() canvas.Options {
	return canvas.Options{
		Width:      c.CanvasWidth,
		Height:     c.CanvasHeight,
		Background: c.Background,
	}
}

// RateLimit returns the capacity limits
func (c *Config) RateLimit() *middleware.RateLimit {
	return &middleware.RateLimit{
		MaxRoomSize:       c.MaxRoomSize,
		MaxShapes:         c.MaxShapes,
		MaxMessageSize:    c.MaxMessageSize,
		MaxRooms:          c.MaxRooms,
		MessagesPerSecond: c.MessagesPerSecond,
		BurstSize:         c.BurstSize,
	}
}

// NewLogger builds the process logger
func NewLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: lvl}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

func parseLevel(level string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return 0, fmt.Errorf("config: invalid log_level %q", level)
	}
	return lvl, nil
}
