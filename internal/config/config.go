// Package config loads settings from a TOML file over built-in defaults.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"InfiniteBoard/internal/input"
	"InfiniteBoard/internal/render"
	"InfiniteBoard/internal/state"
)

// FileName is looked up in the home directory when no path is given.
const FileName = ".infiniteboard.toml"

type Config struct {
	Server Server `toml:"server"`
	Canvas Canvas `toml:"canvas"`
	Log    Log    `toml:"log"`
}

type Server struct {
	Addr        string `toml:"addr"`
	UploadDir   string `toml:"upload_dir"`
	MaxUploadMB int64  `toml:"max_upload_mb"`
	Advertise   bool   `toml:"advertise"`
	Instance    string `toml:"instance"`
}

type Canvas struct {
	Width      int     `toml:"width"`
	Height     int     `toml:"height"`
	Color      string  `toml:"color"`
	BrushSize  float64 `toml:"brush_size"`
	Strategy   string  `toml:"strategy"`
	AllowPan   bool    `toml:"allow_pan"`
	WheelScale float64 `toml:"wheel_scale"`
}

type Log struct {
	Level string `toml:"level"`
}

func Default() Config {
	tool := input.DefaultConfig()
	return Config{
		Server: Server{
			Addr:        ":8080",
			UploadDir:   "uploads",
			MaxUploadMB: 64,
			Advertise:   true,
		},
		Canvas: Canvas{
			Width:      1280,
			Height:     800,
			Color:      tool.Color,
			BrushSize:  tool.Size,
			Strategy:   "incremental",
			WheelScale: 1,
		},
		Log: Log{Level: "info"},
	}
}

// DefaultPath returns $HOME/.infiniteboard.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, FileName), nil
}

// Load decodes path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Default(), fmt.Errorf("parse %s: %w", path, err)
	}
	for _, key := range md.Undecoded() {
		slog.Warn("unknown config key", "file", path, "key", key.String())
	}
	return cfg, cfg.Validate()
}

// Validate reports settings that cannot be used as given.
func (c Config) Validate() error {
	var errs []error
	if c.Canvas.Width < 0 || c.Canvas.Height < 0 {
		errs = append(errs, fmt.Errorf("canvas size %dx%d is negative", c.Canvas.Width, c.Canvas.Height))
	}
	if _, ok := render.ParseColor(c.Canvas.Color); !ok {
		errs = append(errs, fmt.Errorf("canvas color %q is not a color", c.Canvas.Color))
	}
	if c.Canvas.WheelScale <= 0 {
		errs = append(errs, fmt.Errorf("wheel_scale must be positive, got %v", c.Canvas.WheelScale))
	}
	if s := c.Canvas.Strategy; s != "" && s != "full" && s != "incremental" {
		errs = append(errs, fmt.Errorf("unknown render strategy %q", s))
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	if c.Server.MaxUploadMB < 0 {
		errs = append(errs, fmt.Errorf("max_upload_mb must not be negative"))
	}
	return errors.Join(errs...)
}

// Tool converts the canvas section to the tool settings boards start with.
func (c Canvas) Tool() input.Config {
	return input.Config{
		Mode:     state.ModeDraw,
		Color:    c.Color,
		Size:     c.BrushSize,
		AllowPan: c.AllowPan,
	}.Normalized()
}

// Size is the initial surface size.
func (c Canvas) Size() render.Size {
	return render.Size{Width: c.Width, Height: c.Height}
}

// MaxUploadBytes converts MaxUploadMB; zero means unlimited.
func (s Server) MaxUploadBytes() int64 {
	return s.MaxUploadMB << 20
}

func (l Log) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(l.Level))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level: %w", err)
	}
	return lvl, nil
}
