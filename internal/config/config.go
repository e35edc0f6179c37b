package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// FileName is the config file looked up in the working directory and next
// to the executable.
const FileName = "xrdconv.toml"

type Config struct {
	Naming Naming    `toml:"naming"`
	Log    LogConfig `toml:"log"`
}

// Naming controls the extensions used when an output path is not given.
type Naming struct {
	TextExt string `toml:"text_ext"`
	XYExt   string `toml:"xy_ext"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

func DefaultConfig() *Config {
	return &Config{
		Naming: DefaultNaming(),
		Log: LogConfig{
			Level: "info",
		},
	}
}

func DefaultNaming() Naming {
	return Naming{
		TextExt: ".txt",
		XYExt:   ".xy",
	}
}

// Load reads the config at path. An empty path searches the working
// directory and then the executable's directory; if neither has a config
// file the defaults are returned.
func Load(path string) (*Config, error) {
	if path != "" {
		return loadFile(path)
	}

	for _, dir := range searchDirs() {
		cfg, err := loadFile(filepath.Join(dir, FileName))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return cfg, err
	}

	return DefaultConfig(), nil
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.Naming = cfg.Naming.normalize()

	if _, err := ParseLevel(cfg.Log.Level); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

func searchDirs() []string {
	dirs := []string{"."}
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(exe))
	}
	return dirs
}

// normalize fills blank extensions with the defaults and makes sure each
// starts with a dot.
func (n Naming) normalize() Naming {
	def := DefaultNaming()
	n.TextExt = normalizeExt(n.TextExt, def.TextExt)
	n.XYExt = normalizeExt(n.XYExt, def.XYExt)
	return n
}

func normalizeExt(ext, fallback string) string {
	ext = strings.TrimSpace(ext)
	if ext == "" {
		return fallback
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// ParseLevel maps a config level name to a slog level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}
