// Package config loads the project file qmlhover.toml.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
)

// FileName is the project file searched for from the working directory up.
const FileName = "qmlhover.toml"

// DefaultHelpDB is the help index location relative to the project root.
const DefaultHelpDB = ".qmlhover/help.db"

// Config is the decoded project file. Relative paths are resolved against
// Root by Load.
type Config struct {
	// Root is the directory holding the project file, or the start
	// directory when there is none.
	Root string `toml:"-"`
	// Path is the project file that was read, empty when none was found.
	Path string `toml:"-"`

	ImportPaths []string `toml:"import_paths"`
	HelpDB      string   `toml:"help_db"`
	HelpPrefix  string   `toml:"help_prefix"`
	LogLevel    string   `toml:"log_level"`
}

// Default returns the configuration used when no project file exists.
func Default(root string) *Config {
	return &Config{
		Root:   root,
		HelpDB: filepath.Join(root, filepath.FromSlash(DefaultHelpDB)),
	}
}

// Load finds the project file above startDir and decodes it. A missing file
// is not an error: the defaults rooted at startDir are returned.
func Load(startDir string) (*Config, error) {
	root, ok := FindProjectRoot(startDir)
	if !ok {
		return Default(startDir), nil
	}
	return LoadFile(filepath.Join(root, FileName))
}

// LoadFile decodes the project file at path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	cfg.Path = path
	cfg.Root = filepath.Dir(path)
	cfg.resolve()
	return cfg, nil
}

// Parse decodes project file contents without resolving paths.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	switch strings.ToLower(cfg.LogLevel) {
	case "", "error", "warning", "notice", "info", "debug":
	default:
		return nil, fmt.Errorf("unknown log_level %q", cfg.LogLevel)
	}
	return cfg, nil
}

func (c *Config) resolve() {
	for i, p := range c.ImportPaths {
		c.ImportPaths[i] = c.abs(p)
	}
	if c.HelpDB == "" {
		c.HelpDB = DefaultHelpDB
	}
	c.HelpDB = c.abs(c.HelpDB)
}

func (c *Config) abs(p string) string {
	p = filepath.FromSlash(p)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, p)
}

// FindProjectRoot walks up from startDir to the first directory containing
// the project file.
func FindProjectRoot(startDir string) (string, bool) {
	dir := startDir
	for {
		info, err := os.Stat(filepath.Join(dir, FileName))
		if err == nil && !info.IsDir() {
			return dir, true
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", false
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root without finding the file.
			return "", false
		}
		dir = parent
	}
}

// Verbosity maps LogLevel to a commonlog verbosity. An empty level
// returns fallback.
func (c *Config) Verbosity(fallback int) int {
	return Verbosity(c.LogLevel, fallback)
}

// Verbosity maps a level name to a commonlog verbosity.
func Verbosity(level string, fallback int) int {
	switch strings.ToLower(level) {
	case "error":
		return 0
	case "warning":
		return 1
	case "notice":
		return 2
	case "info":
		return 3
	case "debug":
		return 4
	}
	return fallback
}
