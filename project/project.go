// Package project loads the jfront.toml settings of a working directory.
package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// FileName is the configuration file Load looks for.
const FileName = "jfront.toml"

type Config struct {
	Output   Output   `toml:"output"`
	Analysis Analysis `toml:"analysis"`
	Server   Server   `toml:"server"`
	Scan     Scan     `toml:"scan"`

	// Path is the file the config was read from, empty for defaults.
	Path string `toml:"-"`
}

type Output struct {
	Format string `toml:"format"`
	Width  int    `toml:"width"`
}

type Analysis struct {
	Warnings       bool `toml:"warnings"`
	StructuralGate bool `toml:"structural_gate"`
}

type Server struct {
	Addr string `toml:"addr"`
}

type Scan struct {
	Workers int      `toml:"workers"`
	Include []string `toml:"include"`
}

func Default() *Config {
	return &Config{
		Output:   Output{Format: "table", Width: 100},
		Analysis: Analysis{Warnings: true, StructuralGate: true},
		Server:   Server{Addr: ":8080"},
		Scan:     Scan{Workers: runtime.NumCPU(), Include: []string{"*.java"}},
	}
}

// Load reads jfront.toml from the current directory.
func Load() (*Config, error) {
	return LoadFrom(".")
}

// LoadFrom reads jfront.toml from dir. A missing file yields the
// defaults.
func LoadFrom(dir string) (*Config, error) {
	cfg, err := LoadFile(filepath.Join(dir, FileName))
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// LoadFile reads the configuration at path. Unlike LoadFrom it fails when
// the file does not exist.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// Decode parses TOML on top of the defaults, so keys left out keep their
// default value.
func Decode(data []byte) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var formats = map[string]bool{"table": true, "line": true, "json": true}

func (c *Config) Validate() error {
	if !formats[c.Output.Format] {
		return fmt.Errorf("output.format: unknown format %q", c.Output.Format)
	}
	if c.Output.Width < 0 {
		return fmt.Errorf("output.width: must not be negative, got %d", c.Output.Width)
	}
	if c.Scan.Workers < 1 {
		return fmt.Errorf("scan.workers: must be at least 1, got %d", c.Scan.Workers)
	}
	for _, pattern := range c.Scan.Include {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return fmt.Errorf("scan.include: bad pattern %q: %w", pattern, err)
		}
	}
	return nil
}

// Includes reports whether the base name of path matches one of the
// scan include patterns.
func (c *Config) Includes(path string) bool {
	return Matches(c.Scan.Include, path)
}

func Matches(patterns []string, path string) bool {
	base := filepath.Base(path)
	for _, pattern := range patterns {
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
	}
	return false
}
