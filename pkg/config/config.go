// Package config loads the picker configuration from YAML.
//
// A config file looks like:
//
//	marks: [100, 200, 500, 1000, 5000, .inf]
//	use_metric_system: false
//	mark_spacing: 50
//	increments_per_mark: 5
//	history:
//	  driver: sqlite
//	  path: ~/.config/dp/history.db
//
// Every key is optional. A missing use_metric_system defers to the locale.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Dicklesworthstone/distance_picker/pkg/marks"
	"github.com/Dicklesworthstone/distance_picker/pkg/picker"
	"github.com/Dicklesworthstone/distance_picker/pkg/units"
)

// ErrInvalidConfig wraps every parse or validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// FileName is the config file name looked up in each search directory.
const FileName = "config.yaml"

// History drivers. Both register with database/sql under these names.
const (
	DriverCGO  = "sqlite3" // github.com/mattn/go-sqlite3
	DriverPure = "sqlite"  // modernc.org/sqlite
)

// MarkValue is a mark as written in YAML: a number, or .inf, inf or ∞ for
// the infinite sentinel.
type MarkValue float64

// UnmarshalYAML implements yaml.Unmarshaler
func (m *MarkValue) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: line %d: mark must be a scalar", ErrInvalidConfig, value.Line)
	}
	switch strings.ToLower(strings.TrimSpace(value.Value)) {
	case "inf", "+inf", ".inf", "+.inf", "infinity", units.InfinityGlyph:
		*m = MarkValue(units.Infinite)
		return nil
	}
	var f float64
	if err := value.Decode(&f); err != nil {
		return fmt.Errorf("%w: line %d: mark %q is not a number", ErrInvalidConfig, value.Line, value.Value)
	}
	if math.IsNaN(f) {
		return fmt.Errorf("%w: line %d: mark is NaN", ErrInvalidConfig, value.Line)
	}
	if units.IsInfinite(f) {
		f = units.Infinite
	}
	*m = MarkValue(f)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (m MarkValue) MarshalYAML() (any, error) {
	if units.IsInfinite(float64(m)) {
		return units.InfinityGlyph, nil
	}
	return float64(m), nil
}

// History configures the selection history database.
type History struct {
	Disabled bool   `yaml:"disabled,omitempty"`
	Driver   string `yaml:"driver,omitempty"`
	Path     string `yaml:"path,omitempty"`
}

// Config is the on-disk configuration.
type Config struct {
	Marks             []MarkValue `yaml:"marks,omitempty"`
	UseMetricSystem   *bool       `yaml:"use_metric_system,omitempty"`
	MarkSpacing       float64     `yaml:"mark_spacing,omitempty"`
	IncrementsPerMark int         `yaml:"increments_per_mark,omitempty"`
	History           History     `yaml:"history,omitempty"`
}

// Default returns the configuration used when no file is found.
func Default() Config {
	c := withNumericDefaults()
	c.applyDefaults()
	return c
}

// withNumericDefaults presets the fields where zero is a value the file
// may state, and must then be rejected rather than replaced.
func withNumericDefaults() Config {
	return Config{
		MarkSpacing:       picker.DefaultMarkSpacing,
		IncrementsPerMark: picker.DefaultIncrementsPerMark,
	}
}

func (c *Config) applyDefaults() {
	if len(c.Marks) == 0 {
		c.Marks = make([]MarkValue, len(marks.DefaultMarks))
		for i, m := range marks.DefaultMarks {
			c.Marks[i] = MarkValue(m)
		}
	}
	if c.History.Driver == "" {
		c.History.Driver = DriverPure
	}
	if c.History.Path == "" {
		c.History.Path = filepath.Join(ConfigDir(), "history.db")
	}
}

// RawMarks returns the marks as plain floats.
func (c Config) RawMarks() []float64 {
	out := make([]float64, len(c.Marks))
	for i, m := range c.Marks {
		out[i] = float64(m)
	}
	return out
}

// Picker converts the file configuration into an engine configuration.
// localeMetric is used when the file does not pin the unit system.
func (c Config) Picker(localeMetric bool) picker.Config {
	useMetric := localeMetric
	if c.UseMetricSystem != nil {
		useMetric = *c.UseMetricSystem
	}
	return picker.Config{
		Marks:             c.RawMarks(),
		UseMetricSystem:   useMetric,
		MarkSpacing:       c.MarkSpacing,
		IncrementsPerMark: c.IncrementsPerMark,
	}
}

// Validate checks the picker and history settings.
func (c Config) Validate() error {
	if err := c.Picker(true).Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	switch c.History.Driver {
	case DriverCGO, DriverPure:
	default:
		return fmt.Errorf("%w: unknown history driver %q (want %q or %q)",
			ErrInvalidConfig, c.History.Driver, DriverPure, DriverCGO)
	}
	return nil
}

// Parse decodes YAML, fills defaults and validates the result.
func Parse(data []byte) (Config, error) {
	c := withNumericDefaults()
	if err := yaml.Unmarshal(data, &c); err != nil {
		if errors.Is(err, ErrInvalidConfig) {
			return Config{}, err
		}
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	c.applyDefaults()
	c.History.Path = expandHome(c.History.Path)
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Marshal encodes c as YAML.
func Marshal(c Config) ([]byte, error) {
	return yaml.Marshal(c)
}

// ConfigDir is the per-user configuration directory.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".dp")
	}
	return filepath.Join(home, ".config", "dp")
}

// SearchPaths lists the files Load tries, in order, when no explicit path
// is given.
func SearchPaths() []string {
	paths := []string{filepath.Join(".dp", FileName)}
	if dir := ConfigDir(); dir != ".dp" {
		paths = append(paths, filepath.Join(dir, FileName))
	}
	return paths
}

// Load reads the config at path. An empty path searches SearchPaths and
// falls back to Default when none exists. The returned string names the
// file that was read, or is empty for defaults.
func Load(path string) (Config, string, error) {
	if path != "" {
		c, err := LoadFile(path)
		return c, path, err
	}
	return LoadFirst(SearchPaths())
}

// LoadFirst loads the first existing file of paths.
func LoadFirst(paths []string) (Config, string, error) {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		c, err := LoadFile(p)
		return c, p, err
	}
	return Default(), "", nil
}

// LoadFile reads and parses one file.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return c, nil
}

// Save writes c to path atomically via a temp file.
func Save(path string, c Config) error {
	if err := c.Validate(); err != nil {
		return err
	}
	data, err := Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
