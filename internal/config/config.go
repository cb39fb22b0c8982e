// Package config holds the YAML application configuration: which
// provider backends to fetch items from, which printer to render onto,
// and how the render pass is scheduled.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// PrinterConfig selects and parameterizes the output device.
type PrinterConfig struct {
	// Type is one of "console", "network", "file" or "serial".
	Type string `yaml:"type"`

	// Address is the host:port of a network printer (Type "network").
	Address string `yaml:"address,omitempty"`

	// Device is the character device path of a USB printer (Type "file").
	Device string `yaml:"device,omitempty"`

	// Port is the serial port name (Type "serial"); empty picks the
	// first available port.
	Port string `yaml:"port,omitempty"`

	// Baud is the serial line speed (Type "serial").
	Baud int `yaml:"baud,omitempty"`

	// Width is the number of characters per printed line.
	Width int `yaml:"width"`
}

// ProviderConfig describes a single item source. Type selects the
// backend; the remaining fields are backend-specific.
type ProviderConfig struct {
	Type string `yaml:"type"`

	// Name is a label used in logs; defaults to Type.
	Name string `yaml:"name,omitempty"`

	// URL is the ICS feed endpoint ("ics") or the JIRA base URL ("jira").
	URL string `yaml:"url,omitempty"`

	// CacheDir overrides the HTTP cache location for ICS feeds.
	CacheDir string `yaml:"cache_dir,omitempty"`

	// Username and Token authenticate against JIRA.
	Username string `yaml:"username,omitempty"`
	Token    string `yaml:"token,omitempty"`

	// JQL is the JIRA issue filter.
	JQL string `yaml:"jql,omitempty"`

	// Format builds the task name from a JIRA issue; {key} and
	// {summary} are substituted.
	Format string `yaml:"format,omitempty"`

	// Priorities maps backend priority names onto the abstract scale
	// (verylow, low, medium, high, veryhigh). Unmapped names yield no
	// priority.
	Priorities map[string]string `yaml:"priorities,omitempty"`

	// Path is the task list file for the "tasks" backend.
	Path string `yaml:"path,omitempty"`
}

// Config is the top-level application configuration.
type Config struct {
	// Timezone is the IANA zone the agenda is rendered in. "Local"
	// uses the system zone.
	Timezone string `yaml:"timezone"`

	// Locale is the BCP 47 key used for translated strings and
	// date/time formats.
	Locale string `yaml:"locale"`

	// Template names the agenda layout to render.
	Template string `yaml:"template"`

	// Schedule is a cron expression used in daemon mode.
	Schedule string `yaml:"schedule"`

	// HighlightTags lists item tags rendered with the highlight
	// attribute.
	HighlightTags []string `yaml:"highlight_tags,omitempty"`

	Printer PrinterConfig `yaml:"printer"`

	Providers []ProviderConfig `yaml:"providers"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Timezone: "Local",
		Locale:   "en",
		Template: "default",
		Schedule: "30 6 * * *",
		Printer: PrinterConfig{
			Type:  "console",
			Width: 42,
		},
		Providers: []ProviderConfig{},
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.Timezone == "" {
		c.Timezone = "Local"
	}
	if c.Locale == "" {
		c.Locale = "en"
	}
	if c.Template == "" {
		c.Template = "default"
	}
	if c.Schedule == "" {
		c.Schedule = "30 6 * * *"
	}
	switch c.Printer.Type {
	case "console", "network", "file", "serial":
		// ok
	case "":
		c.Printer.Type = "console"
	default:
		// Unknown device type; render to the console rather than
		// failing at print time.
		c.Printer.Type = "console"
	}
	if c.Printer.Width <= 0 {
		c.Printer.Width = 42
	}
	if c.Providers == nil {
		c.Providers = []ProviderConfig{}
	}
	for i := range c.Providers {
		if c.Providers[i].Name == "" {
			c.Providers[i].Name = c.Providers[i].Type
		}
	}
}

// Load loads configuration from the given YAML path.
//
// If the file does not exist, a default config is written there (0600,
// parent directory created) and returned.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the given configuration to the specified path, atomically
// via a temp file + rename, with 0600 permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".zettel-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}

	return nil
}

// Save delegates to the package-level Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
