package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vango-dev/lifecycle/internal/errors"
	"gopkg.in/yaml.v3"
)

const (
	// ConfigFileName is the name of the JSON configuration file.
	ConfigFileName = "lifecycle.json"

	// DefaultPort is the default port of the serve command.
	DefaultPort = 3000

	// DefaultHost is the default host of the serve command.
	DefaultHost = "localhost"

	// DefaultExportDir is the default directory for exported pages.
	DefaultExportDir = "dist"

	// DefaultMessagesPerSecond limits events a live session accepts.
	DefaultMessagesPerSecond = 20

	// DefaultBurst is the event burst a live session accepts.
	DefaultBurst = 40
)

// fileNames are tried in order by Load.
var fileNames = []string{ConfigFileName, "lifecycle.yaml", "lifecycle.yml"}

// Config is the runtime configuration.
type Config struct {
	// Name is the application name, used as the page title.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	Log       LogConfig       `json:"log,omitempty" yaml:"log,omitempty"`
	Render    RenderConfig    `json:"render,omitempty" yaml:"render,omitempty"`
	Server    ServerConfig    `json:"server,omitempty" yaml:"server,omitempty"`
	Export    ExportConfig    `json:"export,omitempty" yaml:"export,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// LogConfig configures the slog handler.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `json:"level,omitempty" yaml:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// RenderConfig configures server rendering.
type RenderConfig struct {
	// Hydratable writes component markers and prepared state.
	Hydratable bool `json:"hydratable,omitempty" yaml:"hydratable,omitempty"`

	// Pretty indents the output. Ignored for hydratable output.
	Pretty bool `json:"pretty,omitempty" yaml:"pretty,omitempty"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Host string `json:"host,omitempty" yaml:"host,omitempty"`
	Port int    `json:"port,omitempty" yaml:"port,omitempty"`

	// MessagesPerSecond is the sustained event rate of a live session.
	MessagesPerSecond float64 `json:"messagesPerSecond,omitempty" yaml:"messagesPerSecond,omitempty"`

	// Burst is the number of events a live session accepts at once.
	Burst int `json:"burst,omitempty" yaml:"burst,omitempty"`
}

// ExportConfig configures where rendered pages are stored.
type ExportConfig struct {
	// Dir is the directory for relative export paths.
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty"`

	S3 S3Config `json:"s3,omitempty" yaml:"s3,omitempty"`
}

// S3Config configures exports to s3:// destinations.
type S3Config struct {
	// Bucket is used when the destination names no bucket.
	Bucket string `json:"bucket,omitempty" yaml:"bucket,omitempty"`

	// Prefix is prepended to object keys.
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty"`

	Region string `json:"region,omitempty" yaml:"region,omitempty"`

	// Endpoint overrides the S3 endpoint, e.g. for MinIO.
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`

	// PathStyle addresses buckets by path instead of by host.
	PathStyle bool `json:"pathStyle,omitempty" yaml:"pathStyle,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Name: "lifecycle",
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Host:              DefaultHost,
			Port:              DefaultPort,
			MessagesPerSecond: DefaultMessagesPerSecond,
			Burst:             DefaultBurst,
		},
		Export: ExportConfig{
			Dir: DefaultExportDir,
			S3: S3Config{
				Region: "us-east-1",
			},
		},
	}
}

// Load reads configuration from dir. It looks for lifecycle.json, then
// lifecycle.yaml and lifecycle.yml.
func Load(dir string) (*Config, error) {
	for _, name := range fileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, errors.New("E121").
		WithDetail("No " + strings.Join(fileNames, ", ") + " found in " + dir).
		WithSuggestion("Run 'vango-lifecycle init' to write a default configuration")
}

// LoadFile reads configuration from the specified file path. The format
// follows the extension: .yaml and .yml are YAML, anything else JSON.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E121").
				WithDetail("No configuration file at " + path)
		}
		return nil, errors.New("E120").Wrap(err)
	}

	cfg := New()
	if isYAML(path) {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.New("E120").
				WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
				WithSuggestion("Check that the file is valid YAML")
		}
	} else if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E120").
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
			WithSuggestion("Check that the file is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// SaveTo writes the configuration to path, as YAML or JSON depending on
// the extension.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
		// Add newline at end of file
		data = append(data, '\n')
	}
	if err != nil {
		return errors.New("E120").Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E120").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	def := New()

	if c.Name == "" {
		c.Name = def.Name
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = def.Log.Format
	}

	// Server
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.MessagesPerSecond == 0 {
		c.Server.MessagesPerSecond = DefaultMessagesPerSecond
	}
	if c.Server.Burst == 0 {
		c.Server.Burst = DefaultBurst
	}

	// Export
	if c.Export.Dir == "" {
		c.Export.Dir = DefaultExportDir
	}
	if c.Export.S3.Region == "" {
		c.Export.S3.Region = def.Export.S3.Region
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New("E122").
			WithDetail("Port must be between 0 and 65535")
	}
	if c.Server.MessagesPerSecond < 0 || c.Server.Burst < 0 {
		return errors.New("E122").
			WithDetail("messagesPerSecond and burst must not be negative")
	}
	if _, err := c.LogLevel(); err != nil {
		return errors.New("E122").
			WithDetail("Unknown log level " + strconv.Quote(c.Log.Level)).
			WithSuggestion("Use debug, info, warn or error")
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return errors.New("E122").
			WithDetail("Unknown log format " + strconv.Quote(c.Log.Format)).
			WithSuggestion("Use text or json")
	}
	return nil
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if c.Log.Level == "" {
		return slog.LevelInfo, nil
	}
	err := level.UnmarshalText([]byte(c.Log.Level))
	return level, err
}

// Address returns the listen address of the serve command.
func (c *Config) Address() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}
