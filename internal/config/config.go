package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "tablekit.json"

	// DefaultAddress is the default server listen address.
	DefaultAddress = ":8090"

	// DefaultMaxSessions is the default cap on concurrent sessions.
	DefaultMaxSessions = 1000

	// DefaultIdleTimeout is the default idle session timeout.
	DefaultIdleTimeout = 10 * time.Minute

	// DefaultNamespace is the default Prometheus metrics namespace.
	DefaultNamespace = "tablekit"
)

// Dataset source kinds accepted in the "dataset.source" field.
const (
	SourceStatic = "static"
	SourceFile   = "file"
	SourceS3     = "s3"
)

// ErrNotFound is returned when no tablekit.json can be located.
var ErrNotFound = errors.New("config: tablekit.json not found")

// Config represents the complete tablekit.json configuration.
type Config struct {
	// Address is the listen address for the live server.
	Address string `json:"address,omitempty"`

	// MaxSessions caps the number of concurrent live sessions.
	MaxSessions int `json:"maxSessions,omitempty"`

	// IdleTimeout is the duration after which inactive sessions are
	// closed, as a Go duration string (e.g. "10m").
	IdleTimeout string `json:"idleTimeout,omitempty"`

	// AllowedOrigins restricts WebSocket upgrades to the listed origins.
	// Empty means same-origin only.
	AllowedOrigins []string `json:"allowedOrigins,omitempty"`

	// Metrics contains observability configuration.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// Dataset describes where table rows are loaded from.
	Dataset DatasetConfig `json:"dataset,omitempty"`

	// Table configures the served table.
	Table TableConfig `json:"table,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// MetricsConfig contains observability configuration.
type MetricsConfig struct {
	// Namespace is the Prometheus metrics namespace.
	Namespace string `json:"namespace,omitempty"`

	// Disabled turns off the Prometheus event middleware.
	Disabled bool `json:"disabled,omitempty"`
}

// DatasetConfig describes where table rows are loaded from.
type DatasetConfig struct {
	// Source is one of "static", "file" or "s3".
	Source string `json:"source,omitempty"`

	// Path is the JSON file path for the "file" source.
	Path string `json:"path,omitempty"`

	// Bucket is the S3 bucket for the "s3" source.
	Bucket string `json:"bucket,omitempty"`

	// Key is the S3 object key for the "s3" source.
	Key string `json:"key,omitempty"`

	// Region is the AWS region for the "s3" source.
	Region string `json:"region,omitempty"`
}

// TableConfig configures the served table.
type TableConfig struct {
	// SearchKeys are the row fields matched by the search term.
	SearchKeys []string `json:"searchKeys,omitempty"`

	// CategoryKey is the row field used for category filtering.
	CategoryKey string `json:"categoryKey,omitempty"`

	// StatusKey is the row field used for status filtering.
	StatusKey string `json:"statusKey,omitempty"`

	// ItemsPerPage is the initial page size.
	ItemsPerPage int `json:"itemsPerPage,omitempty"`

	// ItemsPerPageOptions are the selectable page sizes.
	ItemsPerPageOptions []int `json:"itemsPerPageOptions,omitempty"`

	// URLPrefix namespaces the table's URL parameters.
	URLPrefix string `json:"urlPrefix,omitempty"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		Address:     DefaultAddress,
		MaxSessions: DefaultMaxSessions,
		IdleTimeout: DefaultIdleTimeout.String(),
		Metrics: MetricsConfig{
			Namespace: DefaultNamespace,
		},
		Dataset: DatasetConfig{
			Source: SourceStatic,
		},
		Table: TableConfig{
			ItemsPerPage: 10,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for tablekit.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w in %s", ErrNotFound, filepath.Dir(path))
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.New("config: no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Address == "" {
		c.Address = DefaultAddress
	}
	if c.MaxSessions == 0 {
		c.MaxSessions = DefaultMaxSessions
	}
	if c.IdleTimeout == "" {
		c.IdleTimeout = DefaultIdleTimeout.String()
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Dataset.Source == "" {
		c.Dataset.Source = SourceStatic
	}
	if c.Table.ItemsPerPage == 0 {
		c.Table.ItemsPerPage = 10
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if _, err := time.ParseDuration(c.IdleTimeout); err != nil {
		return fmt.Errorf("config: invalid idleTimeout %q: %w", c.IdleTimeout, err)
	}
	if c.MaxSessions < 0 {
		return errors.New("config: maxSessions must not be negative")
	}

	switch c.Dataset.Source {
	case SourceStatic:
	case SourceFile:
		if c.Dataset.Path == "" {
			return errors.New("config: dataset.path is required for the file source")
		}
	case SourceS3:
		if c.Dataset.Bucket == "" || c.Dataset.Key == "" {
			return errors.New("config: dataset.bucket and dataset.key are required for the s3 source")
		}
	default:
		return fmt.Errorf("config: unknown dataset source %q", c.Dataset.Source)
	}

	if c.Table.ItemsPerPage < 1 {
		return errors.New("config: table.itemsPerPage must be at least 1")
	}
	for _, n := range c.Table.ItemsPerPageOptions {
		if n < 1 {
			return fmt.Errorf("config: invalid itemsPerPage option %d", n)
		}
	}
	return nil
}

// IdleTimeoutDuration returns IdleTimeout as a time.Duration.
// Validate must have accepted the config first.
func (c *Config) IdleTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.IdleTimeout)
	if err != nil {
		return DefaultIdleTimeout
	}
	return d
}

// Exists reports whether dir contains a tablekit.json.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing tablekit.json, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w in %s or any parent directory", ErrNotFound, startDir)
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working directory.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}

	return Load(root)
}
