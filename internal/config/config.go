// Package config provides configuration management for marksync.
// It supports YAML and TOML configuration files, environment variables, and
// sensible defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/mkrebs/marksync/internal/model"
	"github.com/mkrebs/marksync/internal/sync"
	"github.com/mkrebs/marksync/internal/util"
)

// Config represents the complete marksync configuration.
type Config struct {
	// Remote configures the WebDAV endpoint holding the sync folder
	Remote RemoteConfig `yaml:"remote" toml:"remote"`

	// Sync configures default synchronization behavior
	Sync SyncConfig `yaml:"sync" toml:"sync"`

	// Store configures local file locations
	Store StoreConfig `yaml:"store" toml:"store"`

	// Embeddings configures the embeddings service used for backfill
	Embeddings EmbeddingsConfig `yaml:"embeddings" toml:"embeddings"`

	// Output configures display preferences
	Output OutputConfig `yaml:"output" toml:"output"`
}

// RemoteConfig holds WebDAV endpoint settings. The password is never stored
// in the config file; it is read from the environment variable named by
// PasswordEnv.
type RemoteConfig struct {
	// URL is the WebDAV base URL
	URL string `yaml:"url" toml:"url"`
	// Folder is the remote folder holding the three sync files
	Folder string `yaml:"folder" toml:"folder"`
	// Username is the WebDAV account name
	Username string `yaml:"username" toml:"username"`
	// PasswordEnv names the environment variable holding the password
	PasswordEnv string `yaml:"password_env" toml:"password_env"`
	// Timeout bounds each remote operation
	Timeout time.Duration `yaml:"timeout" toml:"timeout"`
}

// Password reads the WebDAV password from the configured environment
// variable.
func (rc *RemoteConfig) Password() string {
	env := rc.PasswordEnv
	if env == "" {
		env = "MARKSYNC_REMOTE_PASSWORD"
	}
	return os.Getenv(env)
}

// SyncConfig holds synchronization settings.
type SyncConfig struct {
	// Mechanism is the default conflict resolution mechanism
	Mechanism string `yaml:"mechanism" toml:"mechanism"`
	// Bookmarks enables syncing the bookmark collection
	Bookmarks bool `yaml:"bookmarks" toml:"bookmarks"`
	// Settings enables syncing the settings sub-document
	Settings bool `yaml:"settings" toml:"settings"`
	// Filters enables syncing the filters sub-document
	Filters bool `yaml:"filters" toml:"filters"`
	// Services enables syncing the services sub-document
	Services bool `yaml:"services" toml:"services"`
}

// StoreConfig holds local file locations.
type StoreConfig struct {
	// Path is the local bookmark store file
	Path string `yaml:"path" toml:"path"`
	// StatePath is the device state file holding the last-known-sync record
	StatePath string `yaml:"state_path" toml:"state_path"`
}

// EmbeddingsConfig holds embeddings service settings for re-embedding
// imported bookmarks.
type EmbeddingsConfig struct {
	// Enabled enables embedding backfill after sync
	Enabled bool `yaml:"enabled" toml:"enabled"`
	// BaseURL is the OpenAI-compatible embeddings endpoint
	BaseURL string `yaml:"base_url" toml:"base_url"`
	// Model is the embedding model name
	Model string `yaml:"model" toml:"model"`
	// APIKeyEnv names the environment variable holding the API key
	APIKeyEnv string `yaml:"api_key_env" toml:"api_key_env"`
	// VectorSize is the expected embedding dimension
	VectorSize int `yaml:"vector_size" toml:"vector_size"`
	// BatchSize is the number of texts embedded per request
	BatchSize int `yaml:"batch_size" toml:"batch_size"`
}

// APIKey reads the embeddings API key from the configured environment
// variable.
func (ec *EmbeddingsConfig) APIKey() string {
	env := ec.APIKeyEnv
	if env == "" {
		env = "MARKSYNC_EMBEDDINGS_API_KEY"
	}
	return os.Getenv(env)
}

// OutputConfig holds display preferences.
type OutputConfig struct {
	// Color controls color output (auto, always, never)
	Color string `yaml:"color" toml:"color"`
	// Verbose enables verbose output
	Verbose bool `yaml:"verbose" toml:"verbose"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Remote: RemoteConfig{
			Folder:      "marksync",
			PasswordEnv: "MARKSYNC_REMOTE_PASSWORD",
			Timeout:     30 * time.Second,
		},
		Sync: SyncConfig{
			Mechanism: string(sync.DefaultMechanism),
			Bookmarks: true,
			Settings:  true,
			Filters:   true,
			Services:  true,
		},
		Store: StoreConfig{
			Path:      util.DefaultStorePath(),
			StatePath: util.DefaultStatePath(),
		},
		Embeddings: EmbeddingsConfig{
			Enabled:   false,
			BaseURL:   "http://localhost:8080",
			Model:     "nomic-embed-text",
			APIKeyEnv: "MARKSYNC_EMBEDDINGS_API_KEY",
			BatchSize: 32,
		},
		Output: OutputConfig{
			Color:   "auto",
			Verbose: false,
		},
	}
}

// configFileName is the name of the config file.
const configFileName = "config.yaml"

// FilePath returns the path to the config file.
func FilePath() string {
	return filepath.Join(util.MarksyncConfigPath(), configFileName)
}

// Load loads the configuration from file, merging with defaults.
// If the config file doesn't exist, returns default configuration.
func Load() (*Config, error) {
	configPath := FilePath()
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := Default()
		cfg.applyEnvironment()
		return cfg, nil
	}
	return LoadFromPath(configPath)
}

// LoadFromPath loads configuration from a specific path. Files ending in
// .toml are parsed as TOML, everything else as YAML.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	// #nosec G304 - path is provided by caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	cfg.applyEnvironment()
	return cfg, nil
}

// Save writes the configuration to the config file.
func (c *Config) Save() error {
	return c.SaveToPath(FilePath())
}

// SaveToPath writes the configuration to a specific path.
func (c *Config) SaveToPath(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	// #nosec G306 - config file should be readable by user
	return os.WriteFile(path, data, 0o644)
}

// applyEnvironment applies environment variable overrides.
// Environment variables follow the pattern MARKSYNC_<SECTION>_<KEY>.
func (c *Config) applyEnvironment() {
	// Remote settings
	if v := os.Getenv("MARKSYNC_REMOTE_URL"); v != "" {
		c.Remote.URL = v
	}
	if v := os.Getenv("MARKSYNC_REMOTE_FOLDER"); v != "" {
		c.Remote.Folder = v
	}
	if v := os.Getenv("MARKSYNC_REMOTE_USERNAME"); v != "" {
		c.Remote.Username = v
	}
	if v := os.Getenv("MARKSYNC_REMOTE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Remote.Timeout = d
		}
	}

	// Sync settings
	if v := os.Getenv("MARKSYNC_SYNC_MECHANISM"); v != "" {
		c.Sync.Mechanism = v
	}
	if v := os.Getenv("MARKSYNC_SYNC_BOOKMARKS"); v != "" {
		c.Sync.Bookmarks = parseBool(v)
	}
	if v := os.Getenv("MARKSYNC_SYNC_SETTINGS"); v != "" {
		c.Sync.Settings = parseBool(v)
	}
	if v := os.Getenv("MARKSYNC_SYNC_FILTERS"); v != "" {
		c.Sync.Filters = parseBool(v)
	}
	if v := os.Getenv("MARKSYNC_SYNC_SERVICES"); v != "" {
		c.Sync.Services = parseBool(v)
	}

	// Store settings
	if v := os.Getenv("MARKSYNC_STORE_PATH"); v != "" {
		c.Store.Path = v
	}
	if v := os.Getenv("MARKSYNC_STORE_STATE_PATH"); v != "" {
		c.Store.StatePath = v
	}

	// Embeddings settings
	if v := os.Getenv("MARKSYNC_EMBEDDINGS_ENABLED"); v != "" {
		c.Embeddings.Enabled = parseBool(v)
	}
	if v := os.Getenv("MARKSYNC_EMBEDDINGS_BASE_URL"); v != "" {
		c.Embeddings.BaseURL = v
	}
	if v := os.Getenv("MARKSYNC_EMBEDDINGS_MODEL"); v != "" {
		c.Embeddings.Model = v
	}

	// Output settings
	if v := os.Getenv("MARKSYNC_OUTPUT_COLOR"); v != "" {
		c.Output.Color = v
	}
	if v := os.Getenv("MARKSYNC_OUTPUT_VERBOSE"); v != "" {
		c.Output.Verbose = parseBool(v)
	}
}

// parseBool parses a boolean from common string representations.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

// GetMechanism returns the conflict mechanism from config, validating it.
func (c *Config) GetMechanism() sync.Mechanism {
	return sync.Mechanism(c.Sync.Mechanism).OrDefault()
}

// ConfigDocs returns the config sub-documents enabled for sync, in
// canonical order.
func (c *Config) ConfigDocs() []model.Category {
	var docs []model.Category
	if c.Sync.Settings {
		docs = append(docs, model.CategorySettings)
	}
	if c.Sync.Filters {
		docs = append(docs, model.CategoryFilters)
	}
	if c.Sync.Services {
		docs = append(docs, model.CategoryServices)
	}
	return docs
}

// Exists returns true if a config file exists.
func Exists() bool {
	_, err := os.Stat(FilePath())
	return err == nil
}
