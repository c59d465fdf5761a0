package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// DefaultConfigPath is read when no explicit config file is given
const DefaultConfigPath = "./config/settings.yaml"

var (
	once    sync.Once
	initErr error
)

// Init initializes the configuration system once per process.
// An empty path falls back to DefaultConfigPath.
func Init(path string) error {
	once.Do(func() {
		initErr = Load(path)
	})
	return initErr
}

// Load (re)reads defaults, the config file and environment overrides into
// the global viper instance. A missing config file is not an error.
func Load(path string) error {
	setDefaults()

	viper.SetEnvPrefix("CORPUS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if path == "" {
		path = DefaultConfigPath
	}
	configPath := filepath.Clean(path)
	viper.SetConfigFile(configPath)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file %s: %w", configPath, err)
		}
	}

	if err := validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// GetConfig returns the current configuration as a struct
func GetConfig() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Set overrides a config value (used by CLI flags)
func Set(key string, value any) {
	viper.Set(key, value)
}

// GetString returns a string config value
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetDuration returns a time.Duration config value
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}

func validate() error {
	port := viper.GetInt("server.port")
	if port <= 0 || port > 65535 {
		return fmt.Errorf("invalid server port: %d", port)
	}

	if viper.GetString("storage.audio_dir") == "" || viper.GetString("storage.text_dir") == "" {
		return fmt.Errorf("storage.audio_dir and storage.text_dir are required")
	}

	if filepath.Clean(viper.GetString("storage.audio_dir")) == filepath.Clean(viper.GetString("storage.text_dir")) {
		return fmt.Errorf("storage.audio_dir and storage.text_dir must differ")
	}

	// Auto-correct invalid pool size
	if viper.GetInt("database.max_open_connections") <= 0 {
		viper.Set("database.max_open_connections", 1)
	}

	return nil
}

// Validate validates a Config struct and fills in corrected defaults
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Storage.AudioDir == "" || c.Storage.TextDir == "" {
		return fmt.Errorf("storage.audio_dir and storage.text_dir are required")
	}

	if filepath.Clean(c.Storage.AudioDir) == filepath.Clean(c.Storage.TextDir) {
		return fmt.Errorf("storage.audio_dir and storage.text_dir must differ")
	}

	if c.Database.MaxOpenConnections <= 0 {
		c.Database.MaxOpenConnections = 1
	}

	if c.Uploads.Uploader == "" {
		c.Uploads.Uploader = "admin"
	}

	return nil
}

func setDefaults() {
	viper.SetDefault("environment", "development")

	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 5*time.Minute)
	viper.SetDefault("server.write_timeout", 5*time.Minute)
	viper.SetDefault("server.shutdown_timeout", 10*time.Second)
	viper.SetDefault("server.max_header_bytes", 1048576)

	// Database defaults. SQLite has a single writer, so one open
	// connection keeps transactions from contending.
	viper.SetDefault("database.path", "./data/audio_records.db")
	viper.SetDefault("database.max_open_connections", 1)
	viper.SetDefault("database.max_idle_connections", 1)
	viper.SetDefault("database.connection_max_lifetime", time.Hour)
	viper.SetDefault("database.enable_wal", true)
	viper.SetDefault("database.log_queries", false)
	viper.SetDefault("database.reset_on_start", false)

	// Storage defaults
	viper.SetDefault("storage.audio_dir", "./uploads")
	viper.SetDefault("storage.text_dir", "./text_uploads")
	viper.SetDefault("storage.reconcile_on_start", true)
	viper.SetDefault("storage.reconcile_interval", time.Duration(0))
	viper.SetDefault("storage.remove_orphans", false)
	viper.SetDefault("storage.max_staging_age", time.Hour)

	// Upload defaults
	viper.SetDefault("uploads.uploader", "admin")
	viper.SetDefault("uploads.max_upload_size", int64(512<<20))
	viper.SetDefault("uploads.max_request_size", int64(1<<20))

	// Extraction defaults
	viper.SetDefault("extraction.enable_docx", true)
	viper.SetDefault("extraction.cache_ttl", 10*time.Minute)

	// Rate limiting defaults
	viper.SetDefault("rate_limiting.enabled", true)
	viper.SetDefault("rate_limiting.rps", 10)
	viper.SetDefault("rate_limiting.burst", 20)

	// Security defaults
	viper.SetDefault("security.enable_cors", true)
	viper.SetDefault("security.cors_origins", []string{"*"})

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")
}
