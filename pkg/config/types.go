package config

import "time"

// Config represents the complete application configuration
type Config struct {
	Environment  string           `mapstructure:"environment"`
	Server       ServerConfig     `mapstructure:"server"`
	Database     DatabaseConfig   `mapstructure:"database"`
	Storage      StorageConfig    `mapstructure:"storage"`
	Uploads      UploadsConfig    `mapstructure:"uploads"`
	Extraction   ExtractionConfig `mapstructure:"extraction"`
	RateLimiting RateLimitConfig  `mapstructure:"rate_limiting"`
	Security     SecurityConfig   `mapstructure:"security"`
	Logging      LoggingConfig    `mapstructure:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxHeaderBytes  int           `mapstructure:"max_header_bytes"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Path                  string        `mapstructure:"path"`
	MaxOpenConnections    int           `mapstructure:"max_open_connections"`
	MaxIdleConnections    int           `mapstructure:"max_idle_connections"`
	ConnectionMaxLifetime time.Duration `mapstructure:"connection_max_lifetime"`
	EnableWAL             bool          `mapstructure:"enable_wal"`
	LogQueries            bool          `mapstructure:"log_queries"`
	// ResetOnStart drops and recreates the record tables when the server starts.
	ResetOnStart bool `mapstructure:"reset_on_start"`
}

// StorageConfig contains the on-disk roots for uploaded files
type StorageConfig struct {
	AudioDir          string        `mapstructure:"audio_dir"`
	TextDir           string        `mapstructure:"text_dir"`
	ReconcileOnStart  bool          `mapstructure:"reconcile_on_start"`
	ReconcileInterval time.Duration `mapstructure:"reconcile_interval"`
	RemoveOrphans     bool          `mapstructure:"remove_orphans"`
	MaxStagingAge     time.Duration `mapstructure:"max_staging_age"`
}

// UploadsConfig contains upload handling settings
type UploadsConfig struct {
	Uploader       string `mapstructure:"uploader"`
	MaxUploadSize  int64  `mapstructure:"max_upload_size"`
	MaxRequestSize int64  `mapstructure:"max_request_size"`
}

// ExtractionConfig toggles optional text extractors
type ExtractionConfig struct {
	EnableDocx bool `mapstructure:"enable_docx"`
	// CacheTTL is how long extracted content is kept in memory; zero disables the cache
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// RateLimitConfig contains rate limiting settings for mutating routes
type RateLimitConfig struct {
	Enabled bool `mapstructure:"enabled"`
	RPS     int  `mapstructure:"rps"`
	Burst   int  `mapstructure:"burst"`
}

// SecurityConfig contains security settings
type SecurityConfig struct {
	EnableCORS  bool     `mapstructure:"enable_cors"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
