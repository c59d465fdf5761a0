package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T) string
		wantErr bool
		check   func(t *testing.T)
	}{
		{
			name: "load from settings file",
			setup: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "settings.yaml")
				content := `
server:
  host: "127.0.0.1"
  port: 9000
storage:
  audio_dir: "/srv/audio"
  text_dir: "/srv/text"
database:
  reset_on_start: true
`
				require.NoError(t, os.WriteFile(path, []byte(content), 0644))
				return path
			},
			check: func(t *testing.T) {
				assert.Equal(t, 9000, GetInt("server.port"))
				assert.Equal(t, "/srv/audio", GetString("storage.audio_dir"))
				assert.True(t, GetBool("database.reset_on_start"))
			},
		},
		{
			name: "environment variable override",
			setup: func(t *testing.T) string {
				t.Setenv("CORPUS_SERVER_PORT", "9090")
				t.Setenv("CORPUS_UPLOADS_UPLOADER", "operator")
				return filepath.Join(t.TempDir(), "missing.yaml")
			},
			check: func(t *testing.T) {
				assert.Equal(t, 9090, GetInt("server.port"))
				assert.Equal(t, "operator", GetString("uploads.uploader"))
			},
		},
		{
			name: "missing config file uses defaults",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "missing.yaml")
			},
			check: func(t *testing.T) {
				assert.Equal(t, 8080, GetInt("server.port"))
				assert.Equal(t, "admin", GetString("uploads.uploader"))
				assert.False(t, GetBool("database.reset_on_start"))
				assert.True(t, GetBool("extraction.enable_docx"))
			},
		},
		{
			name: "same directory for audio and text is rejected",
			setup: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "settings.yaml")
				content := `
storage:
  audio_dir: "./files"
  text_dir: "./files/"
`
				require.NoError(t, os.WriteFile(path, []byte(content), 0644))
				return path
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			defer viper.Reset()

			path := tt.setup(t)
			err := Load(path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t)
			}
		})
	}
}

func TestGetConfig(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	require.NoError(t, Load(filepath.Join(t.TempDir(), "missing.yaml")))
	Set("storage.audio_dir", "/tmp/a")

	cfg, err := GetConfig()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/a", cfg.Storage.AudioDir)
	assert.Equal(t, "./text_uploads", cfg.Storage.TextDir)
	assert.Equal(t, 1, cfg.Database.MaxOpenConnections)
	assert.Equal(t, int64(512<<20), cfg.Uploads.MaxUploadSize)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{
			name: "valid config",
			config: &Config{
				Server:  ServerConfig{Host: "localhost", Port: 8080},
				Storage: StorageConfig{AudioDir: "uploads", TextDir: "text_uploads"},
			},
		},
		{
			name: "invalid port",
			config: &Config{
				Server:  ServerConfig{Host: "localhost", Port: 0},
				Storage: StorageConfig{AudioDir: "uploads", TextDir: "text_uploads"},
			},
			wantErr: true,
		},
		{
			name: "missing storage roots",
			config: &Config{
				Server: ServerConfig{Host: "localhost", Port: 8080},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, "admin", tt.config.Uploads.Uploader)
			assert.Equal(t, 1, tt.config.Database.MaxOpenConnections)
		})
	}
}
