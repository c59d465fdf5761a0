package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/killallgit/corpus-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestInitialize(t *testing.T) {
	tests := []struct {
		name   string
		dbPath string
	}{
		{name: "in-memory database", dbPath: ":memory:"},
		{name: "file database", dbPath: filepath.Join(t.TempDir(), "test.db")},
		{name: "file database in nested directory", dbPath: filepath.Join(t.TempDir(), "data", "records.db")},
		{name: "empty path creates in-memory database", dbPath: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, err := Initialize(tt.dbPath, false)
			require.NoError(t, err)
			require.NotNil(t, conn)
			defer conn.Close()

			assert.NoError(t, conn.HealthCheck())
		})
	}
}

func TestOpen_PoolSettings(t *testing.T) {
	conn, err := Open(Options{
		Path:            filepath.Join(t.TempDir(), "pool.db"),
		MaxOpenConns:    4,
		MaxIdleConns:    8,
		ConnMaxLifetime: time.Minute,
		EnableWAL:       true,
	})
	require.NoError(t, err)
	defer conn.Close()

	sqlDB, err := conn.DB.DB()
	require.NoError(t, err)
	assert.Equal(t, 4, sqlDB.Stats().MaxOpenConnections)

	var mode string
	require.NoError(t, conn.DB.Raw("PRAGMA journal_mode").Scan(&mode).Error)
	assert.Equal(t, "wal", mode)
}

func TestOpen_InMemoryUsesSingleConnection(t *testing.T) {
	conn, err := Open(Options{Path: ":memory:", MaxOpenConns: 10})
	require.NoError(t, err)
	defer conn.Close()

	sqlDB, err := conn.DB.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}

func TestDB_HealthCheck(t *testing.T) {
	tests := []struct {
		name      string
		setupConn func() (*DB, func())
		wantErr   bool
	}{
		{
			name: "healthy connection",
			setupConn: func() (*DB, func()) {
				conn, _ := Initialize(":memory:", false)
				return conn, func() { conn.Close() }
			},
		},
		{
			name: "closed connection",
			setupConn: func() (*DB, func()) {
				conn, _ := Initialize(":memory:", false)
				conn.Close()
				return conn, func() {}
			},
			wantErr: true,
		},
		{
			name: "nil connection",
			setupConn: func() (*DB, func()) {
				return nil, func() {}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, cleanup := tt.setupConn()
			defer cleanup()

			err := conn.HealthCheck()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDB_MigrateAndStats(t *testing.T) {
	ctx := context.Background()
	conn, err := Initialize(filepath.Join(t.TempDir(), "stats.db"), false)
	require.NoError(t, err)
	defer conn.Close()

	stats, err := conn.Stats(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "audio_records", stats[0].Name)
	assert.False(t, stats[0].Exists)

	require.NoError(t, conn.Migrate(ctx))
	require.NoError(t, conn.DB.Create(&models.TextRecord{
		Filename:   "a.txt",
		Status:     models.StatusUploaded,
		UploadTime: time.Now(),
		Uploader:   "admin",
	}).Error)

	stats, err = conn.Stats(ctx)
	require.NoError(t, err)
	assert.True(t, stats[0].Exists)
	assert.Equal(t, int64(0), stats[0].Rows)
	assert.Equal(t, "text_records", stats[1].Name)
	assert.Equal(t, int64(1), stats[1].Rows)
}

func TestDB_Reset(t *testing.T) {
	ctx := context.Background()
	conn, err := Initialize(filepath.Join(t.TempDir(), "reset.db"), false)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.Migrate(ctx))
	require.NoError(t, conn.DB.Create(&models.AudioRecord{
		Filename:   "a.wav",
		Status:     models.StatusUploaded,
		UploadTime: time.Now(),
		Uploader:   "admin",
	}).Error)

	require.NoError(t, conn.Reset(ctx))

	var count int64
	require.NoError(t, conn.DB.Model(&models.AudioRecord{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	require.NoError(t, conn.DropTables(ctx))
	assert.False(t, conn.DB.Migrator().HasTable(&models.AudioRecord{}))
}

func TestDB_Transaction(t *testing.T) {
	ctx := context.Background()
	conn, err := Initialize(filepath.Join(t.TempDir(), "tx.db"), false)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.Migrate(ctx))

	err = conn.DB.Transaction(func(tx *gorm.DB) error {
		record := models.TextRecord{Filename: "rollback.txt", Status: models.StatusPending, UploadTime: time.Now(), Uploader: "admin"}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		return gorm.ErrInvalidTransaction
	})
	assert.Error(t, err)

	var count int64
	conn.DB.Model(&models.TextRecord{}).Count(&count)
	assert.Equal(t, int64(0), count)
}
