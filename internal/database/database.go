package database

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/killallgit/corpus-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type DB struct {
	*gorm.DB
}

// Options configures the SQLite connection pool
type Options struct {
	Path            string
	Verbose         bool
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	EnableWAL       bool
}

// TableStat describes one record table for status reporting
type TableStat struct {
	Name   string
	Exists bool
	Rows   int64
}

// Initialize creates a new database connection with default pool settings
func Initialize(dbPath string, verbose bool) (*DB, error) {
	return Open(Options{Path: dbPath, Verbose: verbose})
}

// Open creates a new database connection with the provided options
func Open(opts Options) (*DB, error) {
	inMemory := opts.Path == "" || opts.Path == ":memory:" || strings.Contains(opts.Path, "mode=memory")

	// Ensure the database directory exists
	if !inMemory {
		dir := filepath.Dir(opts.Path)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	logLevel := logger.Error
	if opts.Verbose {
		logLevel = logger.Info
	}

	gormConfig := &gorm.Config{
		Logger: logger.New(slogWriter{}, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logLevel,
			IgnoreRecordNotFoundError: true,
		}),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	dsn := opts.Path
	if !inMemory {
		dsn = withPragmas(dsn, opts.EnableWAL)
	}

	db, err := gorm.Open(sqlite.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying SQL database: %w", err)
	}

	// An in-memory database lives on a single connection
	maxOpen := opts.MaxOpenConns
	if maxOpen <= 0 || inMemory {
		maxOpen = 1
	}
	maxIdle := opts.MaxIdleConns
	if maxIdle <= 0 || maxIdle > maxOpen {
		maxIdle = maxOpen
	}
	lifetime := opts.ConnMaxLifetime
	if lifetime <= 0 || inMemory {
		lifetime = 0
	}

	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetConnMaxLifetime(lifetime)

	return &DB{DB: db}, nil
}

func withPragmas(path string, wal bool) string {
	params := []string{"_busy_timeout=5000"}
	if wal {
		params = append(params, "_journal_mode=WAL")
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + strings.Join(params, "&")
}

// Close closes the database connection
func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying SQL database: %w", err)
	}
	return sqlDB.Close()
}

// HealthCheck verifies the database connection is working
func (db *DB) HealthCheck() error {
	if db == nil || db.DB == nil {
		return fmt.Errorf("database not initialized")
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying SQL database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	return nil
}

// Migrate creates or updates the record tables
func (db *DB) Migrate(ctx context.Context) error {
	if err := db.DB.WithContext(ctx).AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migration failed: %w", err)
	}
	slog.Info("database migrated", "models", len(models.All()))
	return nil
}

// DropTables removes the record tables. All stored records are lost.
func (db *DB) DropTables(ctx context.Context) error {
	if err := db.DB.WithContext(ctx).Migrator().DropTable(models.All()...); err != nil {
		return fmt.Errorf("dropping tables failed: %w", err)
	}
	slog.Warn("record tables dropped")
	return nil
}

// Reset drops and recreates the record tables
func (db *DB) Reset(ctx context.Context) error {
	if err := db.DropTables(ctx); err != nil {
		return err
	}
	return db.Migrate(ctx)
}

// Stats reports existence and row counts for every record table
func (db *DB) Stats(ctx context.Context) ([]TableStat, error) {
	conn := db.DB.WithContext(ctx)
	stats := make([]TableStat, 0, len(models.All()))
	for _, model := range models.All() {
		tabler, ok := model.(interface{ TableName() string })
		if !ok {
			return nil, fmt.Errorf("model %T has no table name", model)
		}

		stat := TableStat{Name: tabler.TableName()}
		if conn.Migrator().HasTable(model) {
			stat.Exists = true
			if err := conn.Model(model).Count(&stat.Rows).Error; err != nil {
				return nil, fmt.Errorf("counting %s: %w", stat.Name, err)
			}
		}
		stats = append(stats, stat)
	}
	return stats, nil
}

// slogWriter routes gorm's query log through the default slog logger
type slogWriter struct{}

func (slogWriter) Printf(format string, args ...interface{}) {
	slog.Info(strings.TrimSpace(fmt.Sprintf(format, args...)), "component", "gorm")
}
