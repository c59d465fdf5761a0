package cmd

import (
	"context"
	"fmt"

	"github.com/killallgit/corpus-api/internal/database"
	"github.com/killallgit/corpus-api/internal/services/cache"
	"github.com/killallgit/corpus-api/internal/services/cleanup"
	"github.com/killallgit/corpus-api/internal/services/extractor"
	"github.com/killallgit/corpus-api/internal/services/records"
	"github.com/killallgit/corpus-api/internal/services/storage"
	"github.com/killallgit/corpus-api/pkg/config"
)

// components are the services shared by serve and reconcile
type components struct {
	db         *database.DB
	audio      *storage.FilesystemStorage
	text       *storage.FilesystemStorage
	records    records.Service
	reconciler *cleanup.Service
}

// openDatabase connects to the configured SQLite file
func openDatabase(cfg *config.Config) (*database.DB, error) {
	db, err := database.Open(database.Options{
		Path:            cfg.Database.Path,
		Verbose:         cfg.Database.LogQueries,
		MaxOpenConns:    cfg.Database.MaxOpenConnections,
		MaxIdleConns:    cfg.Database.MaxIdleConnections,
		ConnMaxLifetime: cfg.Database.ConnectionMaxLifetime,
		EnableWAL:       cfg.Database.EnableWAL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return db, nil
}

// buildComponents opens the database, prepares the schema and wires the
// record services over both storage roots
func buildComponents(ctx context.Context, cfg *config.Config, reset bool) (*components, error) {
	db, err := openDatabase(cfg)
	if err != nil {
		return nil, err
	}

	if reset {
		err = db.Reset(ctx)
	} else {
		err = db.Migrate(ctx)
	}
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare database: %w", err)
	}

	audio, err := storage.NewFilesystemStorage(cfg.Storage.AudioDir)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare audio storage: %w", err)
	}
	text, err := storage.NewFilesystemStorage(cfg.Storage.TextDir)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare text storage: %w", err)
	}

	repo := records.NewRepository(db.DB)
	extractOpts := []extractor.Option{extractor.WithDocx(cfg.Extraction.EnableDocx)}
	if cfg.Extraction.CacheTTL > 0 {
		extractOpts = append(extractOpts, extractor.WithCache(cache.NewMemoryCache(cfg.Extraction.CacheTTL)))
	}
	texts := extractor.NewService(text, extractOpts...)
	svc := records.NewService(repo, audio, text, texts, records.WithUploader(cfg.Uploads.Uploader))

	reconciler := cleanup.NewService(repo, svc, audio, text, cleanup.Options{
		RemoveOrphans: cfg.Storage.RemoveOrphans,
		MaxStagingAge: cfg.Storage.MaxStagingAge,
		Interval:      cfg.Storage.ReconcileInterval,
	})

	return &components{
		db:         db,
		audio:      audio,
		text:       text,
		records:    svc,
		reconciler: reconciler,
	}, nil
}

// Close stops background work and closes the database
func (c *components) Close() error {
	c.reconciler.Stop()
	return c.db.Close()
}
