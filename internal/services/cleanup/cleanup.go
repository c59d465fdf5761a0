package cleanup

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/killallgit/corpus-api/internal/models"
	"github.com/killallgit/corpus-api/internal/services/records"
	"github.com/killallgit/corpus-api/internal/services/storage"
)

// Options controls what a reconciliation pass is allowed to change
type Options struct {
	// RemoveOrphans deletes stored files no record refers to
	RemoveOrphans bool
	// MaxStagingAge is how long an upload may stay in flight. Staged files
	// older than this are purged. Pending rows and stored files younger than
	// this are left alone.
	MaxStagingAge time.Duration
	// Interval between periodic passes; zero disables Start
	Interval time.Duration
}

// RootReport describes one storage root after a pass
type RootReport struct {
	Promoted []string `json:"promoted"`
	Dropped  []string `json:"dropped"`
	Orphans  []string `json:"orphans"`
	Removed  []string `json:"removed"`
	Purged   []string `json:"purged"`
}

// Report is the outcome of a reconciliation pass
type Report struct {
	Audio RootReport `json:"audio"`
	Text  RootReport `json:"text"`
}

// Changed reports whether the pass found anything to fix or flag
func (r *Report) Changed() bool {
	for _, root := range []RootReport{r.Audio, r.Text} {
		if len(root.Promoted)+len(root.Dropped)+len(root.Orphans)+len(root.Purged) > 0 {
			return true
		}
	}
	return false
}

// Service brings record rows and stored files back in line after a partial
// failure: pending rows are promoted or dropped, orphan files are reported
// and stale staged files are purged
type Service struct {
	repo    records.Repository
	records records.Service
	audio   storage.Backend
	text    storage.Backend
	opts    Options

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewService creates a new reconciliation service
func NewService(repo records.Repository, svc records.Service, audio, text storage.Backend, opts Options) *Service {
	if opts.MaxStagingAge <= 0 {
		opts.MaxStagingAge = time.Hour
	}
	return &Service{
		repo:    repo,
		records: svc,
		audio:   audio,
		text:    text,
		opts:    opts,
	}
}

// Start runs Reconcile every Interval until Stop is called or ctx ends
func (s *Service) Start(ctx context.Context) {
	if s.opts.Interval <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.opts.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if _, err := s.Reconcile(ctx); err != nil && ctx.Err() == nil {
					slog.Error("reconciliation failed", "error", err)
				}
			case <-ctx.Done():
				slog.Info("reconciler stopped")
				return
			}
		}
	}()

	slog.Info("reconciler started", "interval", s.opts.Interval, "remove_orphans", s.opts.RemoveOrphans)
}

// Stop stops the periodic reconciler and waits for a running pass to finish
func (s *Service) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// Reconcile runs one pass over both storage roots
func (s *Service) Reconcile(ctx context.Context) (*Report, error) {
	report := &Report{}

	if err := s.reconcileAudio(ctx, &report.Audio); err != nil {
		return report, fmt.Errorf("reconciling audio: %w", err)
	}
	if err := s.reconcileText(ctx, &report.Text); err != nil {
		return report, fmt.Errorf("reconciling text: %w", err)
	}

	if report.Changed() {
		slog.Info("reconciliation complete",
			"audio_promoted", len(report.Audio.Promoted),
			"audio_dropped", len(report.Audio.Dropped),
			"audio_orphans", len(report.Audio.Orphans),
			"text_promoted", len(report.Text.Promoted),
			"text_dropped", len(report.Text.Dropped),
			"text_orphans", len(report.Text.Orphans),
			"staging_purged", len(report.Audio.Purged)+len(report.Text.Purged))
	} else {
		slog.Debug("reconciliation found nothing to do")
	}
	return report, nil
}

func (s *Service) reconcileAudio(ctx context.Context, out *RootReport) error {
	pending, err := s.repo.GetPendingAudio(ctx)
	if err != nil {
		return err
	}

	var promote, drop []uint
	for _, r := range pending {
		if s.inFlight(r.UploadTime) {
			continue
		}
		exists, err := s.audio.Exists(ctx, r.Filename)
		if err != nil {
			return err
		}
		if exists {
			promote = append(promote, r.ID)
			out.Promoted = append(out.Promoted, r.Filename)
		} else {
			drop = append(drop, r.ID)
			out.Dropped = append(out.Dropped, r.Filename)
		}
	}

	if err := s.repo.SetAudioStatus(ctx, promote, models.StatusUploaded); err != nil {
		return err
	}
	if len(drop) > 0 {
		if _, err := s.records.DeleteAudio(ctx, drop); err != nil {
			return err
		}
	}

	return s.sweep(ctx, s.audio, &models.AudioRecord{}, out)
}

func (s *Service) reconcileText(ctx context.Context, out *RootReport) error {
	pending, err := s.repo.GetPendingText(ctx)
	if err != nil {
		return err
	}

	var promote, drop []uint
	var promoted []string
	for _, r := range pending {
		if s.inFlight(r.UploadTime) {
			continue
		}
		exists, err := s.text.Exists(ctx, r.Filename)
		if err != nil {
			return err
		}
		if exists {
			promote = append(promote, r.ID)
			promoted = append(promoted, r.Filename)
		} else {
			drop = append(drop, r.ID)
			out.Dropped = append(out.Dropped, r.Filename)
		}
	}

	// Promoted text picks up the audio links its upload never wrote
	err = s.repo.Transaction(ctx, func(tx records.Repository) error {
		for _, name := range promoted {
			if _, err := tx.LinkAudioToText(ctx, name); err != nil {
				return err
			}
		}
		return tx.SetTextStatus(ctx, promote, models.StatusUploaded)
	})
	if err != nil {
		return err
	}
	out.Promoted = append(out.Promoted, promoted...)
	// Deleting through the record service clears audio links to the dropped rows
	if len(drop) > 0 {
		if _, err := s.records.DeleteText(ctx, drop); err != nil {
			return err
		}
	}

	return s.sweep(ctx, s.text, &models.TextRecord{}, out)
}

// inFlight reports whether something written at t may belong to an upload
// that has not finished yet
func (s *Service) inFlight(t time.Time) bool {
	return time.Since(t) < s.opts.MaxStagingAge
}

// sweep flags stored files without a row and purges stale staged files.
// Recently written files are skipped, since their rows may not be visible yet.
func (s *Service) sweep(ctx context.Context, store storage.Backend, model any, out *RootReport) error {
	files, err := store.List(ctx)
	if err != nil {
		return err
	}
	inUse, err := s.repo.FilenamesInUse(ctx, model, files)
	if err != nil {
		return err
	}

	for _, name := range files {
		if inUse[name] {
			continue
		}
		modified, err := store.ModTime(ctx, name)
		if err != nil {
			slog.Warn("failed to stat stored file", "root", store.Root(), "filename", name, "error", err)
			continue
		}
		if s.inFlight(modified) {
			continue
		}
		out.Orphans = append(out.Orphans, name)
		if !s.opts.RemoveOrphans {
			slog.Warn("stored file has no record", "root", store.Root(), "filename", name)
			continue
		}
		if err := store.Delete(ctx, name); err != nil {
			slog.Warn("failed to remove orphan file", "root", store.Root(), "filename", name, "error", err)
			continue
		}
		out.Removed = append(out.Removed, name)
	}

	purged, err := store.PurgeStaging(ctx, s.opts.MaxStagingAge)
	out.Purged = purged
	return err
}
