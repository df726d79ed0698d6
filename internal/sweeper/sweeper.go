package sweeper

import (
	"context"
	"sync"
	"time"

	"github.com/deckdrop/deckdrop/internal/artifact"
	"github.com/deckdrop/deckdrop/internal/clock"
	obsmetrics "github.com/deckdrop/deckdrop/internal/observability/metrics"
	presentationdomain "github.com/deckdrop/deckdrop/internal/presentation/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log     *zap.Logger
	Repo    presentationdomain.Repository
	Store   artifact.Store
	Clock   clock.Clock
	Config  Config              `optional:"true"`
	Metrics *obsmetrics.Metrics `optional:"true"`
}

// Sweeper deletes expired presentations and their stored artifacts on a
// fixed interval.
type Sweeper struct {
	log     *zap.Logger
	cfg     Config
	repo    presentationdomain.Repository
	store   artifact.Store
	clock   clock.Clock
	metrics *obsmetrics.Metrics
}

func New(p Params) *Sweeper {
	return &Sweeper{
		log:     p.Log.Named("sweeper").With(zap.String("component", "sweeper")),
		cfg:     p.Config.withDefaults(),
		repo:    p.Repo,
		store:   p.Store,
		clock:   p.Clock,
		metrics: p.Metrics,
	}
}

func (s *Sweeper) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		if err := s.RunOnce(ctx); err != nil {
			s.log.Warn("sweep failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// RunOnce performs one sweep. Deletions for different records run
// concurrently; the sweep returns only after every spawned deletion has
// settled. A failing artifact deletion never blocks deletion of its
// record, and a failing record never blocks the others.
func (s *Sweeper) RunOnce(parent context.Context) error {
	start := time.Now()
	ctx, cancel := context.WithTimeout(parent, s.cfg.JobTimeout)
	defer cancel()

	now := s.clock.Now()
	expired, err := s.repo.ListExpired(ctx, now)
	if err != nil {
		return err
	}
	if len(expired) == 0 {
		s.log.Debug("no expired presentations")
		return nil
	}

	s.log.Info("sweeping expired presentations", zap.Int("count", len(expired)))

	var wg sync.WaitGroup
	for _, record := range expired {
		wg.Add(1)
		go func(record presentationdomain.Presentation) {
			defer wg.Done()
			s.sweepOne(ctx, record)
		}(record)
	}
	wg.Wait()

	s.metrics.ObserveSweep(time.Since(start).Seconds())
	return nil
}

func (s *Sweeper) sweepOne(ctx context.Context, record presentationdomain.Presentation) {
	log := s.log.With(zap.String("presentation_id", record.ID))

	if record.FileURL != "" {
		if err := s.deleteArtifact(ctx, record.FileURL); err != nil {
			// Record cleanup must proceed regardless; a stale or missing
			// file must not leave expired metadata behind forever.
			log.Error("artifact deletion failed",
				zap.String("file_url", record.FileURL),
				zap.Error(err),
			)
			s.metrics.IncArtifactFailure()
		} else {
			log.Info("deleted artifact", zap.String("file_url", record.FileURL))
			s.metrics.IncArtifactDeleted()
		}
	}

	if err := s.repo.Delete(ctx, record.ID); err != nil {
		// Still matching on the next sweep; it will be re-attempted then.
		log.Error("record deletion failed", zap.Error(err))
		return
	}
	log.Info("deleted presentation")
	s.metrics.IncRecordDeleted()
}

func (s *Sweeper) deleteArtifact(ctx context.Context, fileURL string) error {
	objectPath, err := artifact.ParseObjectPath(fileURL)
	if err != nil {
		return err
	}
	return s.store.Delete(ctx, objectPath)
}
