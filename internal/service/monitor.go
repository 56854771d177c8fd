package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/zeneves1970/ocorrencias/internal/config"
	"github.com/zeneves1970/ocorrencias/internal/metrics"
	"github.com/zeneves1970/ocorrencias/internal/notify"
)

// MonitorService drives the fetch→reconcile→sweep→publish cycle and serves
// the read-only queries of the dashboard.
type MonitorService struct {
	feed      FeedClient
	repo      IncidentRepository
	publisher notify.Publisher
	mirror    Mirror
	clock     Clock
	cfg       *config.Config
	logger    *logrus.Logger
}

func NewMonitorService(
	feedClient FeedClient,
	repo IncidentRepository,
	publisher notify.Publisher,
	mirror Mirror,
	clock Clock,
	cfg *config.Config,
	logger *logrus.Logger,
) *MonitorService {
	return &MonitorService{
		feed:      feedClient,
		repo:      repo,
		publisher: publisher,
		mirror:    mirror,
		clock:     clock,
		cfg:       cfg,
		logger:    logger,
	}
}

// Run executes cycles on a fixed interval until ctx is cancelled. A failed
// cycle is logged and retried on the next tick; nothing inside a cycle
// terminates the process. Cancellation takes effect between cycles.
func (s *MonitorService) Run(ctx context.Context) {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "monitor",
		"interval": s.cfg.PollInterval.String(),
	})
	log.Info("Monitor started")

	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	for {
		stats, err := s.RunCycle(ctx)
		if err != nil {
			metrics.CycleErrorsTotal.Inc()
			log.WithError(err).Error("Cycle failed, retrying on next tick")
		} else {
			log.WithFields(logrus.Fields{
				"fetched":   stats.Fetched,
				"new":       stats.New,
				"updated":   stats.Updated,
				"unchanged": stats.Unchanged,
				"skipped":   stats.Skipped,
				"notified":  stats.Notified,
				"swept":     stats.SweptIncidents,
			}).Info("Cycle completed")
		}

		select {
		case <-ctx.Done():
			log.Info("Monitor stopped")
			return
		case <-ticker.C:
		}
	}
}

// RunCycle performs one full pass: fetch all records, reconcile each one,
// sweep stale rows, then push the backing file to the mirror. Only a fetch
// failure or an unreachable store aborts the cycle; per-record problems are
// skipped inside reconcileRecord.
func (s *MonitorService) RunCycle(ctx context.Context) (CycleStats, error) {
	metrics.CyclesTotal.Inc()
	var stats CycleStats

	fetchStart := time.Now()
	records, err := s.feed.FetchAll(ctx)
	if err != nil {
		return stats, fmt.Errorf("monitor: fetch failed: %w", err)
	}
	metrics.FetchDuration.Observe(time.Since(fetchStart).Seconds())
	metrics.RecordsFetched.Add(float64(len(records)))
	stats.Fetched = len(records)

	for _, rec := range records {
		outcome, notified := s.reconcileRecord(ctx, rec)
		metrics.RecordsReconciled.WithLabelValues(string(outcome)).Inc()
		if notified {
			stats.Notified++
		}
		switch outcome {
		case OutcomeNew:
			stats.New++
		case OutcomeUpdated:
			stats.Updated++
		case OutcomeUnchanged:
			stats.Unchanged++
		case OutcomeSkipped:
			stats.Skipped++
		}
	}

	if err := s.sweep(ctx, &stats); err != nil {
		return stats, err
	}

	s.updateActiveGauge(ctx)
	s.uploadMirror(ctx)

	return stats, nil
}

// sweep retires incident rows last updated before the retention window and
// prunes the notification ledger with a window twice as long, so a swept
// occurrence that lingers in the feed cannot re-notify immediately.
func (s *MonitorService) sweep(ctx context.Context, stats *CycleStats) error {
	now := s.clock.Now()

	deleted, err := s.repo.DeleteOlderThan(ctx, now.Add(-s.cfg.Retention))
	if err != nil {
		return fmt.Errorf("monitor: sweep failed: %w", err)
	}
	stats.SweptIncidents = deleted
	metrics.SweptIncidents.Add(float64(deleted))

	pruned, err := s.repo.DeleteFingerprintsOlderThan(ctx, now.Add(-2*s.cfg.Retention))
	if err != nil {
		return fmt.Errorf("monitor: fingerprint sweep failed: %w", err)
	}
	stats.SweptFingerprints = pruned

	if deleted > 0 || pruned > 0 {
		s.logger.WithFields(logrus.Fields{
			"service":      "monitor",
			"method":       "sweep",
			"incidents":    deleted,
			"fingerprints": pruned,
		}).Info("Retention sweep removed stale rows")
	}
	return nil
}

func (s *MonitorService) updateActiveGauge(ctx context.Context) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to count incidents for metrics")
		return
	}
	metrics.ActiveIncidents.Reset()
	for estado, count := range counts {
		metrics.ActiveIncidents.WithLabelValues(string(estado)).Set(float64(count))
	}
}

// uploadMirror pushes the backing file to the remote blob location. Failure
// degrades durability across restarts but the local state is already
// consistent, so the cycle still counts as successful.
func (s *MonitorService) uploadMirror(ctx context.Context) {
	if s.mirror == nil {
		return
	}
	if err := s.repo.Checkpoint(ctx); err != nil {
		s.logger.WithError(err).Warn("Failed to checkpoint database before mirror upload")
	}
	if err := s.mirror.Upload(ctx); err != nil {
		s.logger.WithError(err).Warn("Failed to upload database to mirror")
	}
}
