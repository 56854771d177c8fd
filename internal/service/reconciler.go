package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/zeneves1970/ocorrencias/internal/feed"
	"github.com/zeneves1970/ocorrencias/internal/metrics"
	"github.com/zeneves1970/ocorrencias/internal/models"
	"github.com/zeneves1970/ocorrencias/internal/notify"
)

// Outcome is the terminal classification of one record within a cycle.
type Outcome string

const (
	OutcomeNew       Outcome = "new"
	OutcomeUpdated   Outcome = "updated"
	OutcomeUnchanged Outcome = "unchanged"
	OutcomeSkipped   Outcome = "skipped"
)

// CycleStats summarizes one fetch→reconcile→sweep pass.
type CycleStats struct {
	Fetched            int
	New                int
	Updated            int
	Unchanged          int
	Skipped            int
	Notified           int
	SweptIncidents     int64
	SweptFingerprints  int64
}

// reconcileRecord runs the per-record state machine. It returns the outcome
// and whether a notification was published. Malformed records and exhausted
// store retries are reported as OutcomeSkipped; they never abort the cycle.
func (s *MonitorService) reconcileRecord(ctx context.Context, rec feed.Record) (Outcome, bool) {
	inc, err := rec.ToIncident()
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"service": "monitor",
			"method":  "reconcileRecord",
		}).WithError(err).Warn("Skipping malformed feed record")
		return OutcomeSkipped, false
	}

	now := s.clock.Now()
	inc.AtualizadoEm = now

	log := s.logger.WithFields(logrus.Fields{
		"service":  "monitor",
		"method":   "reconcileRecord",
		"objectid": inc.ObjectID,
	})

	var existing *models.Incident
	err = s.withStoreRetry(func() error {
		var getErr error
		existing, getErr = s.repo.GetByObjectID(ctx, inc.ObjectID)
		return getErr
	})
	if err != nil {
		log.WithError(err).Error("Failed to look up incident, skipping record")
		return OutcomeSkipped, false
	}

	// A matching OBJECTID with a different fingerprint is an upstream id
	// reuse: logically a brand-new occurrence, not an update of the old one.
	if existing == nil || existing.Fingerprint() != inc.Fingerprint() {
		return s.applyNew(ctx, log, inc, now)
	}

	if !existing.SameReading(inc) {
		return s.applyUpdate(ctx, log, existing, inc, now)
	}

	// Unchanged: refresh data_atualizacao only. The upsert is idempotent.
	if err := s.withStoreRetry(func() error { return s.repo.Upsert(ctx, inc) }); err != nil {
		log.WithError(err).Error("Failed to refresh unchanged incident, skipping record")
		return OutcomeSkipped, false
	}
	return OutcomeUnchanged, false
}

func (s *MonitorService) applyNew(ctx context.Context, log *logrus.Entry, inc *models.Incident, now time.Time) (Outcome, bool) {
	if err := s.withStoreRetry(func() error { return s.repo.Upsert(ctx, inc) }); err != nil {
		log.WithError(err).Error("Failed to upsert new incident, skipping record")
		return OutcomeSkipped, false
	}
	if err := s.withStoreRetry(func() error { return s.repo.AppendHistory(ctx, inc.Snapshot(now)) }); err != nil {
		log.WithError(err).Error("Failed to append history for new incident")
	}

	err := s.repo.RecordFingerprint(ctx, inc.Fingerprint(), now)
	switch {
	case err == nil:
		s.publish(ctx, log, notify.KindNova, inc, now)
		return OutcomeNew, true
	case errors.Is(err, ErrDuplicateFingerprint):
		// Already notified for this real-world occurrence, possibly in a
		// previous cycle or by a concurrent writer.
		log.Debug("Fingerprint already recorded, suppressing notification")
	default:
		log.WithError(err).Error("Failed to record fingerprint, suppressing notification")
	}
	return OutcomeNew, false
}

func (s *MonitorService) applyUpdate(ctx context.Context, log *logrus.Entry, existing, inc *models.Incident, now time.Time) (Outcome, bool) {
	if err := s.withStoreRetry(func() error { return s.repo.Upsert(ctx, inc) }); err != nil {
		log.WithError(err).Error("Failed to overwrite incident, skipping record")
		return OutcomeSkipped, false
	}
	if err := s.withStoreRetry(func() error { return s.repo.AppendHistory(ctx, inc.Snapshot(now)) }); err != nil {
		log.WithError(err).Error("Failed to append history for updated incident")
	}

	// Updates never pass through the fingerprint ledger. Reinforcement
	// notices are a configurable policy on top of the Updated transition.
	if s.cfg.NotifyReinforcements && inc.Reinforced(existing) {
		s.publish(ctx, log, notify.KindReforco, inc, now)
		return OutcomeUpdated, true
	}
	return OutcomeUpdated, false
}

func (s *MonitorService) publish(ctx context.Context, log *logrus.Entry, kind notify.Kind, inc *models.Incident, now time.Time) {
	event := notify.NewEvent(kind, inc, now)
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.WithError(err).Error("Failed to publish notification event")
		return
	}
	metrics.NotificationsPublished.WithLabelValues(string(kind)).Inc()
	log.WithFields(logrus.Fields{
		"event_id":   event.ID,
		"event_kind": kind,
	}).Info("Notification event published")
}

// withStoreRetry retries a single store operation a bounded number of times.
// Exhausting the retries skips the record, not the cycle.
func (s *MonitorService) withStoreRetry(op func() error) error {
	var lastErr error
	for attempt := 0; attempt < s.cfg.StoreRetries; attempt++ {
		if attempt > 0 && s.cfg.StoreRetryDelay > 0 {
			time.Sleep(s.cfg.StoreRetryDelay)
		}
		if lastErr = op(); lastErr == nil {
			return nil
		}
	}
	return fmt.Errorf("store operation failed after %d attempts: %w", s.cfg.StoreRetries, lastErr)
}
