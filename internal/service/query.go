package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/zeneves1970/ocorrencias/internal/models"
)

// ListCurrent returns the current incidents ordered by severity, then most
// recently updated first.
func (s *MonitorService) ListCurrent(ctx context.Context) ([]*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "monitor",
		"method":  "ListCurrent",
	})

	incidents, err := s.repo.ListCurrent(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to list incidents from repository")
		return nil, fmt.Errorf("service: could not list incidents: %w", err)
	}

	models.SortForDisplay(incidents)
	return incidents, nil
}

// Get returns one current incident and whether its fingerprint was already
// notified. The incident is nil when the OBJECTID is unknown.
func (s *MonitorService) Get(ctx context.Context, objectID int64) (*models.Incident, bool, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "monitor",
		"method":   "Get",
		"objectid": objectID,
	})

	inc, err := s.repo.GetByObjectID(ctx, objectID)
	if err != nil {
		log.WithError(err).Error("Failed to get incident from repository")
		return nil, false, fmt.Errorf("service: could not get incident: %w", err)
	}
	if inc == nil {
		return nil, false, nil
	}

	notified, err := s.repo.HasFingerprint(ctx, inc.Fingerprint())
	if err != nil {
		log.WithError(err).Error("Failed to check notification ledger")
		return nil, false, fmt.Errorf("service: could not check fingerprint: %w", err)
	}
	return inc, notified, nil
}

// History returns every recorded snapshot for an OBJECTID.
func (s *MonitorService) History(ctx context.Context, objectID int64) ([]*models.HistoryEntry, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "monitor",
		"method":   "History",
		"objectid": objectID,
	})

	entries, err := s.repo.ListHistory(ctx, objectID)
	if err != nil {
		log.WithError(err).Error("Failed to list history from repository")
		return nil, fmt.Errorf("service: could not list history: %w", err)
	}
	return entries, nil
}

// Stats returns the current incident count per estado.
func (s *MonitorService) Stats(ctx context.Context) (map[models.Status]int, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "monitor",
		"method":  "Stats",
	})

	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to count incidents from repository")
		return nil, fmt.Errorf("service: could not count incidents: %w", err)
	}
	return counts, nil
}
