package service

import (
	"context"
	"errors"
	"time"

	"github.com/zeneves1970/ocorrencias/internal/feed"
	"github.com/zeneves1970/ocorrencias/internal/models"
)

//go:generate mockgen -source=service.go -destination=mocks/mock_service.go -package=mocks

// ErrDuplicateFingerprint is returned by RecordFingerprint when the
// fingerprint was already claimed. Expected under concurrent writers and
// treated as "already notified", never as a failure.
var ErrDuplicateFingerprint = errors.New("fingerprint already recorded")

// IncidentRepository is the contract for the reconciliation store. The
// single store handle behind it is passed in explicitly; fingerprint
// uniqueness is a storage-level constraint, not a check-then-act read.
type IncidentRepository interface {
	GetByObjectID(ctx context.Context, objectID int64) (*models.Incident, error)
	Upsert(ctx context.Context, inc *models.Incident) error
	HasFingerprint(ctx context.Context, fingerprint string) (bool, error)
	RecordFingerprint(ctx context.Context, fingerprint string, at time.Time) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	DeleteFingerprintsOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	AppendHistory(ctx context.Context, entry *models.HistoryEntry) error
	ListCurrent(ctx context.Context) ([]*models.Incident, error)
	ListHistory(ctx context.Context, objectID int64) ([]*models.HistoryEntry, error)
	CountByStatus(ctx context.Context) (map[models.Status]int, error)
	Checkpoint(ctx context.Context) error
}

// FeedClient fetches the full current snapshot from the upstream feed.
type FeedClient interface {
	FetchAll(ctx context.Context) ([]feed.Record, error)
}

// Mirror copies the store's backing file to and from a remote blob location.
type Mirror interface {
	Download(ctx context.Context) error
	Upload(ctx context.Context) error
}

// OcorrenciaService is the read-only surface consumed by the dashboard API.
type OcorrenciaService interface {
	ListCurrent(ctx context.Context) ([]*models.Incident, error)
	Get(ctx context.Context, objectID int64) (*models.Incident, bool, error)
	History(ctx context.Context, objectID int64) ([]*models.HistoryEntry, error)
	Stats(ctx context.Context) (map[models.Status]int, error)
}
