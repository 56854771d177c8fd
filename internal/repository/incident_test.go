package repository_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeneves1970/ocorrencias/internal/models"
	"github.com/zeneves1970/ocorrencias/internal/repository"
	"github.com/zeneves1970/ocorrencias/internal/service"
	"github.com/zeneves1970/ocorrencias/pkg/sqlite"
)

func newTestRepo(t *testing.T) service.IncidentRepository {
	t.Helper()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "ocorrencias_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, sqlite.Migrate(db))
	return repository.NewIncidentRepository(db)
}

func testIncident(objectID int64, at time.Time) *models.Incident {
	return &models.Incident{
		ObjectID:        objectID,
		DataInicio:      "2025-01-01T10:00:00",
		Natureza:        "Incêndio em mato",
		Concelho:        "Aveiro",
		Estado:          models.StatusDespacho,
		Operacionais:    5,
		MeiosTerrestres: 2,
		MeiosAereos:     0,
		AtualizadoEm:    at,
	}
}

func TestUpsert_InsertAndGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Upsert(ctx, testIncident(101, now)))

	got, err := repo.GetByObjectID(ctx, 101)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(101), got.ObjectID)
	assert.Equal(t, models.StatusDespacho, got.Estado)
	assert.Equal(t, 5, got.Operacionais)
	assert.True(t, got.AtualizadoEm.Equal(now))
}

func TestGetByObjectID_Missing(t *testing.T) {
	repo := newTestRepo(t)

	got, err := repo.GetByObjectID(context.Background(), 999)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUpsert_Idempotent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		inc := testIncident(101, base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, repo.Upsert(ctx, inc))
	}

	current, err := repo.ListCurrent(ctx)
	require.NoError(t, err)
	require.Len(t, current, 1)
	assert.True(t, current[0].AtualizadoEm.Equal(base.Add(2*time.Minute)))
}

func TestUpsert_OverwritesReading(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Upsert(ctx, testIncident(101, now)))

	updated := testIncident(101, now.Add(5*time.Minute))
	updated.Estado = models.StatusCurso
	updated.Operacionais = 20
	require.NoError(t, repo.Upsert(ctx, updated))

	got, err := repo.GetByObjectID(ctx, 101)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCurso, got.Estado)
	assert.Equal(t, 20, got.Operacionais)
}

func TestRecordFingerprint_Duplicate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	fp := testIncident(101, now).Fingerprint()

	require.NoError(t, repo.RecordFingerprint(ctx, fp, now))

	err := repo.RecordFingerprint(ctx, fp, now.Add(time.Minute))
	assert.ErrorIs(t, err, service.ErrDuplicateFingerprint)

	seen, err := repo.HasFingerprint(ctx, fp)
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestHasFingerprint_Unknown(t *testing.T) {
	repo := newTestRepo(t)

	seen, err := repo.HasFingerprint(context.Background(), "nunca-visto")
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestDeleteOlderThan(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

	// Updated 4 days ago: inside the 10 day window, must survive.
	fresh := testIncident(101, now.Add(-4*24*time.Hour))
	require.NoError(t, repo.Upsert(ctx, fresh))

	// Updated 11 days ago: stale, must be swept.
	stale := testIncident(202, now.Add(-11*24*time.Hour))
	require.NoError(t, repo.Upsert(ctx, stale))

	deleted, err := repo.DeleteOlderThan(ctx, now.Add(-10*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	current, err := repo.ListCurrent(ctx)
	require.NoError(t, err)
	require.Len(t, current, 1)
	assert.Equal(t, int64(101), current[0].ObjectID)
}

func TestDeleteFingerprintsOlderThan(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Date(2025, 1, 25, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.RecordFingerprint(ctx, "recente", now.Add(-24*time.Hour)))
	require.NoError(t, repo.RecordFingerprint(ctx, "antiga", now.Add(-21*24*time.Hour)))

	deleted, err := repo.DeleteFingerprintsOlderThan(ctx, now.Add(-20*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	seen, err := repo.HasFingerprint(ctx, "recente")
	require.NoError(t, err)
	assert.True(t, seen)

	seen, err = repo.HasFingerprint(ctx, "antiga")
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestAppendHistory_InsertionOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	inc := testIncident(101, now)
	require.NoError(t, repo.AppendHistory(ctx, inc.Snapshot(now)))

	inc.Estado = models.StatusCurso
	inc.Operacionais = 20
	require.NoError(t, repo.AppendHistory(ctx, inc.Snapshot(now.Add(5*time.Minute))))

	entries, err := repo.ListHistory(ctx, 101)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, models.StatusDespacho, entries[0].Estado)
	assert.Equal(t, models.StatusCurso, entries[1].Estado)
	assert.Equal(t, 20, entries[1].Operacionais)
}

func TestListHistory_Empty(t *testing.T) {
	repo := newTestRepo(t)

	entries, err := repo.ListHistory(context.Background(), 999)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCountByStatus(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	for i, estado := range []models.Status{models.StatusDespacho, models.StatusCurso, models.StatusCurso} {
		inc := testIncident(int64(100+i), now)
		inc.Estado = estado
		require.NoError(t, repo.Upsert(ctx, inc))
	}

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[models.StatusDespacho])
	assert.Equal(t, 2, counts[models.StatusCurso])
}

func TestCheckpoint(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, testIncident(101, time.Now())))
	assert.NoError(t, repo.Checkpoint(ctx))
}
