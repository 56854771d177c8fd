package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/zeneves1970/ocorrencias/internal/config"
	"github.com/zeneves1970/ocorrencias/internal/feed"
	"github.com/zeneves1970/ocorrencias/internal/models"
	"github.com/zeneves1970/ocorrencias/internal/notify"
	notify_mocks "github.com/zeneves1970/ocorrencias/internal/notify/mocks"
	"github.com/zeneves1970/ocorrencias/internal/service/mocks"
	"go.uber.org/mock/gomock"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

var testNow = time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

// newTestMonitor builds a MonitorService backed entirely by mocks.
func newTestMonitor(t *testing.T) (*MonitorService, *mocks.MockIncidentRepository, *notify_mocks.MockPublisher, *mocks.MockFeedClient, *config.Config) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockIncidentRepository(ctrl)
	publisherMock := notify_mocks.NewMockPublisher(ctrl)
	feedMock := mocks.NewMockFeedClient(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	cfg := &config.Config{
		PollInterval:         5 * time.Minute,
		Retention:            240 * time.Hour,
		StoreRetries:         3,
		StoreRetryDelay:      0,
		NotifyReinforcements: true,
	}

	monitor := NewMonitorService(feedMock, repoMock, publisherMock, nil, fixedClock{now: testNow}, cfg, logger)
	return monitor, repoMock, publisherMock, feedMock, cfg
}

func feedRecord(objectID int64) feed.Record {
	id := objectID
	return feed.Record{Attributes: feed.Attributes{
		ObjectID:        &id,
		DataInicio:      "2025-01-15T09:30:00",
		Natureza:        "Incêndio em mato",
		Concelho:        "Aveiro",
		Estado:          "Em Despacho",
		Operacionais:    5,
		MeiosTerrestres: 2,
		MeiosAereos:     0,
	}}
}

func storedIncident(objectID int64) *models.Incident {
	inc, _ := feedRecord(objectID).ToIncident()
	inc.AtualizadoEm = testNow.Add(-5 * time.Minute)
	return inc
}

func TestReconcileRecord_NewNotifiesOnce(t *testing.T) {
	monitor, repoMock, publisherMock, _, _ := newTestMonitor(t)
	ctx := context.Background()
	rec := feedRecord(101)

	repoMock.EXPECT().GetByObjectID(ctx, int64(101)).Return(nil, nil)
	repoMock.EXPECT().Upsert(ctx, gomock.Any()).Return(nil)
	repoMock.EXPECT().AppendHistory(ctx, gomock.Any()).Return(nil)
	repoMock.EXPECT().RecordFingerprint(ctx, gomock.Any(), testNow).Return(nil)

	var published notify.Event
	publisherMock.EXPECT().
		Publish(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, event notify.Event) error {
			published = event
			return nil
		})

	outcome, notified := monitor.reconcileRecord(ctx, rec)

	assert.Equal(t, OutcomeNew, outcome)
	assert.True(t, notified)
	assert.Equal(t, notify.KindNova, published.Kind)
	assert.Contains(t, published.Message(), "Nova ocorrência")
	assert.Contains(t, published.Message(), "Em Despacho")
	assert.Contains(t, published.Message(), "Operacionais: 5")
}

func TestReconcileRecord_DuplicateFingerprintSuppressed(t *testing.T) {
	monitor, repoMock, _, _, _ := newTestMonitor(t)
	ctx := context.Background()

	// Same real-world occurrence showing up under a second OBJECTID. The row
	// is stored but the ledger already holds the fingerprint, so no event.
	repoMock.EXPECT().GetByObjectID(ctx, int64(202)).Return(nil, nil)
	repoMock.EXPECT().Upsert(ctx, gomock.Any()).Return(nil)
	repoMock.EXPECT().AppendHistory(ctx, gomock.Any()).Return(nil)
	repoMock.EXPECT().RecordFingerprint(ctx, gomock.Any(), testNow).Return(ErrDuplicateFingerprint)

	outcome, notified := monitor.reconcileRecord(ctx, feedRecord(202))

	assert.Equal(t, OutcomeNew, outcome)
	assert.False(t, notified)
}

func TestReconcileRecord_UpdateWithReinforcement(t *testing.T) {
	monitor, repoMock, publisherMock, _, _ := newTestMonitor(t)
	ctx := context.Background()

	existing := storedIncident(101)
	rec := feedRecord(101)
	rec.Attributes.Estado = "Em Curso"
	rec.Attributes.Operacionais = 20

	repoMock.EXPECT().GetByObjectID(ctx, int64(101)).Return(existing, nil)
	repoMock.EXPECT().Upsert(ctx, gomock.Any()).Return(nil)
	repoMock.EXPECT().AppendHistory(ctx, gomock.Any()).Return(nil)

	var published notify.Event
	publisherMock.EXPECT().
		Publish(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, event notify.Event) error {
			published = event
			return nil
		})

	outcome, notified := monitor.reconcileRecord(ctx, rec)

	assert.Equal(t, OutcomeUpdated, outcome)
	assert.True(t, notified)
	assert.Equal(t, notify.KindReforco, published.Kind)
	assert.Contains(t, published.Message(), "Reforço de meios")
}

func TestReconcileRecord_UpdateWithoutReinforcement(t *testing.T) {
	monitor, repoMock, _, _, _ := newTestMonitor(t)
	ctx := context.Background()

	// Status moves forward but no count grows: store the update, stay quiet.
	existing := storedIncident(101)
	rec := feedRecord(101)
	rec.Attributes.Estado = "Em Resolução"

	repoMock.EXPECT().GetByObjectID(ctx, int64(101)).Return(existing, nil)
	repoMock.EXPECT().Upsert(ctx, gomock.Any()).Return(nil)
	repoMock.EXPECT().AppendHistory(ctx, gomock.Any()).Return(nil)

	outcome, notified := monitor.reconcileRecord(ctx, rec)

	assert.Equal(t, OutcomeUpdated, outcome)
	assert.False(t, notified)
}

func TestReconcileRecord_ReinforcementsDisabled(t *testing.T) {
	monitor, repoMock, _, _, cfg := newTestMonitor(t)
	cfg.NotifyReinforcements = false
	ctx := context.Background()

	existing := storedIncident(101)
	rec := feedRecord(101)
	rec.Attributes.Operacionais = 50

	repoMock.EXPECT().GetByObjectID(ctx, int64(101)).Return(existing, nil)
	repoMock.EXPECT().Upsert(ctx, gomock.Any()).Return(nil)
	repoMock.EXPECT().AppendHistory(ctx, gomock.Any()).Return(nil)

	outcome, notified := monitor.reconcileRecord(ctx, rec)

	assert.Equal(t, OutcomeUpdated, outcome)
	assert.False(t, notified)
}

func TestReconcileRecord_UnchangedRefreshesOnly(t *testing.T) {
	monitor, repoMock, _, _, _ := newTestMonitor(t)
	ctx := context.Background()

	existing := storedIncident(101)
	repoMock.EXPECT().GetByObjectID(ctx, int64(101)).Return(existing, nil)

	// No history, no fingerprint, no publish. Only the freshness stamp moves.
	repoMock.EXPECT().
		Upsert(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, inc *models.Incident) error {
			assert.True(t, inc.AtualizadoEm.Equal(testNow))
			return nil
		})

	outcome, notified := monitor.reconcileRecord(ctx, feedRecord(101))

	assert.Equal(t, OutcomeUnchanged, outcome)
	assert.False(t, notified)
}

func TestReconcileRecord_ObjectIDReuseIsNew(t *testing.T) {
	monitor, repoMock, publisherMock, _, _ := newTestMonitor(t)
	ctx := context.Background()

	// Upstream reused OBJECTID 101 for a different occurrence: the stored
	// fingerprint no longer matches, so this is a first sighting.
	existing := storedIncident(101)
	existing.DataInicio = "2025-01-10T03:00:00"

	repoMock.EXPECT().GetByObjectID(ctx, int64(101)).Return(existing, nil)
	repoMock.EXPECT().Upsert(ctx, gomock.Any()).Return(nil)
	repoMock.EXPECT().AppendHistory(ctx, gomock.Any()).Return(nil)
	repoMock.EXPECT().RecordFingerprint(ctx, gomock.Any(), testNow).Return(nil)
	publisherMock.EXPECT().Publish(ctx, gomock.Any()).Return(nil)

	outcome, notified := monitor.reconcileRecord(ctx, feedRecord(101))

	assert.Equal(t, OutcomeNew, outcome)
	assert.True(t, notified)
}

func TestReconcileRecord_MalformedSkipped(t *testing.T) {
	monitor, _, _, _, _ := newTestMonitor(t)

	rec := feedRecord(101)
	rec.Attributes.ObjectID = nil

	outcome, notified := monitor.reconcileRecord(context.Background(), rec)

	assert.Equal(t, OutcomeSkipped, outcome)
	assert.False(t, notified)
}

func TestReconcileRecord_StoreRetryRecovers(t *testing.T) {
	monitor, repoMock, publisherMock, _, _ := newTestMonitor(t)
	ctx := context.Background()

	repoMock.EXPECT().GetByObjectID(ctx, int64(101)).Return(nil, errors.New("database is locked"))
	repoMock.EXPECT().GetByObjectID(ctx, int64(101)).Return(nil, nil)
	repoMock.EXPECT().Upsert(ctx, gomock.Any()).Return(nil)
	repoMock.EXPECT().AppendHistory(ctx, gomock.Any()).Return(nil)
	repoMock.EXPECT().RecordFingerprint(ctx, gomock.Any(), testNow).Return(nil)
	publisherMock.EXPECT().Publish(ctx, gomock.Any()).Return(nil)

	outcome, notified := monitor.reconcileRecord(ctx, feedRecord(101))

	assert.Equal(t, OutcomeNew, outcome)
	assert.True(t, notified)
}

func TestReconcileRecord_StoreRetryExhausted(t *testing.T) {
	monitor, repoMock, _, _, _ := newTestMonitor(t)
	ctx := context.Background()

	repoMock.EXPECT().
		GetByObjectID(ctx, int64(101)).
		Return(nil, errors.New("database is locked")).
		Times(3)

	outcome, notified := monitor.reconcileRecord(ctx, feedRecord(101))

	assert.Equal(t, OutcomeSkipped, outcome)
	assert.False(t, notified)
}

func TestReconcileRecord_PublishFailureKeepsRecord(t *testing.T) {
	monitor, repoMock, publisherMock, _, _ := newTestMonitor(t)
	ctx := context.Background()

	repoMock.EXPECT().GetByObjectID(ctx, int64(101)).Return(nil, nil)
	repoMock.EXPECT().Upsert(ctx, gomock.Any()).Return(nil)
	repoMock.EXPECT().AppendHistory(ctx, gomock.Any()).Return(nil)
	repoMock.EXPECT().RecordFingerprint(ctx, gomock.Any(), testNow).Return(nil)
	publisherMock.EXPECT().Publish(ctx, gomock.Any()).Return(errors.New("redis down"))

	outcome, notified := monitor.reconcileRecord(ctx, feedRecord(101))

	// The store writes already happened; the queue failure only loses the
	// event, it never rolls back the reconciliation.
	assert.Equal(t, OutcomeNew, outcome)
	assert.True(t, notified)
}
