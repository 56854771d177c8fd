package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeneves1970/ocorrencias/internal/feed"
	"github.com/zeneves1970/ocorrencias/internal/models"
	"github.com/zeneves1970/ocorrencias/internal/service/mocks"
	"go.uber.org/mock/gomock"
)

func TestRunCycle_FetchFailureAbortsCycle(t *testing.T) {
	monitor, _, _, feedMock, _ := newTestMonitor(t)
	ctx := context.Background()

	feedMock.EXPECT().FetchAll(ctx).Return(nil, errors.New("upstream timeout"))

	stats, err := monitor.RunCycle(ctx)

	require.Error(t, err)
	assert.Equal(t, 0, stats.Fetched)
}

func TestRunCycle_SweepUsesRetentionCutoffs(t *testing.T) {
	monitor, repoMock, _, feedMock, cfg := newTestMonitor(t)
	ctx := context.Background()

	feedMock.EXPECT().FetchAll(ctx).Return(nil, nil)
	repoMock.EXPECT().
		DeleteOlderThan(ctx, testNow.Add(-cfg.Retention)).
		Return(int64(2), nil)
	// Fingerprints live twice as long as rows, so a swept occurrence still in
	// the feed cannot re-notify right away.
	repoMock.EXPECT().
		DeleteFingerprintsOlderThan(ctx, testNow.Add(-2*cfg.Retention)).
		Return(int64(1), nil)
	repoMock.EXPECT().CountByStatus(ctx).Return(map[models.Status]int{}, nil)

	stats, err := monitor.RunCycle(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.SweptIncidents)
	assert.Equal(t, int64(1), stats.SweptFingerprints)
}

func TestRunCycle_SweepFailureAbortsCycle(t *testing.T) {
	monitor, repoMock, _, feedMock, cfg := newTestMonitor(t)
	ctx := context.Background()

	feedMock.EXPECT().FetchAll(ctx).Return(nil, nil)
	repoMock.EXPECT().
		DeleteOlderThan(ctx, testNow.Add(-cfg.Retention)).
		Return(int64(0), errors.New("database is locked"))

	_, err := monitor.RunCycle(ctx)

	require.Error(t, err)
}

func TestRunCycle_MirrorUploadAfterSweep(t *testing.T) {
	monitor, repoMock, _, feedMock, cfg := newTestMonitor(t)
	ctx := context.Background()

	ctrl := gomock.NewController(t)
	mirrorMock := mocks.NewMockMirror(ctrl)
	monitor.mirror = mirrorMock

	feedMock.EXPECT().FetchAll(ctx).Return(nil, nil)
	repoMock.EXPECT().DeleteOlderThan(ctx, testNow.Add(-cfg.Retention)).Return(int64(0), nil)
	repoMock.EXPECT().DeleteFingerprintsOlderThan(ctx, testNow.Add(-2*cfg.Retention)).Return(int64(0), nil)
	repoMock.EXPECT().CountByStatus(ctx).Return(map[models.Status]int{}, nil)

	gomock.InOrder(
		repoMock.EXPECT().Checkpoint(ctx).Return(nil),
		mirrorMock.EXPECT().Upload(ctx).Return(nil),
	)

	_, err := monitor.RunCycle(ctx)
	require.NoError(t, err)
}

func TestRunCycle_MirrorFailureDoesNotFailCycle(t *testing.T) {
	monitor, repoMock, _, feedMock, cfg := newTestMonitor(t)
	ctx := context.Background()

	ctrl := gomock.NewController(t)
	mirrorMock := mocks.NewMockMirror(ctrl)
	monitor.mirror = mirrorMock

	feedMock.EXPECT().FetchAll(ctx).Return(nil, nil)
	repoMock.EXPECT().DeleteOlderThan(ctx, testNow.Add(-cfg.Retention)).Return(int64(0), nil)
	repoMock.EXPECT().DeleteFingerprintsOlderThan(ctx, testNow.Add(-2*cfg.Retention)).Return(int64(0), nil)
	repoMock.EXPECT().CountByStatus(ctx).Return(map[models.Status]int{}, nil)
	repoMock.EXPECT().Checkpoint(ctx).Return(nil)
	mirrorMock.EXPECT().Upload(ctx).Return(errors.New("dropbox unreachable"))

	_, err := monitor.RunCycle(ctx)
	require.NoError(t, err)
}

func TestRunCycle_TalliesOutcomes(t *testing.T) {
	monitor, repoMock, publisherMock, feedMock, cfg := newTestMonitor(t)
	ctx := context.Background()

	// One brand-new record and one already-stored identical reading.
	newRec := feedRecord(101)
	knownRec := feedRecord(202)

	feedMock.EXPECT().FetchAll(ctx).Return([]feed.Record{newRec, knownRec}, nil)

	repoMock.EXPECT().GetByObjectID(ctx, int64(101)).Return(nil, nil)
	repoMock.EXPECT().Upsert(ctx, gomock.Any()).Return(nil)
	repoMock.EXPECT().AppendHistory(ctx, gomock.Any()).Return(nil)
	repoMock.EXPECT().RecordFingerprint(ctx, gomock.Any(), testNow).Return(nil)
	publisherMock.EXPECT().Publish(ctx, gomock.Any()).Return(nil)

	known := storedIncident(202)
	repoMock.EXPECT().GetByObjectID(ctx, int64(202)).Return(known, nil)
	repoMock.EXPECT().Upsert(ctx, gomock.Any()).Return(nil)

	repoMock.EXPECT().DeleteOlderThan(ctx, testNow.Add(-cfg.Retention)).Return(int64(0), nil)
	repoMock.EXPECT().DeleteFingerprintsOlderThan(ctx, testNow.Add(-2*cfg.Retention)).Return(int64(0), nil)
	repoMock.EXPECT().CountByStatus(ctx).Return(map[models.Status]int{models.StatusDespacho: 2}, nil)

	stats, err := monitor.RunCycle(ctx)

	require.NoError(t, err)
	assert.Equal(t, 2, stats.Fetched)
	assert.Equal(t, 1, stats.New)
	assert.Equal(t, 1, stats.Unchanged)
	assert.Equal(t, 1, stats.Notified)
}

func TestRun_StopsOnCancel(t *testing.T) {
	monitor, repoMock, _, feedMock, cfg := newTestMonitor(t)
	cfg.PollInterval = time.Hour

	feedMock.EXPECT().FetchAll(gomock.Any()).Return(nil, nil)
	repoMock.EXPECT().DeleteOlderThan(gomock.Any(), gomock.Any()).Return(int64(0), nil)
	repoMock.EXPECT().DeleteFingerprintsOlderThan(gomock.Any(), gomock.Any()).Return(int64(0), nil)
	repoMock.EXPECT().CountByStatus(gomock.Any()).Return(map[models.Status]int{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		monitor.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("monitor did not stop after context cancellation")
	}
}
