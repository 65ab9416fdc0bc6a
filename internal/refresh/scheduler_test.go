package refresh

import (
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pad/internal/models"
	"pad/internal/presence"
	"pad/internal/services"
	"pad/internal/structures"
	"pad/internal/testutil"
)

func testConfig() *structures.Config {
	return &structures.Config{
		Persistence: structures.Persistence{
			StatePath:    "/tmp/pad.state",
			SaveInterval: time.Second,
		},
		Engine: structures.EngineConfig{
			RefreshInterval:  time.Second,
			MaxGap:           45 * time.Minute,
			GapCap:           15 * time.Minute,
			BlockTolerance:   time.Minute,
			ContinuityWindow: time.Hour,
			HighlightWindow:  3 * time.Minute,
		},
	}
}

type schedulerFixture struct {
	scheduler *Scheduler
	service   services.PresenceServiceInterface
	store     *testutil.MockStateStore
	metrics   *testutil.MockMetrics
}

func newSchedulerFixture() *schedulerFixture {
	conf := testConfig()
	logger := &testutil.MockLogger{}
	store := testutil.NewMockStateStore()
	metrics := &testutil.MockMetrics{}

	svc := services.NewPresenceService(
		conf,
		logger,
		presence.NewNormalizer(),
		presence.NewAggregator(presence.NewSegmenter(conf), presence.NewScorer(conf)),
		presence.NewLiveClassifier(conf),
		presence.NewInsightEngine(conf, time.UTC),
		presence.NewVipTracker(conf, store, &testutil.MockNotifier{}, logger),
		store,
		testutil.NewMockWatchStore(),
		time.UTC,
	)

	return &schedulerFixture{
		scheduler: NewScheduler(conf, logger, svc, store, metrics).(*Scheduler),
		service:   svc,
		store:     store,
		metrics:   metrics,
	}
}

func TestScheduler_Restore(t *testing.T) {
	f := newSchedulerFixture()

	pings := []models.PresencePing{
		{Username: "alice", Timestamp: time.Now()},
	}
	raw, err := json.Marshal(pings)
	require.NoError(t, err)
	f.store.Set("pings", raw)

	require.NoError(t, f.scheduler.Restore())
	assert.Equal(t, 1, f.store.LoadCalls)
	assert.Equal(t, 1, f.service.PingCount())
}

func TestScheduler_Restore_EmptyStore(t *testing.T) {
	f := newSchedulerFixture()
	require.NoError(t, f.scheduler.Restore())
	assert.Zero(t, f.service.PingCount())
}

func TestScheduler_Restore_LoadError(t *testing.T) {
	f := newSchedulerFixture()
	f.store.LoadErr = assert.AnError
	assert.Error(t, f.scheduler.Restore())
}

func TestScheduler_Persist(t *testing.T) {
	f := newSchedulerFixture()

	require.NoError(t, f.scheduler.Persist())
	assert.Equal(t, 1, f.store.SaveCalls)

	// The snapshot lands in the store before Save.
	_, ok := f.store.Get("pings")
	assert.True(t, ok)
}

func TestScheduler_Persist_SaveError(t *testing.T) {
	f := newSchedulerFixture()
	f.store.SaveErr = assert.AnError
	assert.Error(t, f.scheduler.Persist())
}

func TestScheduler_RunRefreshFeedsMetrics(t *testing.T) {
	f := newSchedulerFixture()

	f.scheduler.runRefresh()
	assert.Equal(t, 1, f.metrics.Refreshes)
}

func TestScheduler_StopNilCron(t *testing.T) {
	f := newSchedulerFixture()
	// Should not panic with nil cron
	f.scheduler.Stop()
}

func TestScheduler_InitAndStop(t *testing.T) {
	f := newSchedulerFixture()
	f.scheduler.Init()
	// Give the cron a moment to start
	time.Sleep(50 * time.Millisecond)
	f.scheduler.Stop()
}
