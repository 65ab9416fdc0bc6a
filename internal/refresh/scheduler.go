package refresh

import (
	"sync"
	"time"

	"github.com/roylee0704/gron"

	"pad/internal/providers"
	"pad/internal/refresh/interfaces"
	"pad/internal/services"
	"pad/internal/structures"
)

// Scheduler drives the two periodic jobs: pipeline refreshes and state
// persistence. Refreshes never overlap; opsMu serializes them with
// shutdown persistence.
type Scheduler struct {
	config  *structures.Config
	logger  providers.Logger
	service services.PresenceServiceInterface
	store   providers.StateStoreInterface
	metrics providers.MetricsProviderInterface
	cron    *gron.Cron
	opsMu   sync.Mutex
}

func (s *Scheduler) Init() {
	s.cron = gron.New()

	s.cron.AddFunc(gron.Every(s.config.Persistence.SaveInterval), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()

		if err := s.persistLocked(); err != nil {
			s.logger.Errorf(providers.TypeApp, "Error while persisting state: %s", err)
			return
		}
		s.logger.Infof(providers.TypeApp, "Persisted state to %s", s.config.Persistence.StatePath)
	})

	s.cron.AddFunc(gron.Every(s.config.Engine.RefreshInterval), func() {
		s.runRefresh()
	})

	s.cron.Start()
}

func (s *Scheduler) runRefresh() {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	start := time.Now()
	summary := s.service.Refresh()

	s.metrics.IncRefreshes()
	s.metrics.ObserveRefreshDuration(time.Since(start))
	s.metrics.SetOnlineUsers(summary.Online)
	s.metrics.SetGhostUsers(summary.Ghosts)
	s.metrics.AddVipNotifications(len(summary.NotifiedVips))

	s.logger.Infof(providers.TypeApp,
		"Refresh done: %d new pings, %d total, %d online, %d ghosts, %d vip notifications",
		summary.BufferedPings, summary.TotalPings, summary.Online, summary.Ghosts, len(summary.NotifiedVips))
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) Restore() error {
	if err := s.store.Load(); err != nil {
		return err
	}
	return s.service.RestoreSnapshot()
}

func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeApp, "Persisting state...")
	if err := s.persistLocked(); err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting state: %s", err)
		return err
	}
	return nil
}

func (s *Scheduler) persistLocked() error {
	start := time.Now()
	if err := s.service.PersistSnapshot(); err != nil {
		return err
	}
	if err := s.store.Save(); err != nil {
		return err
	}
	s.metrics.ObservePersistenceDuration(time.Since(start))
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, service services.PresenceServiceInterface, store providers.StateStoreInterface, metrics providers.MetricsProviderInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		config:  config,
		logger:  logger,
		service: service,
		store:   store,
		metrics: metrics,
	}
}
