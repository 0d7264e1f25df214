package serviceimpl

import (
	"context"
	"sync"
	"time"

	"todo-api/domain/repositories"
	"todo-api/domain/services"
	"todo-api/pkg/logger"
	"todo-api/pkg/scheduler"
)

const storeHealthJobID = "store_health"

type StoreHealthConfig struct {
	Driver        string
	CheckInterval string        // gocron expression (default: "@every 30s")
	PingTimeout   time.Duration // default: 5s
}

// StoreHealthService pings the todo store on a schedule and keeps the last result
type StoreHealthService struct {
	config    StoreHealthConfig
	todoRepo  repositories.TodoRepository
	scheduler scheduler.EventScheduler

	mu     sync.RWMutex
	status services.StoreStatus
}

func NewStoreHealthService(
	config StoreHealthConfig,
	todoRepo repositories.TodoRepository,
	eventScheduler scheduler.EventScheduler,
) *StoreHealthService {
	if config.CheckInterval == "" {
		config.CheckInterval = "@every 30s"
	}
	if config.PingTimeout == 0 {
		config.PingTimeout = 5 * time.Second
	}

	return &StoreHealthService{
		config:    config,
		todoRepo:  todoRepo,
		scheduler: eventScheduler,
		status:    services.StoreStatus{Driver: config.Driver},
	}
}

// RegisterHealthJob adds the ping job to the scheduler
func (s *StoreHealthService) RegisterHealthJob() error {
	return s.scheduler.AddJob(storeHealthJobID, s.config.CheckInterval, func() {
		_ = s.CheckNow(context.Background())
	})
}

// CheckNow pings the store once and records the outcome
func (s *StoreHealthService) CheckNow(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.PingTimeout)
	defer cancel()

	err := s.todoRepo.Ping(ctx)

	s.mu.Lock()
	wasUp, checked := s.status.Up, s.status.Checked
	s.status.Checked = true
	s.status.LastCheck = time.Now().UTC()
	s.status.Up = err == nil
	s.status.LastError = ""
	if err != nil {
		s.status.LastError = err.Error()
	}
	s.mu.Unlock()

	// log transitions only, the job runs every few seconds
	switch {
	case err != nil && (wasUp || !checked):
		logger.ErrorContext(ctx, "Store unreachable", "driver", s.config.Driver, "error", err)
	case err == nil && !wasUp && checked:
		logger.InfoContext(ctx, "Store reachable again", "driver", s.config.Driver)
	}
	return err
}

func (s *StoreHealthService) Status() services.StoreStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

var _ services.StoreHealthService = (*StoreHealthService)(nil)
