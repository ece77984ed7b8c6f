// Package service implements the reward event lifecycle: events, issues,
// leaderboards, winner snapshots and escrow distribution. Every mutation runs
// under a per-event lock inside a single store transaction.
package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/puzpuzpuz/xsync"

	"github.com/okian/bounty/internal/adapters/repository"
	"github.com/okian/bounty/internal/domain/keys"
	"github.com/okian/bounty/internal/domain/model"
	"github.com/okian/bounty/pkg/logger"
	"github.com/okian/bounty/pkg/metrics"
)

// Service implements the API dependencies for reward events.
type Service struct {
	mu sync.RWMutex

	store repository.Store
	locks *xsync.MapOf[string, *sync.Mutex]
	clock clockwork.Clock

	// Configuration
	storeDriver         string
	storeDSN            string
	issueBookCapacity   int
	leaderboardCapacity int
	maxNameLength       int

	// State
	started bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStoreDriver selects the store backend opened by Start.
func WithStoreDriver(driver, dsn string) Option {
	return func(s *Service) {
		if driver != "" {
			s.storeDriver = driver
			s.storeDSN = dsn
		}
	}
}

// WithClock replaces the wall clock used for schedule checks.
func WithClock(c clockwork.Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithIssueBookCapacity caps the issues per event.
func WithIssueBookCapacity(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.issueBookCapacity = n
		}
	}
}

// WithLeaderboardCapacity caps the distinct contributors per event.
func WithLeaderboardCapacity(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.leaderboardCapacity = n
		}
	}
}

// WithMaxNameLength caps event names, in runes.
func WithMaxNameLength(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxNameLength = n
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		locks:               xsync.NewMapOf[*sync.Mutex](),
		clock:               clockwork.NewRealClock(),
		storeDriver:         repository.DriverMemory,
		issueBookCapacity:   50,
		leaderboardCapacity: 100,
		maxNameLength:       32,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start opens the configured store.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	store, err := repository.Open(ctx, s.storeDriver, s.storeDSN, repository.WithLogger(s.logger))
	if err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	s.store = store

	s.started = true
	s.logger.Info(ctx, "reward service started",
		logger.String("store", s.storeDriver),
		logger.Int("issueBookCapacity", s.issueBookCapacity),
		logger.Int("leaderboardCapacity", s.leaderboardCapacity),
	)
	return nil
}

// Stop closes the store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	if err := s.store.Close(); err != nil {
		s.logger.Error(context.Background(), "failed to close store", logger.Error(err))
	}
	s.store = nil
	s.started = false
	s.logger.Info(context.Background(), "reward service stopped")
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started": s.started,
		"store":   s.storeDriver,
	}
	if !s.started {
		return stats
	}

	n, err := s.store.Count(ctx, keys.NamespaceEventRef)
	if err != nil {
		s.logger.Warn(ctx, "failed to count events", logger.Error(err))
		return stats
	}
	stats["trackedEvents"] = n
	metrics.UpdateTrackedEvents(n)
	return stats
}

// lock returns the mutex serializing mutations of one event.
func (s *Service) lock(eventID uint64) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(strconv.FormatUint(eventID, 10), &sync.Mutex{})
	return mu
}

// mutate runs fn in a write transaction while holding the event lock.
func (s *Service) mutate(ctx context.Context, op string, eventID uint64, fn func(repository.Tx) error) error {
	mu := s.lock(eventID)
	mu.Lock()
	defer mu.Unlock()
	return s.update(ctx, op, fn)
}

func (s *Service) update(ctx context.Context, op string, fn func(repository.Tx) error) error {
	if s.store == nil || s.logger == nil {
		return fmt.Errorf("%s: %w", op, ErrNotStarted)
	}
	start := time.Now()
	err := s.store.Update(ctx, fn)
	s.observe(ctx, op, start, err)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Service) view(ctx context.Context, op string, fn func(repository.Tx) error) error {
	if s.store == nil || s.logger == nil {
		return fmt.Errorf("%s: %w", op, ErrNotStarted)
	}
	start := time.Now()
	err := s.store.View(ctx, fn)
	s.observe(ctx, op, start, err)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Service) observe(ctx context.Context, op string, start time.Time, err error) {
	ms := float64(time.Since(start).Microseconds()) / 1000
	if err == nil {
		metrics.RecordOperation(op, metrics.OutcomeOK, ms)
		return
	}

	kind := model.Kind(err)
	if kind == "internal" {
		metrics.RecordOperation(op, metrics.OutcomeFailed, ms)
		s.logger.Error(ctx, "operation failed", logger.String("operation", op), logger.Error(err))
		return
	}
	metrics.RecordOperation(op, metrics.OutcomeRejected, ms)
	metrics.RecordRejection(op, kind)
	s.logger.Debug(ctx, "operation rejected",
		logger.String("operation", op),
		logger.String("kind", kind),
		logger.Error(err),
	)
}

// loadEvent resolves the event through its directory record.
func loadEvent(tx repository.Tx, eventID uint64) (*model.Event, error) {
	var ref model.EventRef
	if err := tx.Read(keys.EventRef(eventID), &ref); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, model.ErrEventNotFound
		}
		return nil, err
	}

	ev := &model.Event{}
	if err := tx.Read(keys.Event(string(ref.Maintainer), ref.EventID, ref.Name), ev); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, model.ErrEventNotFound
		}
		return nil, err
	}
	if ev.EventID != eventID {
		return nil, model.ErrInvalidEventID
	}
	return ev, nil
}

func saveEvent(tx repository.Tx, ev *model.Event) error {
	return tx.Write(keys.Event(string(ev.Maintainer), ev.EventID, ev.Name), ev)
}

func requireMaintainer(ev *model.Event, caller model.Identity) error {
	if caller == "" || caller != ev.Maintainer {
		return model.ErrUnauthorizedMaintainer
	}
	return nil
}
