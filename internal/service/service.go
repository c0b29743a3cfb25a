package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pickchess/internal/core"
	"pickchess/internal/game"
	"pickchess/internal/notify"
	"pickchess/internal/storage"
)

const publishTimeout = 2 * time.Second

// Publisher receives an event after every state change
type Publisher interface {
	Publish(ctx context.Context, ev notify.Event) error
	Close() error
}

// session is one hosted game plus its archive round counter
type session struct {
	game  *game.Game
	round int
}

// Service hosts independent games keyed by id. All access to a game goes
// through the service lock; the game itself is single-threaded.
type Service struct {
	games  map[string]*session
	mu     sync.RWMutex
	store   storage.Archive // nil if persistence disabled
	archive *archiveQueue   // feeds store; nil once shut down
	pub     Publisher       // nil if publishing disabled
	waiter  *WaitRegistry
	log     *zap.Logger
}

type Option func(*Service)

// WithArchive records starts and results to a
func WithArchive(a storage.Archive) Option {
	return func(s *Service) { s.store = a }
}

// WithPublisher pushes state-change events to p
func WithPublisher(p Publisher) Option {
	return func(s *Service) { s.pub = p }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.log = l }
}

// New creates a new service instance
func New(opts ...Option) *Service {
	s := &Service{
		games:  make(map[string]*session),
		waiter: NewWaitRegistry(),
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store != nil {
		s.archive = newArchiveQueue(s.store, s.log)
	}
	return s
}

// generateGameID creates a new unique game ID. Caller holds s.mu.
func (s *Service) generateGameID() string {
	for {
		id := uuid.New().String()
		if _, exists := s.games[id]; !exists {
			return id
		}
	}
}

// CreateGame registers a new game, optionally starting it right away
func (s *Service) CreateGame(start bool) (string, game.Snapshot) {
	s.mu.Lock()
	id := s.generateGameID()
	sess := &session{game: game.New()}
	s.games[id] = sess
	if start {
		s.startLocked(id, sess)
	}
	snap := sess.game.Snapshot()
	s.mu.Unlock()

	s.log.Info("game_create", zap.String("game_id", id), zap.Bool("started", start))
	s.publish(id, notify.KindCreated, snap)
	return id, snap
}

// DeleteGame removes a game from memory, abandoning it if active
func (s *Service) DeleteGame(gameID string) error {
	s.mu.Lock()
	sess, ok := s.games[gameID]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("delete %s: %w", gameID, core.ErrNotFound)
	}
	if sess.game.Phase() == core.PhaseActive {
		s.recordResult(gameID, sess.round, sess.game.Snapshot(), core.ColorNone, storage.TerminationEnded)
	}
	// Wake pollers before the game disappears
	s.waiter.RemoveGame(gameID)
	delete(s.games, gameID)
	s.mu.Unlock()

	s.log.Info("game_delete", zap.String("game_id", gameID))
	s.publish(gameID, notify.KindDeleted, game.Snapshot{})
	return nil
}

// GameCount returns the number of hosted games
func (s *Service) GameCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}

// RegisterWait blocks-by-channel until gameID moves past version
func (s *Service) RegisterWait(ctx context.Context, gameID string, version uint64) <-chan struct{} {
	return s.waiter.RegisterWait(ctx, gameID, version)
}

// GetStorageHealth returns the storage component status
func (s *Service) GetStorageHealth() string {
	if s.store == nil {
		return "disabled"
	}
	if s.store.IsHealthy() {
		return "ok"
	}
	return "degraded"
}

// Shutdown releases pollers, flushes queued archive writes and closes the
// archive and publisher
func (s *Service) Shutdown(timeout time.Duration) error {
	var errs []error
	if err := s.waiter.Shutdown(timeout); err != nil {
		errs = append(errs, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.games = make(map[string]*session)

	if s.archive != nil {
		if err := s.archive.drain(timeout); err != nil {
			errs = append(errs, err)
		}
		s.archive = nil
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close storage: %w", err))
		}
	}
	if s.pub != nil {
		if err := s.pub.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close publisher: %w", err))
		}
	}
	return errors.Join(errs...)
}
