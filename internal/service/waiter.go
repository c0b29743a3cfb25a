package service

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// WaitTimeout is the maximum time a client can wait for notifications
const WaitTimeout = 25 * time.Second

// WaitRegistry manages long-polling clients waiting for game state changes
type WaitRegistry struct {
	mu       sync.Mutex
	waiters  map[string][]*WaitRequest // gameID → waiting clients
	shutdown chan struct{}
	closed   bool
	wg       sync.WaitGroup
	timeout  time.Duration
}

// WaitRequest represents a single client waiting for game updates
type WaitRequest struct {
	Version uint64        // Last version the client has seen
	Notify  chan struct{} // Closed when the client should re-read the game
	GameID  string
	timer   *time.Timer
	once    sync.Once
}

func (r *WaitRequest) fire() {
	r.once.Do(func() { close(r.Notify) })
}

// NewWaitRegistry creates a new wait registry
func NewWaitRegistry() *WaitRegistry {
	return &WaitRegistry{
		waiters:  make(map[string][]*WaitRequest),
		shutdown: make(chan struct{}),
		timeout:  WaitTimeout,
	}
}

// RegisterWait registers a client to wait for the game to move past version.
// The returned channel is closed on change, deletion, timeout or shutdown.
func (w *WaitRegistry) RegisterWait(ctx context.Context, gameID string, version uint64) <-chan struct{} {
	w.mu.Lock()
	defer w.mu.Unlock()

	req := &WaitRequest{
		Version: version,
		Notify:  make(chan struct{}),
		GameID:  gameID,
	}

	if w.closed {
		req.fire()
		return req.Notify
	}

	req.timer = time.AfterFunc(w.timeout, func() {
		w.removeWaiter(gameID, req)
		req.fire()
	})

	w.waiters[gameID] = append(w.waiters[gameID], req)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		select {
		case <-ctx.Done():
			// Client disconnected
			w.removeWaiter(gameID, req)
		case <-req.Notify:
		case <-w.shutdown:
			req.fire()
		}
		req.timer.Stop()
	}()

	return req.Notify
}

// NotifyGame wakes every waiter on gameID whose version differs
func (w *WaitRegistry) NotifyGame(gameID string, version uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var keep []*WaitRequest
	for _, req := range w.waiters[gameID] {
		if req.Version != version {
			req.fire()
		} else {
			keep = append(keep, req)
		}
	}
	if len(keep) == 0 {
		delete(w.waiters, gameID)
	} else {
		w.waiters[gameID] = keep
	}
}

// RemoveGame wakes and drops all waiters for a game (called before deletion)
func (w *WaitRegistry) RemoveGame(gameID string) {
	w.mu.Lock()
	waitList := w.waiters[gameID]
	delete(w.waiters, gameID)
	w.mu.Unlock()

	for _, req := range waitList {
		req.fire()
	}
}

// Shutdown releases all waiters and waits for their goroutines
func (w *WaitRegistry) Shutdown(timeout time.Duration) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.shutdown)
	w.mu.Unlock()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("wait registry shutdown timed out after %s", timeout)
	}
}

// pending returns the number of registered waiters for gameID
func (w *WaitRegistry) pending(gameID string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.waiters[gameID])
}

// removeWaiter removes a specific waiter from the registry
func (w *WaitRegistry) removeWaiter(gameID string, req *WaitRequest) {
	w.mu.Lock()
	defer w.mu.Unlock()

	waitList := w.waiters[gameID]
	for i, waiter := range waitList {
		if waiter == req {
			w.waiters[gameID] = append(waitList[:i], waitList[i+1:]...)
			break
		}
	}

	if len(w.waiters[gameID]) == 0 {
		delete(w.waiters, gameID)
	}
}
