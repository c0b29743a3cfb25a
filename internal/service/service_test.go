package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"

	"pickchess/internal/core"
	"pickchess/internal/game"
	"pickchess/internal/notify"
	"pickchess/internal/storage"
)

// memArchive records calls in memory
type memArchive struct {
	mu      sync.Mutex
	starts  []storage.GameRecord
	results []storage.ResultRecord
	closed  bool
}

func (a *memArchive) RecordGameStart(r storage.GameRecord) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.starts = append(a.starts, r)
	return nil
}

func (a *memArchive) RecordResult(r storage.ResultRecord) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.results = append(a.results, r)
	return nil
}

func (a *memArchive) IsHealthy() bool { return true }

// waitFor blocks until the archive has seen at least starts and results
// records
func (a *memArchive) waitFor(t *testing.T, starts, results int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for {
		a.mu.Lock()
		ok := len(a.starts) >= starts && len(a.results) >= results
		a.mu.Unlock()
		if ok {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("archive did not reach %d starts and %d results", starts, results)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func (a *memArchive) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
	return nil
}

// slowArchive stalls every start write
type slowArchive struct {
	memArchive
	delay time.Duration
}

func (a *slowArchive) RecordGameStart(r storage.GameRecord) error {
	time.Sleep(a.delay)
	return a.memArchive.RecordGameStart(r)
}

func sq(row, col int) core.Square { return core.Square{Row: row, Col: col} }

func pick(t *testing.T, s *Service, id string, squares ...core.Square) game.PickResult {
	t.Helper()
	var res game.PickResult
	for _, q := range squares {
		var err error
		res, _, err = s.Pick(id, q)
		if err != nil {
			t.Fatalf("Pick(%s): %v", q, err)
		}
	}
	return res
}

func TestCreateAndPick(t *testing.T) {
	s := New()
	id, snap := s.CreateGame(true)
	if snap.Phase != core.PhaseActive {
		t.Fatalf("phase = %s", snap.Phase)
	}

	res := pick(t, s, id, sq(1, 4), sq(3, 4))
	if res.Outcome != game.PickMoved {
		t.Fatalf("outcome = %s", res.Outcome)
	}
	got, err := s.Snapshot(id)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if got.Turn != core.ColorBlack || got.Moves != 1 {
		t.Errorf("turn = %q moves = %d", got.Turn, got.Moves)
	}

	placement, ascii, err := s.Board(id)
	if err != nil {
		t.Fatalf("Board: %v", err)
	}
	if placement != "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR" {
		t.Errorf("placement = %q", placement)
	}
	if ascii == "" {
		t.Error("empty ascii board")
	}
}

func TestUnknownGame(t *testing.T) {
	s := New()
	if _, err := s.Snapshot("missing"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Snapshot err = %v", err)
	}
	if _, _, err := s.Pick("missing", sq(0, 0)); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Pick err = %v", err)
	}
	if _, err := s.StartGame("missing"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("StartGame err = %v", err)
	}
	if err := s.DeleteGame("missing"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("DeleteGame err = %v", err)
	}
}

func TestPickInvalidSquare(t *testing.T) {
	s := New()
	id, _ := s.CreateGame(true)
	if _, _, err := s.Pick(id, sq(-1, 3)); !errors.Is(err, core.ErrInvalidSquare) {
		t.Errorf("err = %v, want ErrInvalidSquare", err)
	}
}

// foolsMateKing plays a line that ends with Black's queen taking the white king
var foolsMateKing = []core.Square{
	sq(1, 5), sq(2, 5), // f2-f3
	sq(6, 4), sq(4, 4), // e7-e5
	sq(1, 6), sq(3, 6), // g2-g4
	sq(7, 3), sq(3, 7), // Qd8-h4
	sq(0, 1), sq(2, 0), // Nb1-a3
	sq(3, 7), sq(0, 4), // Qh4xe1
}

func TestKingCaptureArchivesResult(t *testing.T) {
	a := &memArchive{}
	s := New(WithArchive(a))
	id, _ := s.CreateGame(true)

	res := pick(t, s, id, foolsMateKing...)
	if !res.GameOver || res.Winner != core.ColorBlack {
		t.Fatalf("GameOver=%v winner=%q", res.GameOver, res.Winner)
	}

	snap, _ := s.Snapshot(id)
	if snap.Phase != core.PhaseEnded || snap.Winner != core.ColorBlack {
		t.Errorf("phase = %s winner = %q", snap.Phase, snap.Winner)
	}

	a.waitFor(t, 1, 1)
	if len(a.starts) != 1 || a.starts[0].GameID != id || a.starts[0].Round != 1 {
		t.Fatalf("starts = %+v", a.starts)
	}
	if len(a.results) != 1 {
		t.Fatalf("results = %+v", a.results)
	}
	r := a.results[0]
	if r.Winner != "b" || r.Termination != storage.TerminationKingCaptured || r.Moves != 6 || r.BlackCaptured != "king" {
		t.Errorf("result = %+v", r)
	}

	// restart opens round 2
	if _, err := s.StartGame(id); err != nil {
		t.Fatalf("StartGame: %v", err)
	}
	a.waitFor(t, 2, 1)
	if len(a.starts) != 2 || a.starts[1].Round != 2 {
		t.Errorf("starts = %+v", a.starts)
	}
}

func TestEndActiveGameArchivesAbandon(t *testing.T) {
	a := &memArchive{}
	s := New(WithArchive(a))
	id, _ := s.CreateGame(true)
	pick(t, s, id, sq(1, 0), sq(2, 0))

	snap, err := s.EndGame(id)
	if err != nil {
		t.Fatalf("EndGame: %v", err)
	}
	if snap.Phase != core.PhaseNotStarted || len(snap.Pieces) != 0 || snap.Turn != core.ColorWhite {
		t.Errorf("after end: %+v", snap)
	}
	a.waitFor(t, 1, 1)
	if len(a.results) != 1 || a.results[0].Termination != storage.TerminationEnded || a.results[0].Winner != "" {
		t.Errorf("results = %+v", a.results)
	}

	// ending an idle game records nothing more
	if _, err := s.EndGame(id); err != nil {
		t.Fatalf("EndGame: %v", err)
	}
	if err := s.Shutdown(time.Second); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if len(a.results) != 1 {
		t.Errorf("results = %+v", a.results)
	}
}

func TestSlowArchiveDoesNotBlockGames(t *testing.T) {
	a := &slowArchive{delay: 300 * time.Millisecond}
	s := New(WithArchive(a))
	other, _ := s.CreateGame(true) // occupies the writer
	id, _ := s.CreateGame(false)

	begin := time.Now()
	if _, err := s.StartGame(id); err != nil {
		t.Fatalf("StartGame: %v", err)
	}
	if _, err := s.Snapshot(other); err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	pick(t, s, other, sq(1, 4), sq(3, 4))
	if elapsed := time.Since(begin); elapsed > 100*time.Millisecond {
		t.Errorf("game calls took %v behind a slow archive", elapsed)
	}

	// queued writes land in order on shutdown
	if err := s.Shutdown(2 * time.Second); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if len(a.starts) != 2 || a.starts[0].GameID != other || a.starts[1].GameID != id {
		t.Errorf("starts = %+v", a.starts)
	}
	if !a.closed {
		t.Error("archive not closed")
	}
}

func TestWaitWakesOnPick(t *testing.T) {
	s := New()
	defer s.Shutdown(time.Second)
	id, snap := s.CreateGame(true)

	ch := s.RegisterWait(context.Background(), id, snap.Version)
	select {
	case <-ch:
		t.Fatal("woke before any change")
	case <-time.After(20 * time.Millisecond):
	}

	pick(t, s, id, sq(1, 4))
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("waiter not woken by selection")
	}
}

func TestWaitIgnoresIgnoredPick(t *testing.T) {
	s := New()
	defer s.Shutdown(time.Second)
	id, snap := s.CreateGame(true)

	ch := s.RegisterWait(context.Background(), id, snap.Version)
	pick(t, s, id, sq(4, 4)) // empty square
	select {
	case <-ch:
		t.Fatal("ignored pick woke the waiter")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestWaitWakesOnDelete(t *testing.T) {
	s := New()
	defer s.Shutdown(time.Second)
	id, snap := s.CreateGame(false)

	ch := s.RegisterWait(context.Background(), id, snap.Version)
	if err := s.DeleteGame(id); err != nil {
		t.Fatalf("DeleteGame: %v", err)
	}
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("waiter not woken by delete")
	}
	if s.GameCount() != 0 {
		t.Errorf("GameCount = %d", s.GameCount())
	}
}

func TestWaitTimeoutAndCancel(t *testing.T) {
	w := NewWaitRegistry()
	w.timeout = 30 * time.Millisecond
	defer w.Shutdown(time.Second)

	ch := w.RegisterWait(context.Background(), "g", 1)
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("waiter did not time out")
	}
	if n := w.pending("g"); n != 0 {
		t.Errorf("pending after timeout = %d", n)
	}

	w.timeout = time.Minute
	ctx, cancel := context.WithCancel(context.Background())
	w.RegisterWait(ctx, "g", 1)
	cancel()
	deadline := time.Now().Add(time.Second)
	for w.pending("g") != 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if n := w.pending("g"); n != 0 {
		t.Errorf("pending after cancel = %d", n)
	}
}

func TestShutdownReleasesWaiters(t *testing.T) {
	a := &memArchive{}
	s := New(WithArchive(a))
	id, snap := s.CreateGame(false)
	ch := s.RegisterWait(context.Background(), id, snap.Version)

	if err := s.Shutdown(time.Second); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("waiter survived shutdown")
	}
	if !a.closed {
		t.Error("archive not closed")
	}
	// registering after shutdown returns immediately
	select {
	case <-s.RegisterWait(context.Background(), id, 0):
	case <-time.After(time.Second):
		t.Fatal("wait after shutdown blocked")
	}
}

func TestPublishesToRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(func() { mr.Close() })
	pub, err := notify.NewRedisPublisher(fmt.Sprintf("redis://%s/0", mr.Addr()))
	if err != nil {
		t.Fatalf("NewRedisPublisher: %v", err)
	}

	s := New(WithPublisher(pub))
	defer s.Shutdown(time.Second)
	id, _ := s.CreateGame(true)
	pick(t, s, id, sq(1, 4), sq(3, 4))

	ev, err := pub.Latest(context.Background(), id)
	if err != nil || ev == nil {
		t.Fatalf("Latest = %v, %v", ev, err)
	}
	if ev.Kind != notify.KindMoved || ev.Turn != "b" || ev.Phase != "active" {
		t.Errorf("event = %+v", ev)
	}
}
