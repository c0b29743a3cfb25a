package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"pickchess/internal/core"
	"pickchess/internal/engine"
	"pickchess/internal/game"
	"pickchess/internal/notify"
	"pickchess/internal/storage"
)

// lookup returns the session for gameID. Caller holds s.mu.
func (s *Service) lookup(gameID string) (*session, error) {
	sess, ok := s.games[gameID]
	if !ok {
		return nil, fmt.Errorf("game %s: %w", gameID, core.ErrNotFound)
	}
	return sess, nil
}

// Snapshot returns the render state of a game
func (s *Service) Snapshot(gameID string) (game.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.lookup(gameID)
	if err != nil {
		return game.Snapshot{}, err
	}
	return sess.game.Snapshot(), nil
}

// Board returns the FEN placement and ASCII drawing of a game's board
func (s *Service) Board(gameID string) (placement, ascii string, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.lookup(gameID)
	if err != nil {
		return "", "", err
	}
	b := sess.game.Board()
	return b.Placement(), b.ToASCII(), nil
}

// Targets lists the squares the piece on from may move to
func (s *Service) Targets(gameID string, from core.Square) ([]core.Square, error) {
	if err := engine.ValidateSquares(from); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.lookup(gameID)
	if err != nil {
		return nil, err
	}
	return engine.LegalTargets(sess.game.Board(), from), nil
}

// StartGame lays out a fresh round for gameID
func (s *Service) StartGame(gameID string) (game.Snapshot, error) {
	s.mu.Lock()
	sess, err := s.lookup(gameID)
	if err != nil {
		s.mu.Unlock()
		return game.Snapshot{}, err
	}
	if sess.game.Phase() == core.PhaseActive {
		s.recordResult(gameID, sess.round, sess.game.Snapshot(), core.ColorNone, storage.TerminationEnded)
	}
	s.startLocked(gameID, sess)
	snap := sess.game.Snapshot()
	s.mu.Unlock()

	s.log.Info("game_start", zap.String("game_id", gameID), zap.Int("round", sess.round))
	s.publish(gameID, notify.KindStarted, snap)
	return snap, nil
}

// startLocked starts a new round. Caller holds s.mu.
func (s *Service) startLocked(gameID string, sess *session) {
	sess.game.Start()
	sess.round++
	if s.archive != nil {
		record := storage.GameRecord{
			GameID:       gameID,
			Round:        sess.round,
			StartTimeUTC: time.Now().UTC(),
		}
		s.archive.push("game start", func(a storage.Archive) error { return a.RecordGameStart(record) })
	}
	s.waiter.NotifyGame(gameID, sess.game.Version())
}

// EndGame abandons the current round and clears the board
func (s *Service) EndGame(gameID string) (game.Snapshot, error) {
	s.mu.Lock()
	sess, err := s.lookup(gameID)
	if err != nil {
		s.mu.Unlock()
		return game.Snapshot{}, err
	}
	if sess.game.Phase() == core.PhaseActive {
		s.recordResult(gameID, sess.round, sess.game.Snapshot(), core.ColorNone, storage.TerminationEnded)
	}
	sess.game.End()
	snap := sess.game.Snapshot()
	s.waiter.NotifyGame(gameID, snap.Version)
	s.mu.Unlock()

	s.log.Info("game_end", zap.String("game_id", gameID))
	s.publish(gameID, notify.KindEnded, snap)
	return snap, nil
}

// Pick forwards a square pick to the game. Illegal moves are not errors;
// they come back as a rejected outcome.
func (s *Service) Pick(gameID string, sq core.Square) (game.PickResult, game.Snapshot, error) {
	s.mu.Lock()
	sess, err := s.lookup(gameID)
	if err != nil {
		s.mu.Unlock()
		return game.PickResult{}, game.Snapshot{}, err
	}
	res, err := sess.game.Pick(sq)
	if err != nil {
		s.mu.Unlock()
		return game.PickResult{}, game.Snapshot{}, fmt.Errorf("pick in %s: %w", gameID, err)
	}
	snap := sess.game.Snapshot()
	if res.GameOver {
		s.recordResult(gameID, sess.round, *res.Final, res.Winner, storage.TerminationKingCaptured)
	}
	if res.Outcome != game.PickIgnored {
		s.waiter.NotifyGame(gameID, snap.Version)
	}
	s.mu.Unlock()

	switch {
	case res.GameOver:
		s.log.Info("game_over",
			zap.String("game_id", gameID),
			zap.String("winner", res.Winner.Name()),
			zap.Int("moves", res.Final.Moves),
		)
		s.publish(gameID, notify.KindGameOver, snap)
	case res.Outcome == game.PickMoved:
		s.log.Debug("game_move",
			zap.String("game_id", gameID),
			zap.String("from", res.From.String()),
			zap.String("to", res.To.String()),
			zap.Bool("capture", res.Captured != nil),
		)
		s.publish(gameID, notify.KindMoved, snap)
	case res.Outcome == game.PickSelected:
		s.publish(gameID, notify.KindSelected, snap)
	case res.Outcome == game.PickRejected:
		s.publish(gameID, notify.KindRejected, snap)
	}
	return res, snap, nil
}

// recordResult queues how a round finished. Caller holds s.mu.
func (s *Service) recordResult(gameID string, round int, snap game.Snapshot, winner core.Color, termination string) {
	if s.archive == nil || round == 0 {
		return
	}
	record := storage.ResultRecord{
		GameID:        gameID,
		Round:         round,
		Winner:        winner.String(),
		Termination:   termination,
		Moves:         snap.Moves,
		WhiteCaptured: strings.Join(core.PieceTypeNames(snap.WhiteCaptured), ","),
		BlackCaptured: strings.Join(core.PieceTypeNames(snap.BlackCaptured), ","),
		EndTimeUTC:    time.Now().UTC(),
	}
	s.archive.push("result", func(a storage.Archive) error { return a.RecordResult(record) })
}

func (s *Service) publish(gameID, kind string, snap game.Snapshot) {
	if s.pub == nil {
		return
	}
	ev := notify.Event{
		GameID:    gameID,
		Kind:      kind,
		Version:   snap.Version,
		Phase:     snap.Phase.String(),
		Turn:      snap.Turn.String(),
		Winner:    snap.Winner.String(),
		Placement: snap.Placement,
		Time:      time.Now().UTC(),
	}
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := s.pub.Publish(ctx, ev); err != nil {
		s.log.Warn("publish_failed", zap.String("game_id", gameID), zap.String("kind", kind), zap.Error(err))
	}
}
