package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"pickchess/internal/obslog"
)

const pgWriteTimeout = 5 * time.Second

// PGArchive writes game starts and results to PostgreSQL synchronously
type PGArchive struct {
	db      *sql.DB
	healthy atomic.Bool
}

// NewPGArchive connects and pings the database at databaseURL
func NewPGArchive(databaseURL string) (*PGArchive, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, errors.New("database url is required")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), pgWriteTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}

	a := &PGArchive{db: db}
	a.healthy.Store(true)
	return a, nil
}

// InitDB creates the tables if missing
func (a *PGArchive) InitDB() error {
	ctx, cancel := context.WithTimeout(context.Background(), pgWriteTimeout)
	defer cancel()
	if _, err := a.db.ExecContext(ctx, PGSchema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func (a *PGArchive) exec(what, query string, args ...any) error {
	ctx, cancel := context.WithTimeout(context.Background(), pgWriteTimeout)
	defer cancel()
	if _, err := a.db.ExecContext(ctx, query, args...); err != nil {
		obslog.L().Error("storage_degraded", zap.String("op", what), zap.Error(err))
		a.healthy.Store(false)
		return err
	}
	a.healthy.Store(true)
	return nil
}

// RecordGameStart upserts a started round
func (a *PGArchive) RecordGameStart(record GameRecord) error {
	return a.exec("game start",
		`INSERT INTO pickchess_games (game_id, round, start_time_utc) VALUES ($1, $2, $3)
		ON CONFLICT (game_id, round) DO UPDATE SET start_time_utc = EXCLUDED.start_time_utc`,
		record.GameID, record.Round, record.StartTimeUTC,
	)
}

// RecordResult upserts a finished round
func (a *PGArchive) RecordResult(record ResultRecord) error {
	return a.exec("result",
		`INSERT INTO pickchess_results (
			game_id, round, winner, termination, moves,
			white_captured, black_captured, end_time_utc
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (game_id, round) DO UPDATE SET
			winner = EXCLUDED.winner,
			termination = EXCLUDED.termination,
			moves = EXCLUDED.moves,
			white_captured = EXCLUDED.white_captured,
			black_captured = EXCLUDED.black_captured,
			end_time_utc = EXCLUDED.end_time_utc`,
		record.GameID, record.Round, record.Winner, record.Termination, record.Moves,
		record.WhiteCaptured, record.BlackCaptured, record.EndTimeUTC,
	)
}

// IsHealthy reports whether the last write succeeded
func (a *PGArchive) IsHealthy() bool {
	return a.healthy.Load()
}

func (a *PGArchive) Close() error {
	if a == nil || a.db == nil {
		return nil
	}
	return a.db.Close()
}
