package storage

import "time"

// Termination values stored in results.termination
const (
	TerminationKingCaptured = "king_captured"
	TerminationEnded        = "ended"
)

// GameRecord represents a row in the games table. A game id is reused
// across restarts; Round tells them apart.
type GameRecord struct {
	GameID       string    `db:"game_id"`
	Round        int       `db:"round"`
	StartTimeUTC time.Time `db:"start_time_utc"`
}

// ResultRecord represents a row in the results table
type ResultRecord struct {
	GameID        string    `db:"game_id"`
	Round         int       `db:"round"`
	Winner        string    `db:"winner"` // "w", "b" or ""
	Termination   string    `db:"termination"`
	Moves         int       `db:"moves"`
	WhiteCaptured string    `db:"white_captured"` // comma separated piece types
	BlackCaptured string    `db:"black_captured"`
	EndTimeUTC    time.Time `db:"end_time_utc"`
	StartTimeUTC  time.Time `db:"-"` // joined from games on query
}

// Schema defines the SQLite database structure
const Schema = `
CREATE TABLE IF NOT EXISTS games (
	game_id TEXT NOT NULL,
	round INTEGER NOT NULL,
	start_time_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (game_id, round)
);

CREATE TABLE IF NOT EXISTS results (
	game_id TEXT NOT NULL,
	round INTEGER NOT NULL,
	winner TEXT NOT NULL CHECK(winner IN ('w', 'b', '')),
	termination TEXT NOT NULL CHECK(termination IN ('king_captured', 'ended')),
	moves INTEGER NOT NULL DEFAULT 0,
	white_captured TEXT NOT NULL DEFAULT '',
	black_captured TEXT NOT NULL DEFAULT '',
	end_time_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (game_id, round),
	FOREIGN KEY (game_id, round) REFERENCES games(game_id, round) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_results_winner ON results(winner);
`

// PGSchema defines the PostgreSQL database structure
const PGSchema = `
CREATE TABLE IF NOT EXISTS pickchess_games (
	game_id TEXT NOT NULL,
	round INTEGER NOT NULL,
	start_time_utc TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (game_id, round)
);

CREATE TABLE IF NOT EXISTS pickchess_results (
	game_id TEXT NOT NULL,
	round INTEGER NOT NULL,
	winner TEXT NOT NULL,
	termination TEXT NOT NULL,
	moves INTEGER NOT NULL DEFAULT 0,
	white_captured TEXT NOT NULL DEFAULT '',
	black_captured TEXT NOT NULL DEFAULT '',
	end_time_utc TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (game_id, round)
);
`
