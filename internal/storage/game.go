package storage

import (
	"database/sql"
	"fmt"
)

// RecordGameStart asynchronously records a started round
func (s *Store) RecordGameStart(record GameRecord) error {
	return s.enqueue("game start", func(tx *sql.Tx) error {
		_, err := tx.Exec(
			`INSERT OR REPLACE INTO games (game_id, round, start_time_utc) VALUES (?, ?, ?)`,
			record.GameID, record.Round, record.StartTimeUTC,
		)
		return err
	})
}

// RecordResult asynchronously records how a round finished
func (s *Store) RecordResult(record ResultRecord) error {
	return s.enqueue("result", func(tx *sql.Tx) error {
		query := `INSERT INTO results (
			game_id, round, winner, termination, moves,
			white_captured, black_captured, end_time_utc
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (game_id, round) DO UPDATE SET
			winner = excluded.winner,
			termination = excluded.termination,
			moves = excluded.moves,
			white_captured = excluded.white_captured,
			black_captured = excluded.black_captured,
			end_time_utc = excluded.end_time_utc`

		_, err := tx.Exec(query,
			record.GameID, record.Round, record.Winner, record.Termination, record.Moves,
			record.WhiteCaptured, record.BlackCaptured, record.EndTimeUTC,
		)
		return err
	})
}

// QueryResults retrieves finished rounds. Empty or "*" filters match all.
func (s *Store) QueryResults(gameID, winner string) ([]ResultRecord, error) {
	query := `SELECT
		r.game_id, r.round, r.winner, r.termination, r.moves,
		r.white_captured, r.black_captured, r.end_time_utc, g.start_time_utc
	FROM results r JOIN games g ON g.game_id = r.game_id AND g.round = r.round
	WHERE 1=1`

	var args []any

	if gameID != "" && gameID != "*" {
		query += " AND r.game_id = ?"
		args = append(args, gameID)
	}

	if winner != "" && winner != "*" {
		query += " AND r.winner = ?"
		args = append(args, winner)
	}

	query += " ORDER BY r.end_time_utc DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var results []ResultRecord
	for rows.Next() {
		var r ResultRecord
		err := rows.Scan(
			&r.GameID, &r.Round, &r.Winner, &r.Termination, &r.Moves,
			&r.WhiteCaptured, &r.BlackCaptured, &r.EndTimeUTC, &r.StartTimeUTC,
		)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return results, nil
}
