// Package history archives finished matches in libSQL.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/playperu/sequence/internal/game"
	"github.com/playperu/sequence/internal/sequence"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Archive stores timestamps as unix nanoseconds.
type Archive struct {
	db *sql.DB
}

func NewArchive(db *sql.DB) *Archive {
	return &Archive{db: db}
}

// Record stores r. Recording the same match twice keeps the latest result.
func (a *Archive) Record(ctx context.Context, r game.Result) error {
	players, err := json.Marshal(r.Players)
	if err != nil {
		return fmt.Errorf("encoding players: %w", err)
	}
	counts, err := json.Marshal(r.TeamSequenceCount)
	if err != nil {
		return fmt.Errorf("encoding sequence counts: %w", err)
	}

	var winner sql.NullInt64
	if r.Winner != nil {
		winner = sql.NullInt64{Int64: int64(*r.Winner), Valid: true}
	}
	_, err = a.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO match_results
			(code, party_code, winner, reason, players, team_sequence_count, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, r.Code, nullString(r.PartyCode), winner, string(r.Reason), string(players), string(counts),
		nullTime(r.StartedAt), r.FinishedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("inserting result %s: %w", r.Code, err)
	}
	return nil
}

// Recent returns the latest results, newest first.
func (a *Archive) Recent(ctx context.Context, limit int) ([]game.Result, error) {
	return a.query(ctx, `
		SELECT code, party_code, winner, reason, players, team_sequence_count, started_at, finished_at
		FROM match_results
		ORDER BY finished_at DESC
		LIMIT ?
	`, clampLimit(limit))
}

// ByParty returns every archived match of a party, oldest first.
func (a *Archive) ByParty(ctx context.Context, partyCode string) ([]game.Result, error) {
	return a.query(ctx, `
		SELECT code, party_code, winner, reason, players, team_sequence_count, started_at, finished_at
		FROM match_results
		WHERE party_code = ?
		ORDER BY finished_at
	`, partyCode)
}

func (a *Archive) Ping(ctx context.Context) error {
	return a.db.PingContext(ctx)
}

func (a *Archive) query(ctx context.Context, q string, args ...any) ([]game.Result, error) {
	rows, err := a.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying results: %w", err)
	}
	defer rows.Close()

	results := []game.Result{}
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating results: %w", err)
	}
	return results, nil
}

func scanResult(rows *sql.Rows) (game.Result, error) {
	var r game.Result
	var partyCode sql.NullString
	var winner, startedAt sql.NullInt64
	var reason, players, counts string
	var finishedAt int64
	if err := rows.Scan(&r.Code, &partyCode, &winner, &reason, &players, &counts, &startedAt, &finishedAt); err != nil {
		return r, fmt.Errorf("scanning result: %w", err)
	}

	r.PartyCode = partyCode.String
	r.Reason = game.FinishReason(reason)
	if winner.Valid {
		team := sequence.Team(winner.Int64)
		r.Winner = &team
	}
	if err := json.Unmarshal([]byte(players), &r.Players); err != nil {
		return r, fmt.Errorf("decoding players of %s: %w", r.Code, err)
	}
	if err := json.Unmarshal([]byte(counts), &r.TeamSequenceCount); err != nil {
		return r, fmt.Errorf("decoding sequence counts of %s: %w", r.Code, err)
	}
	if startedAt.Valid {
		r.StartedAt = time.Unix(0, startedAt.Int64).UTC()
	}
	r.FinishedAt = time.Unix(0, finishedAt).UTC()
	return r, nil
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	}
	return limit
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t time.Time) sql.NullInt64 {
	if t.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixNano(), Valid: true}
}
