package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/strrl/style-dna/internal/style"
)

const swipesSchema = `
	CREATE TABLE IF NOT EXISTS swipes (
		id             VARCHAR PRIMARY KEY,
		user_id        VARCHAR NOT NULL,
		outfit_id      VARCHAR NOT NULL,
		action         VARCHAR NOT NULL,
		style_category VARCHAR NOT NULL,
		created_at     TIMESTAMP NOT NULL
	)
`

// SwipeStore keeps swipe records in DuckDB. It is a session sink and the
// source for history and reports.
type SwipeStore struct {
	db *sql.DB
}

func NewSwipeStore(ctx context.Context, db *sql.DB) (*SwipeStore, error) {
	if _, err := db.ExecContext(ctx, swipesSchema); err != nil {
		return nil, fmt.Errorf("failed to create swipes table: %w", err)
	}
	return &SwipeStore{db: db}, nil
}

func (s *SwipeStore) RecordSwipe(ctx context.Context, rec style.Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO swipes (id, user_id, outfit_id, action, style_category, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, rec.ID, rec.UserID, rec.CandidateID, string(rec.Action), string(rec.StyleCategory), rec.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert swipe: %w", err)
	}
	return nil
}

// ListSwipes returns a user's swipes in the order they were recorded.
func (s *SwipeStore) ListSwipes(ctx context.Context, userID string) ([]style.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, outfit_id, action, style_category, created_at
		FROM swipes
		WHERE user_id = $1
		ORDER BY created_at ASC, rowid ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query swipes: %w", err)
	}
	defer rows.Close()

	var records []style.Record
	for rows.Next() {
		var (
			rec      style.Record
			action   string
			category string
		)
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.CandidateID, &action, &category, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan swipe: %w", err)
		}
		rec.Action = style.Action(action)
		rec.StyleCategory = style.Category(category)
		rec.CreatedAt = rec.CreatedAt.UTC()
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return records, nil
}

func (s *SwipeStore) CountSwipes(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM swipes WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count swipes: %w", err)
	}
	return count, nil
}

// Tally counts a user's actions per style category.
func (s *SwipeStore) Tally(ctx context.Context, userID string) (map[style.Category]style.Tally, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			style_category,
			COUNT(*) FILTER (WHERE action = 'like') AS likes,
			COUNT(*) FILTER (WHERE action = 'dislike') AS dislikes,
			COUNT(*) FILTER (WHERE action = 'superlike') AS superlikes
		FROM swipes
		WHERE user_id = $1
		GROUP BY style_category
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to tally swipes: %w", err)
	}
	defer rows.Close()

	tallies := make(map[style.Category]style.Tally)
	for rows.Next() {
		var (
			category string
			tally    style.Tally
		)
		if err := rows.Scan(&category, &tally.Likes, &tally.Dislikes, &tally.Superlikes); err != nil {
			return nil, fmt.Errorf("failed to scan tally: %w", err)
		}
		tallies[style.Category(category)] = tally
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return tallies, nil
}

// DeleteSwipes removes a user's history, used on sign-out.
func (s *SwipeStore) DeleteSwipes(ctx context.Context, userID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM swipes WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete swipes: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n, nil
}
