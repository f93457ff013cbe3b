package replay

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/strrl/style-dna/internal/db"
	"github.com/strrl/style-dna/internal/style"
)

// LoadScript reads a gesture script, a JSON array or NDJSON file of
// {"dx": ..., "dy": ...} objects, in file order. Missing offsets read as 0.
func LoadScript(ctx context.Context, database *sql.DB, path string) ([]style.Gesture, error) {
	if err := db.EnsureJSON(database); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT COALESCE(dx, 0), COALESCE(dy, 0)
		FROM read_json(%s,
			format = 'auto',
			columns = {dx: 'DOUBLE', dy: 'DOUBLE'}
		)
	`, db.QuotePath(path))

	rows, err := database.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to read gesture script %s: %w", path, err)
	}
	defer rows.Close()

	var gestures []style.Gesture
	for rows.Next() {
		var g style.Gesture
		if err := rows.Scan(&g.DX, &g.DY); err != nil {
			return nil, fmt.Errorf("failed to scan gesture: %w", err)
		}
		gestures = append(gestures, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return gestures, nil
}
