package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/strrl/style-dna/internal/db"
	"github.com/strrl/style-dna/internal/style"
)

// FileLoader reads candidates from a JSON array or newline-delimited JSON
// file through DuckDB's read_json. Records use the backend's outfit shape.
type FileLoader struct {
	db   *sql.DB
	path string
}

func NewFileLoader(database *sql.DB, path string) (*FileLoader, error) {
	if err := db.EnsureJSON(database); err != nil {
		return nil, err
	}
	return &FileLoader{db: database, path: path}, nil
}

func (l *FileLoader) FetchCandidates(ctx context.Context, filter style.Filter) ([]style.Candidate, error) {
	query := fmt.Sprintf(`
		SELECT
			COALESCE(id, '') AS id,
			COALESCE(name, '') AS name,
			COALESCE(image_url, '') AS image_url,
			COALESCE(CAST(to_json(tags) AS VARCHAR), '[]') AS tags_json,
			COALESCE(gender, '') AS gender,
			COALESCE(style_category, '') AS style_category,
			COALESCE(CAST(items AS VARCHAR), '[]') AS items_json
		FROM read_json(%s,
			format = 'auto',
			columns = {
				id: 'VARCHAR',
				name: 'VARCHAR',
				image_url: 'VARCHAR',
				tags: 'VARCHAR[]',
				gender: 'VARCHAR',
				style_category: 'VARCHAR',
				items: 'JSON'
			}
		)
		WHERE id IS NOT NULL
		  AND ($1 = '' OR gender = $1)
		  AND ($2 = '' OR style_category = $2)
	`, db.QuotePath(l.path))

	rows, err := l.db.QueryContext(ctx, query,
		string(normalizeGender(filter.Gender)),
		string(filter.StyleCategory))
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", l.path, err)
	}
	defer rows.Close()

	var candidates []style.Candidate
	for rows.Next() {
		var (
			cand      style.Candidate
			gender    string
			category  string
			tagsJSON  string
			itemsJSON string
		)

		if err := rows.Scan(&cand.ID, &cand.Name, &cand.ImageURL, &tagsJSON, &gender, &category, &itemsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan catalog row: %w", err)
		}

		if err := json.Unmarshal([]byte(tagsJSON), &cand.Tags); err != nil {
			return nil, fmt.Errorf("failed to parse tags of %s: %w", cand.ID, err)
		}
		if err := json.Unmarshal([]byte(itemsJSON), &cand.Items); err != nil {
			return nil, fmt.Errorf("failed to parse items of %s: %w", cand.ID, err)
		}
		cand.Gender = style.Gender(gender)
		cand.StyleCategory = style.Category(category)

		candidates = append(candidates, cand)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return page(candidates, filter.Skip, filter.Limit), nil
}
