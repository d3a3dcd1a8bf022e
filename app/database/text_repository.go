package database

import (
	"fmt"
)

type textRepository struct {
	db *DB
}

// NewTextRepository creates a new text repository
func NewTextRepository(db *DB) TextRepository {
	return &textRepository{db: db}
}

// InsertTextWithProgress stores the extracted text and the item's progress
// marker in a single transaction, so an interrupted extraction never leaves a
// text without its marker or vice versa.
func (r *textRepository) InsertTextWithProgress(text Text, guid, link string, canDelete bool) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT OR REPLACE INTO texts (url, date, title, description, fulltext)
		VALUES (?, ?, ?, ?, ?)
	`, text.URL, text.Date, text.Title, text.Description, text.Fulltext)
	if err != nil {
		return fmt.Errorf("failed to insert text: %w", err)
	}

	_, err = tx.Exec(`
		INSERT OR IGNORE INTO progress (guid, link, can_delete)
		VALUES (?, ?, ?)
	`, guid, link, boolToInt(canDelete))
	if err != nil {
		return fmt.Errorf("failed to insert progress marker: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetRecentTexts returns the most recently extracted texts, newest first
func (r *textRepository) GetRecentTexts(limit int) ([]Text, error) {
	rows, err := r.db.Query(`
		SELECT url, date, title, description, fulltext, created_at
		FROM texts
		ORDER BY created_at DESC, url
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent texts: %w", err)
	}
	defer rows.Close()

	var texts []Text
	for rows.Next() {
		var text Text
		err := rows.Scan(&text.URL, &text.Date, &text.Title, &text.Description,
			&text.Fulltext, &text.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan text row: %w", err)
		}
		texts = append(texts, text)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating text rows: %w", err)
	}

	return texts, nil
}

// CountTexts returns the total number of extracted texts
func (r *textRepository) CountTexts() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM texts").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count texts: %w", err)
	}
	return count, nil
}

// CountProgress returns the number of items marked done for extraction
func (r *textRepository) CountProgress() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM progress").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count progress markers: %w", err)
	}
	return count, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
