package database

import (
	"fmt"
)

type pageRepository struct {
	db *DB
}

// NewPageRepository creates a new page repository
func NewPageRepository(db *DB) PageRepository {
	return &pageRepository{db: db}
}

// InsertPage stores the downloaded destination page for an item. At most one
// page exists per (guid, link); a page is written once and never updated.
func (r *pageRepository) InsertPage(guid, link, destURL, html string) error {
	_, err := r.db.Exec(`
		INSERT OR IGNORE INTO pages (guid, link, dest_url, html)
		VALUES (?, ?, ?, ?)
	`, guid, link, destURL, html)
	if err != nil {
		return fmt.Errorf("failed to insert page: %w", err)
	}
	return nil
}

// GetPagesForExtraction returns items that have a downloaded page but no
// progress marker, i.e. the extraction stage's pending work, bounded by limit.
func (r *pageRepository) GetPagesForExtraction(limit int) ([]PageForExtraction, error) {
	rows, err := r.db.Query(`
		SELECT i.guid, i.link, i.pubdate, i.title, i.description, p.dest_url, p.html
		FROM items i
		JOIN pages p ON p.guid = i.guid AND p.link = i.link
		LEFT JOIN progress pr ON pr.guid = i.guid AND pr.link = i.link
		WHERE pr.guid IS NULL
		ORDER BY i.created_at, i.guid, i.link
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get pages for extraction: %w", err)
	}
	defer rows.Close()

	var pages []PageForExtraction
	for rows.Next() {
		var page PageForExtraction
		err := rows.Scan(&page.GUID, &page.Link, &page.PubDate, &page.Title,
			&page.Description, &page.DestURL, &page.HTML)
		if err != nil {
			return nil, fmt.Errorf("failed to scan page row: %w", err)
		}
		pages = append(pages, page)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating page rows: %w", err)
	}

	return pages, nil
}

// CountPages returns the total number of stored pages
func (r *pageRepository) CountPages() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM pages").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count pages: %w", err)
	}
	return count, nil
}
