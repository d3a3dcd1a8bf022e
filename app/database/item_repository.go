package database

import (
	"fmt"
)

type itemRepository struct {
	db *DB
}

// NewItemRepository creates a new item repository
func NewItemRepository(db *DB) ItemRepository {
	return &itemRepository{db: db}
}

// InsertItem stores a feed item using insert-if-absent semantics against the
// compound key (guid, link). It reports whether a new row was created;
// re-inserting a known item is a no-op, never an error.
func (r *itemRepository) InsertItem(item Item) (bool, error) {
	result, err := r.db.Exec(`
		INSERT OR IGNORE INTO items (guid, link, pubdate, title, description)
		VALUES (?, ?, ?, ?, ?)
	`, item.GUID, item.Link, item.PubDate, item.Title, item.Description)
	if err != nil {
		return false, fmt.Errorf("failed to insert item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// GetItemsWithoutPage returns items whose destination page has not been
// downloaded yet, oldest first, bounded by limit.
func (r *itemRepository) GetItemsWithoutPage(limit int) ([]Item, error) {
	rows, err := r.db.Query(`
		SELECT i.guid, i.link, i.pubdate, i.title, i.description, i.created_at
		FROM items i
		LEFT JOIN pages p ON p.guid = i.guid AND p.link = i.link
		WHERE p.guid IS NULL
		ORDER BY i.created_at, i.guid, i.link
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get items without page: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var item Item
		err := rows.Scan(&item.GUID, &item.Link, &item.PubDate, &item.Title,
			&item.Description, &item.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item row: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating item rows: %w", err)
	}

	return items, nil
}

// CountItems returns the total number of stored items
func (r *itemRepository) CountItems() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM items").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	return count, nil
}
