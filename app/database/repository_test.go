package database

import (
	"path/filepath"
	"testing"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewConnection(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, _, err := RunMigrations(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return db
}

func testItem(guid, link string) Item {
	return Item{
		GUID:        guid,
		Link:        link,
		PubDate:     "Tue, 02 Mar 2021 08:15:00 +0100",
		Title:       "Titel",
		Description: "Beschreibung",
	}
}

func TestInsertItem_Idempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewItemRepository(db)

	inserted, err := repo.InsertItem(testItem("g1", "https://example.de/a"))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !inserted {
		t.Error("Expected first insert to report a new row")
	}

	inserted, err = repo.InsertItem(testItem("g1", "https://example.de/a"))
	if err != nil {
		t.Fatalf("Expected re-insert to be a no-op, got error: %v", err)
	}
	if inserted {
		t.Error("Expected second insert to report no new row")
	}

	count, err := repo.CountItems()
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("Expected 1 item, got %d", count)
	}
}

func TestInsertItem_CompoundKey(t *testing.T) {
	db := newTestDB(t)
	repo := NewItemRepository(db)

	// Same guid with a different link is a different item, and vice versa.
	repo.InsertItem(testItem("g1", "https://example.de/a"))
	repo.InsertItem(testItem("g1", "https://example.de/b"))
	repo.InsertItem(testItem("g2", "https://example.de/a"))
	repo.InsertItem(testItem("", "https://example.de/a"))

	count, err := repo.CountItems()
	if err != nil {
		t.Fatal(err)
	}
	if count != 4 {
		t.Errorf("Expected 4 items, got %d", count)
	}
}

func TestGetItemsWithoutPage(t *testing.T) {
	db := newTestDB(t)
	itemRepo := NewItemRepository(db)
	pageRepo := NewPageRepository(db)

	itemRepo.InsertItem(testItem("g1", "https://example.de/a"))
	itemRepo.InsertItem(testItem("g2", "https://example.de/b"))
	itemRepo.InsertItem(testItem("g3", "https://example.de/c"))

	if err := pageRepo.InsertPage("g2", "https://example.de/b", "https://dest.de/b", "<html></html>"); err != nil {
		t.Fatal(err)
	}

	items, err := itemRepo.GetItemsWithoutPage(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Fatalf("Expected 2 items without page, got %d", len(items))
	}
	for _, item := range items {
		if item.GUID == "g2" {
			t.Error("Item with existing page must not be selected")
		}
	}
}

func TestGetItemsWithoutPage_BatchBound(t *testing.T) {
	db := newTestDB(t)
	repo := NewItemRepository(db)

	for _, guid := range []string{"g1", "g2", "g3", "g4", "g5"} {
		repo.InsertItem(testItem(guid, "https://example.de/"+guid))
	}

	items, err := repo.GetItemsWithoutPage(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Errorf("Expected batch of 2, got %d", len(items))
	}
}

func TestGetPagesForExtraction(t *testing.T) {
	db := newTestDB(t)
	itemRepo := NewItemRepository(db)
	pageRepo := NewPageRepository(db)
	textRepo := NewTextRepository(db)

	itemRepo.InsertItem(testItem("g1", "https://example.de/a"))
	itemRepo.InsertItem(testItem("g2", "https://example.de/b"))
	itemRepo.InsertItem(testItem("g3", "https://example.de/c"))

	pageRepo.InsertPage("g1", "https://example.de/a", "https://dest.de/a", "<html>a</html>")
	pageRepo.InsertPage("g2", "https://example.de/b", "https://dest.de/b", "<html>b</html>")

	// g2 already has a progress marker and must not be reselected.
	err := textRepo.InsertTextWithProgress(Text{URL: "https://dest.de/b"}, "g2", "https://example.de/b", true)
	if err != nil {
		t.Fatal(err)
	}

	pages, err := pageRepo.GetPagesForExtraction(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(pages) != 1 {
		t.Fatalf("Expected 1 page for extraction, got %d", len(pages))
	}
	if pages[0].GUID != "g1" {
		t.Errorf("Expected g1, got %s", pages[0].GUID)
	}
	if pages[0].DestURL != "https://dest.de/a" {
		t.Errorf("Unexpected dest_url: %s", pages[0].DestURL)
	}
	if pages[0].PubDate == "" || pages[0].Title == "" {
		t.Error("Expected item metadata to be joined onto the page")
	}
}

func TestInsertTextWithProgress(t *testing.T) {
	db := newTestDB(t)
	itemRepo := NewItemRepository(db)
	pageRepo := NewPageRepository(db)
	textRepo := NewTextRepository(db)

	itemRepo.InsertItem(testItem("g1", "https://example.de/a"))
	pageRepo.InsertPage("g1", "https://example.de/a", "https://dest.de/a", "<html>a</html>")

	text := Text{
		URL:      "https://dest.de/a",
		Date:     "2021-03-02T07:15:00Z",
		Title:    "Titel",
		Fulltext: "Der Text.",
	}
	if err := textRepo.InsertTextWithProgress(text, "g1", "https://example.de/a", true); err != nil {
		t.Fatal(err)
	}

	texts, err := textRepo.GetRecentTexts(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(texts) != 1 {
		t.Fatalf("Expected 1 text, got %d", len(texts))
	}
	if texts[0].Fulltext != "Der Text." {
		t.Errorf("Unexpected fulltext: %q", texts[0].Fulltext)
	}

	markers, err := textRepo.CountProgress()
	if err != nil {
		t.Fatal(err)
	}
	if markers != 1 {
		t.Errorf("Expected 1 progress marker, got %d", markers)
	}

	// Writing the same canonical URL again (e.g. two feed items resolving to
	// one article) replaces the text and keeps a single row.
	text.Fulltext = "Aktualisierter Text."
	if err := textRepo.InsertTextWithProgress(text, "g1", "https://example.de/a", true); err != nil {
		t.Fatal(err)
	}
	count, err := textRepo.CountTexts()
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("Expected 1 text row after re-insert, got %d", count)
	}
}

func TestRunMigrations_Idempotent(t *testing.T) {
	db := newTestDB(t)

	// newTestDB already migrated; a second run must be a no-op.
	version, dirty, err := RunMigrations(db)
	if err != nil {
		t.Fatalf("Expected second migration run to succeed, got: %v", err)
	}
	if dirty {
		t.Error("Expected clean migration state")
	}
	if version == 0 {
		t.Error("Expected non-zero migration version")
	}
}
