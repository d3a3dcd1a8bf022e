package tasks

import (
	"context"
	"strings"
	"testing"

	"github.com/vkoselev/feedharvest/app/database"
	"github.com/vkoselev/feedharvest/app/extract"
)

const articlePage = `<html><body>
<div id="artikelTextPuffer">Die Aktie legte am Dienstag deutlich zu.</div>
</body></html>`

func TestExtractTask_Execute(t *testing.T) {
	db := newTestDB(t)
	itemRepo := database.NewItemRepository(db)
	pageRepo := database.NewPageRepository(db)
	textRepo := database.NewTextRepository(db)

	link := "https://www.finanznachrichten.de/artikel-1.htm"
	destURL := "https://www.finanznachrichten.de/nachrichten-aktien/artikel-12345678.htm"

	itemRepo.InsertItem(database.Item{
		GUID:        "g1",
		Link:        link,
		PubDate:     "Tue, 02 Mar 2021 08:15:00 +0100",
		Title:       "Aktie legt zu",
		Description: "Kurssprung am Dienstag",
	})
	pageRepo.InsertPage("g1", link, destURL, articlePage)

	task := NewExtractTask(32, extract.NewExtractor(), nil, pageRepo, textRepo)
	if err := task.Execute(context.Background()); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	texts, err := textRepo.GetRecentTexts(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(texts) != 1 {
		t.Fatalf("Expected 1 extracted text, got %d", len(texts))
	}

	text := texts[0]
	if text.URL != destURL {
		t.Errorf("Expected text keyed by destination URL %q, got %q", destURL, text.URL)
	}
	if !strings.Contains(text.Fulltext, "Die Aktie legte am Dienstag deutlich zu.") {
		t.Errorf("Expected article body in fulltext, got %q", text.Fulltext)
	}
	if text.Date != "2021-03-02T07:15:00Z" {
		t.Errorf("Expected normalized publication date, got %q", text.Date)
	}
	if text.Title != "Aktie legt zu" || text.Description != "Kurssprung am Dienstag" {
		t.Errorf("Expected item metadata carried over, got %+v", text)
	}

	// The processed page is never reselected.
	pages, err := pageRepo.GetPagesForExtraction(32)
	if err != nil {
		t.Fatal(err)
	}
	if len(pages) != 0 {
		t.Errorf("Expected no pending pages after extraction, got %d", len(pages))
	}
}

func TestExtractTask_UnsupportedDomainIsTerminal(t *testing.T) {
	db := newTestDB(t)
	itemRepo := database.NewItemRepository(db)
	pageRepo := database.NewPageRepository(db)
	textRepo := database.NewTextRepository(db)

	link := "https://www.youtube.com/watch?v=abc"
	itemRepo.InsertItem(database.Item{GUID: "g1", Link: link, Title: "Video"})
	pageRepo.InsertPage("g1", link, link, "<html><body>player</body></html>")

	task := NewExtractTask(32, extract.NewExtractor(), nil, pageRepo, textRepo)
	if err := task.Execute(context.Background()); err != nil {
		t.Fatal(err)
	}

	// The page gets a sentinel row with empty fulltext and is marked done
	// so it never comes up again.
	texts, _ := textRepo.GetRecentTexts(10)
	if len(texts) != 1 {
		t.Fatalf("Expected sentinel text row, got %d rows", len(texts))
	}
	if texts[0].Fulltext != "" {
		t.Errorf("Expected empty fulltext for unsupported domain, got %q", texts[0].Fulltext)
	}

	pages, _ := pageRepo.GetPagesForExtraction(32)
	if len(pages) != 0 {
		t.Errorf("Expected unsupported page marked terminal, got %d pending", len(pages))
	}
}

func TestExtractTask_RawDateKeptWhenUnparseable(t *testing.T) {
	db := newTestDB(t)
	itemRepo := database.NewItemRepository(db)
	pageRepo := database.NewPageRepository(db)
	textRepo := database.NewTextRepository(db)

	link := "https://www.finanznachrichten.de/artikel-2.htm"
	itemRepo.InsertItem(database.Item{GUID: "g2", Link: link, PubDate: "irgendwann"})
	pageRepo.InsertPage("g2", link, link, articlePage)

	task := NewExtractTask(32, extract.NewExtractor(), nil, pageRepo, textRepo)
	if err := task.Execute(context.Background()); err != nil {
		t.Fatal(err)
	}

	texts, _ := textRepo.GetRecentTexts(10)
	if len(texts) != 1 {
		t.Fatalf("Expected 1 text, got %d", len(texts))
	}
	if texts[0].Date != "irgendwann" {
		t.Errorf("Expected raw date passthrough, got %q", texts[0].Date)
	}
}

func TestExtractTask_BatchBound(t *testing.T) {
	db := newTestDB(t)
	itemRepo := database.NewItemRepository(db)
	pageRepo := database.NewPageRepository(db)
	textRepo := database.NewTextRepository(db)

	for _, guid := range []string{"g1", "g2", "g3"} {
		link := "https://www.finanznachrichten.de/" + guid + ".htm"
		itemRepo.InsertItem(database.Item{GUID: guid, Link: link})
		pageRepo.InsertPage(guid, link, link, articlePage)
	}

	task := NewExtractTask(2, extract.NewExtractor(), nil, pageRepo, textRepo)
	if err := task.Execute(context.Background()); err != nil {
		t.Fatal(err)
	}

	count, _ := textRepo.CountProgress()
	if count != 2 {
		t.Errorf("Expected 2 pages processed with maxitems=2, got %d", count)
	}
}
