package database

// ItemRepository handles storage of feed items
type ItemRepository interface {
	InsertItem(item Item) (bool, error)
	GetItemsWithoutPage(limit int) ([]Item, error)
	CountItems() (int, error)
}

// PageRepository handles storage of downloaded destination pages
type PageRepository interface {
	InsertPage(guid, link, destURL, html string) error
	GetPagesForExtraction(limit int) ([]PageForExtraction, error)
	CountPages() (int, error)
}

// TextRepository handles storage of extracted fulltexts and the per-item
// progress markers that exclude items from future extraction runs
type TextRepository interface {
	InsertTextWithProgress(text Text, guid, link string, canDelete bool) error
	GetRecentTexts(limit int) ([]Text, error)
	CountTexts() (int, error)
	CountProgress() (int, error)
}
