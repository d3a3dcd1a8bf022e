package api

import (
	"github.com/vkoselev/feedharvest/app/database"
)

type Handler struct {
	itemRepo database.ItemRepository
	pageRepo database.PageRepository
	textRepo database.TextRepository
}
