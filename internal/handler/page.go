package handler

import (
	"net/http"
	"strings"

	"github.com/ataredge/tutorhub/internal/service"
	"github.com/ataredge/tutorhub/internal/ui"
)

// PageHandler serves the Markdown pages (about, services, privacy, terms).
type PageHandler struct {
	pageService *service.PageService
}

func NewPageHandler(pageService *service.PageService) *PageHandler {
	return &PageHandler{pageService: pageService}
}

// Show renders the page named by the last path segment.
func (h *PageHandler) Show(w http.ResponseWriter, r *http.Request) {
	slug := strings.Trim(r.URL.Path, "/")

	page, err := h.pageService.Page(slug)
	if err != nil {
		notFound(w, r, "")
		return
	}

	ui.Render(w, r, ui.Page("page", page.Title, page))
}
