package handler

import (
	"log/slog"
	"net/http"

	"github.com/ataredge/tutorhub/internal/service"
	"github.com/ataredge/tutorhub/internal/ui"
)

type HomeHandler struct {
	tutorService *service.TutorService
}

func NewHomeHandler(tutorService *service.TutorService) *HomeHandler {
	return &HomeHandler{tutorService: tutorService}
}

func (h *HomeHandler) HomePage(w http.ResponseWriter, r *http.Request) {
	tutors, err := h.tutorService.Tutors("")
	if err != nil {
		// The page still renders without cards
		slog.Error("failed to list tutors for home page", "error", err)
	}
	ui.Render(w, r, ui.Page("home", "", tutors))
}

func (h *HomeHandler) NotFoundPage(w http.ResponseWriter, r *http.Request) {
	notFound(w, r, "")
}

func notFound(w http.ResponseWriter, r *http.Request, message string) {
	ui.RenderStatus(w, r, http.StatusNotFound, ui.Page("not_found", "Not found", message))
}
