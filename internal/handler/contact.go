package handler

import (
	"log/slog"
	"net/http"

	"github.com/ataredge/tutorhub/internal/model"
	"github.com/ataredge/tutorhub/internal/service"
	"github.com/ataredge/tutorhub/internal/ui"
)

type ContactHandler struct {
	submissionService *service.SubmissionService
}

func NewContactHandler(submissionService *service.SubmissionService) *ContactHandler {
	return &ContactHandler{submissionService: submissionService}
}

func (h *ContactHandler) ContactPage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, ui.Page("contact", "Contact", ui.FormData{}))
}

func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	contact := &model.Contact{
		Name:    r.FormValue("name"),
		Email:   r.FormValue("email"),
		Phone:   r.FormValue("phone"),
		Message: r.FormValue("message"),
	}

	err := h.submissionService.SubmitContact(contact)
	if err != nil {
		slog.Error("failed to submit contact", "error", err)
		ui.RenderStatus(w, r, http.StatusInternalServerError, ui.Page("contact", "Contact", ui.FormData{
			Error: "Sorry, we could not send your message. Please try again.",
		}))
		return
	}

	ui.Render(w, r, ui.Page("contact", "Contact", ui.FormData{Success: true}))
}
