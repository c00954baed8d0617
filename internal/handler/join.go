package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ataredge/tutorhub/internal/ctxkeys"
	"github.com/ataredge/tutorhub/internal/service"
	"github.com/ataredge/tutorhub/internal/ui"
)

const maxPhotoUpload = 6 << 20

// JoinHandler lets a signed-in member become a tutor.
type JoinHandler struct {
	authService  *service.AuthService
	tutorService *service.TutorService
}

func NewJoinHandler(authService *service.AuthService, tutorService *service.TutorService) *JoinHandler {
	return &JoinHandler{
		authService:  authService,
		tutorService: tutorService,
	}
}

func (h *JoinHandler) JoinPage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, ui.Page("join", "Become a tutor", ui.FormData{}))
}

// Join stores the optional photo, flags the account as tutor and replaces
// the session snapshot so the new flag is visible immediately.
func (h *JoinHandler) Join(w http.ResponseWriter, r *http.Request) {
	session := ctxkeys.Session(r.Context())

	err := r.ParseMultipartForm(maxPhotoUpload)
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		slog.Warn("failed to parse join form", "error", err, "account_id", session.AccountID)
		http.Redirect(w, r, "/join", http.StatusSeeOther)
		return
	}

	if r.MultipartForm != nil {
		if files := r.MultipartForm.File["photo"]; len(files) > 0 && files[0].Size > 0 {
			err = h.tutorService.SetPhoto(r.Context(), session.AccountID, files[0])
			if err != nil {
				if errors.Is(err, service.ErrInvalidPhoto) {
					ui.RenderStatus(w, r, http.StatusBadRequest, ui.Page("join", "Become a tutor", ui.FormData{
						Error: "Please upload a JPG, PNG or WebP image up to 5 MB.",
					}))
					return
				}
				slog.Error("failed to store tutor photo", "error", err, "account_id", session.AccountID)
				http.Redirect(w, r, "/join", http.StatusSeeOther)
				return
			}
		}
	}

	err = h.tutorService.BecomeTutor(session.AccountID, r.FormValue("bio"))
	if err != nil {
		slog.Error("failed to join as tutor", "error", err, "account_id", session.AccountID)
		http.Redirect(w, r, "/join", http.StatusSeeOther)
		return
	}

	_, err = h.authService.RefreshSession(w, session)
	if err != nil {
		// The flag is stored; the next login picks it up
		slog.Error("failed to refresh session", "error", err, "account_id", session.AccountID)
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}
