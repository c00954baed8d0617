package handler

import (
	"log/slog"
	"net/http"

	"github.com/ataredge/tutorhub/internal/model"
	"github.com/ataredge/tutorhub/internal/service"
	"github.com/ataredge/tutorhub/internal/ui"
)

// TeamHandler takes "join our team" applications from prospective tutors.
type TeamHandler struct {
	submissionService *service.SubmissionService
}

func NewTeamHandler(submissionService *service.SubmissionService) *TeamHandler {
	return &TeamHandler{submissionService: submissionService}
}

func (h *TeamHandler) JoinTeamPage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, ui.Page("join_team", "Join our team", ui.FormData{}))
}

func (h *TeamHandler) Apply(w http.ResponseWriter, r *http.Request) {
	application := &model.Application{
		FullName:       r.FormValue("fullName"),
		Email:          r.FormValue("email"),
		Mobile:         r.FormValue("mobile"),
		ATAR:           r.FormValue("atar"),
		HighSchool:     r.FormValue("highSchool"),
		GraduationYear: r.FormValue("graduationYear"),
		University:     r.FormValue("university"),
		Degree:         r.FormValue("degree"),
		Message:        r.FormValue("message"),
	}

	err := h.submissionService.SubmitApplication(application)
	if err != nil {
		slog.Error("failed to submit application", "error", err)
		ui.RenderStatus(w, r, http.StatusInternalServerError, ui.Page("join_team", "Join our team", ui.FormData{
			Error: "Sorry, we could not submit your application. Please try again.",
		}))
		return
	}

	ui.Render(w, r, ui.Page("join_team", "Join our team", ui.FormData{Success: true}))
}
