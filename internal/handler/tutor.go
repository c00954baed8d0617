package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ataredge/tutorhub/internal/model"
	"github.com/ataredge/tutorhub/internal/service"
	"github.com/ataredge/tutorhub/internal/ui"
)

type TutorHandler struct {
	tutorService      *service.TutorService
	submissionService *service.SubmissionService
}

func NewTutorHandler(tutorService *service.TutorService, submissionService *service.SubmissionService) *TutorHandler {
	return &TutorHandler{
		tutorService:      tutorService,
		submissionService: submissionService,
	}
}

// ListTutors renders the tutor listing, filtered by ?subject= when present.
func (h *TutorHandler) ListTutors(w http.ResponseWriter, r *http.Request) {
	filter := strings.TrimSpace(r.URL.Query().Get("subject"))

	tutors, err := h.tutorService.Tutors(filter)
	if err != nil {
		// Same as an empty result for the visitor
		slog.Error("failed to list tutors", "error", err, "subject", filter)
	}

	ui.Render(w, r, ui.Page("tutors", "Our tutors", ui.TutorsData{Tutors: tutors, Filter: filter}))
}

func (h *TutorHandler) ShowTutor(w http.ResponseWriter, r *http.Request) {
	tutor, err := h.tutorService.Tutor(r.PathValue("id"))
	if err != nil {
		h.tutorError(w, r, err)
		return
	}

	ui.Render(w, r, ui.Page("tutor", tutor.Name, ui.TutorData{Tutor: tutor}))
}

// Contact records an enquiry for the tutor and shows the profile with a
// confirmation.
func (h *TutorHandler) Contact(w http.ResponseWriter, r *http.Request) {
	inquiry := &model.Inquiry{
		FullName:  r.FormValue("fullName"),
		Email:     r.FormValue("email"),
		Mobile:    r.FormValue("mobile"),
		Relation:  r.FormValue("relation"),
		YearLevel: r.FormValue("yearLevel"),
		School:    r.FormValue("school"),
		Message:   r.FormValue("message"),
	}

	_, err := h.submissionService.SubmitInquiry(r.PathValue("id"), inquiry)
	if err != nil {
		if errors.Is(err, service.ErrNotTutor) {
			h.tutorError(w, r, err)
			return
		}
		slog.Error("failed to submit inquiry", "error", err, "tutor_id", r.PathValue("id"))
		h.inquiryFailed(w, r)
		return
	}

	tutor, err := h.tutorService.Tutor(inquiry.TutorID)
	if err != nil {
		h.tutorError(w, r, err)
		return
	}

	ui.Render(w, r, ui.Page("tutor", tutor.Name, ui.TutorData{Tutor: tutor, Success: true}))
}

// inquiryFailed shows the profile again with a generic error.
func (h *TutorHandler) inquiryFailed(w http.ResponseWriter, r *http.Request) {
	tutor, err := h.tutorService.Tutor(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Could not submit enquiry", http.StatusInternalServerError)
		return
	}
	ui.RenderStatus(w, r, http.StatusInternalServerError, ui.Page("tutor", tutor.Name, ui.TutorData{
		Tutor: tutor,
		Error: "Sorry, we could not send your enquiry. Please try again.",
	}))
}

func (h *TutorHandler) tutorError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, service.ErrNotTutor) {
		http.Error(w, "Tutor not found", http.StatusNotFound)
		return
	}
	slog.Error("failed to load tutor", "error", err, "tutor_id", r.PathValue("id"))
	http.Error(w, "Something went wrong", http.StatusInternalServerError)
}
