package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ataredge/tutorhub/internal/model"
	"github.com/ataredge/tutorhub/internal/service"
	"github.com/ataredge/tutorhub/internal/ui"
)

// AdminHandler serves the triage dashboard. Every route is wrapped in
// middleware.RequireAdmin.
type AdminHandler struct {
	triageService *service.TriageService
}

func NewAdminHandler(triageService *service.TriageService) *AdminHandler {
	return &AdminHandler{triageService: triageService}
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	counts, err := h.triageService.Counts()
	if err != nil {
		slog.Error("failed to count open submissions", "error", err)
		http.Error(w, "Something went wrong", http.StatusInternalServerError)
		return
	}
	ui.Render(w, r, ui.Page("admin", "Admin", ui.AdminData{Counts: counts}))
}

func (h *AdminHandler) Inquiries(w http.ResponseWriter, r *http.Request) {
	partition, err := h.triageService.Inquiries()
	if err != nil {
		listError(w, model.KindInquiry, err)
		return
	}
	ui.Render(w, r, ui.Page("admin_inquiries", "Enquiries", ui.AdminListData[model.Inquiry]{
		Kind:      model.KindInquiry,
		Partition: partition,
	}))
}

func (h *AdminHandler) Applications(w http.ResponseWriter, r *http.Request) {
	partition, err := h.triageService.Applications()
	if err != nil {
		listError(w, model.KindApplication, err)
		return
	}
	ui.Render(w, r, ui.Page("admin_applications", "Applications", ui.AdminListData[model.Application]{
		Kind:      model.KindApplication,
		Partition: partition,
	}))
}

func (h *AdminHandler) Contacts(w http.ResponseWriter, r *http.Request) {
	partition, err := h.triageService.Contacts()
	if err != nil {
		listError(w, model.KindContact, err)
		return
	}
	ui.Render(w, r, ui.Page("admin_contacts", "Contacts", ui.AdminListData[model.Contact]{
		Kind:      model.KindContact,
		Partition: partition,
	}))
}

func listError(w http.ResponseWriter, kind model.Kind, err error) {
	slog.Error("failed to list submissions", "error", err, "kind", kind)
	http.Error(w, "Something went wrong", http.StatusInternalServerError)
}

// SetStatus moves a submission to the posted status ("read" when omitted).
// Script callers get {"ok":true}, form posts are redirected to the listing.
func (h *AdminHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	kind := model.Kind(r.PathValue("kind"))

	_, err := h.triageService.SetStatus(kind, r.PathValue("id"), r.FormValue("status"))
	if err != nil {
		if errors.Is(err, service.ErrUnknownKind) || errors.Is(err, service.ErrSubmissionNotFound) {
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}
		slog.Error("failed to set status", "error", err, "kind", kind, "id", r.PathValue("id"))
		http.Error(w, "Something went wrong", http.StatusInternalServerError)
		return
	}

	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
		return
	}
	http.Redirect(w, r, "/admin/"+string(kind), http.StatusSeeOther)
}

func (h *AdminHandler) DeleteApplication(w http.ResponseWriter, r *http.Request) {
	err := h.triageService.DeleteApplication(r.PathValue("id"))
	if err != nil {
		slog.Error("failed to delete application", "error", err, "id", r.PathValue("id"))
	}
	http.Redirect(w, r, "/admin/applications", http.StatusSeeOther)
}

func wantsJSON(r *http.Request) bool {
	return r.Header.Get("X-Requested-With") == "XMLHttpRequest" ||
		strings.Contains(r.Header.Get("Accept"), "json")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to write json", "error", err)
	}
}
