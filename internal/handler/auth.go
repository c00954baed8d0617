package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ataredge/tutorhub/internal/ctxkeys"
	"github.com/ataredge/tutorhub/internal/service"
	"github.com/ataredge/tutorhub/internal/ui"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) SignupPage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, ui.Page("signup", "Sign up", nil))
}

// Signup creates the account and signs it in. Every failure redirects back
// to the form without detail.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	account, err := h.authService.Signup(r.FormValue("name"), r.FormValue("email"), r.FormValue("password"))
	if err != nil {
		if !errors.Is(err, service.ErrMissingFields) && !errors.Is(err, service.ErrEmailAlreadyExists) {
			slog.Error("signup failed", "error", err)
		}
		http.Redirect(w, r, "/signup", http.StatusSeeOther)
		return
	}

	_, err = h.authService.StartSession(w, account)
	if err != nil {
		slog.Error("failed to start session after signup", "error", err, "account_id", account.ID)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, ui.Page("login", "Log in", nil))
}

// Login treats unknown emails and wrong passwords the same way.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	account, err := h.authService.Login(r.FormValue("email"), r.FormValue("password"))
	if err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) {
			slog.Error("login failed", "error", err)
		}
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	_, err = h.authService.StartSession(w, account)
	if err != nil {
		slog.Error("failed to start session", "error", err, "account_id", account.ID)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.EndSession(w, ctxkeys.Session(r.Context()))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
