package routes

import (
	"io/fs"
	"net/http"

	"github.com/ataredge/tutorhub"
	"github.com/ataredge/tutorhub/internal/app"
	"github.com/ataredge/tutorhub/internal/handler"
	"github.com/ataredge/tutorhub/internal/middleware"
	"github.com/ataredge/tutorhub/internal/storage"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	home := handler.NewHomeHandler(app.TutorService)
	page := handler.NewPageHandler(app.PageService)
	seo := handler.NewSEOHandler(app.SitemapService, app.Cfg.AppURL)
	tutor := handler.NewTutorHandler(app.TutorService, app.SubmissionService)
	contact := handler.NewContactHandler(app.SubmissionService)
	team := handler.NewTeamHandler(app.SubmissionService)
	auth := handler.NewAuthHandler(app.AuthService)
	join := handler.NewJoinHandler(app.AuthService, app.TutorService)
	admin := handler.NewAdminHandler(app.TriageService)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	// Static files
	assets, _ := fs.Sub(tutorhub.AssetsFS, "assets")
	mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServer(http.FS(assets))))

	// Tutor photos on local disk (S3 photos are served by the bucket)
	if local, ok := app.Storage.(*storage.LocalStorage); ok {
		mux.Handle("GET "+app.Cfg.UploadsPrefix, http.StripPrefix(app.Cfg.UploadsPrefix, http.FileServer(http.Dir(local.Dir()))))
	}

	// SEO
	mux.HandleFunc("GET /robots.txt", seo.Robots)
	mux.HandleFunc("GET /sitemap.xml", seo.Sitemap)

	// Home
	mux.HandleFunc("GET /{$}", home.HomePage)

	// Informational pages
	mux.HandleFunc("GET /about", page.Show)
	mux.HandleFunc("GET /services", page.Show)
	mux.HandleFunc("GET /privacy", page.Show)
	mux.HandleFunc("GET /terms", page.Show)

	// Tutors
	mux.HandleFunc("GET /tutors", tutor.ListTutors)
	mux.HandleFunc("GET /tutors/{id}", tutor.ShowTutor)
	mux.HandleFunc("POST /tutors/{id}/contact", tutor.Contact)

	// Forms
	mux.HandleFunc("GET /contact", contact.ContactPage)
	mux.HandleFunc("POST /contact", contact.Submit)
	mux.HandleFunc("GET /join-team", team.JoinTeamPage)
	mux.HandleFunc("POST /join-team", team.Apply)

	// Auth (submissions rate limited)
	rateLimiter := middleware.RateLimitAuth(app.AuthLimiter)

	mux.HandleFunc("GET /signup", middleware.RequireGuest(auth.SignupPage))
	mux.HandleFunc("POST /signup", rateLimiter(auth.Signup))
	mux.HandleFunc("GET /login", middleware.RequireGuest(auth.LoginPage))
	mux.HandleFunc("POST /login", rateLimiter(auth.Login))
	mux.HandleFunc("GET /logout", auth.Logout)

	// ============================================================================
	// MEMBER ROUTES
	// ============================================================================

	mux.HandleFunc("GET /join", middleware.RequireAuth(join.JoinPage))
	mux.HandleFunc("POST /join", middleware.RequireAuth(join.Join))

	// ============================================================================
	// ADMIN ROUTES (/admin/*)
	// ============================================================================

	mux.HandleFunc("GET /admin", middleware.RequireAdmin(admin.Dashboard))
	mux.HandleFunc("GET /admin/inquiries", middleware.RequireAdmin(admin.Inquiries))
	mux.HandleFunc("GET /admin/applications", middleware.RequireAdmin(admin.Applications))
	mux.HandleFunc("GET /admin/contacts", middleware.RequireAdmin(admin.Contacts))
	mux.HandleFunc("POST /admin/{kind}/{id}/status", middleware.RequireAdmin(admin.SetStatus))
	mux.HandleFunc("POST /admin/applications/{id}/delete", middleware.RequireAdmin(admin.DeleteApplication))
	mux.HandleFunc("/admin/{path...}", middleware.RequireAdmin(home.NotFoundPage))

	// ============================================================================
	// FALLBACK
	// ============================================================================

	// 404
	mux.HandleFunc("/{path...}", home.NotFoundPage)

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.Config(app.Cfg),                    // Config must be first (needed by SecurityHeaders for S3 endpoint)
		middleware.NonceMiddleware,                    // CSP nonce, before SecurityHeaders
		middleware.SecurityHeaders,                    // CSP, clickjacking, sniffing
		middleware.SessionMiddleware(app.AuthService), // Session snapshot
		middleware.RequestLogging,                     // After session to log the account id
		middleware.CSRFProtection,                     // All state-changing requests
		middleware.WithURLPath,
	)

	return handler
}
