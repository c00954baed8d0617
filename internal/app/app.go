package app

import (
	"context"
	"fmt"
	"io/fs"
	"sync"
	"time"

	"github.com/ataredge/tutorhub"
	"github.com/ataredge/tutorhub/internal/config"
	"github.com/ataredge/tutorhub/internal/db"
	"github.com/ataredge/tutorhub/internal/jobs"
	"github.com/ataredge/tutorhub/internal/middleware"
	"github.com/ataredge/tutorhub/internal/model"
	"github.com/ataredge/tutorhub/internal/repository"
	"github.com/ataredge/tutorhub/internal/service"
	"github.com/ataredge/tutorhub/internal/storage"
	"github.com/jmoiron/sqlx"
)

type App struct {
	Cfg                 *config.Config
	DB                  *sqlx.DB
	Storage             storage.Storage
	AuthService         *service.AuthService
	TutorService        *service.TutorService
	SubmissionService   *service.SubmissionService
	TriageService       *service.TriageService
	NotificationService *service.NotificationService
	PageService         *service.PageService
	SitemapService      *service.SitemapService
	Workers             *jobs.WorkerPool
	AuthLimiter         *middleware.RateLimiter

	purgeStop chan struct{}
	purgeOnce sync.Once
	purgeWG   sync.WaitGroup
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	a, err := newWithDB(cfg, database)
	if err != nil {
		_ = database.Close()
		return nil, err
	}
	return a, nil
}

func newWithDB(cfg *config.Config, database *sqlx.DB) (*App, error) {
	// Repositories
	accountRepository := repository.NewAccountRepository(database)
	sessionRepository := repository.NewSessionRepository(database)
	inquiryRepository := repository.NewInquiryRepository(database)
	contactRepository := repository.NewContactRepository(database)
	applicationRepository := repository.NewApplicationRepository(database)
	notificationRepository := repository.NewNotificationRepository(database)

	// Storage
	fileStorage, err := storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	pagesFS, err := fs.Sub(tutorhub.PagesFS, "content/pages")
	if err != nil {
		return nil, fmt.Errorf("failed to open pages: %w", err)
	}
	pageService, err := service.NewPageService(pagesFS)
	if err != nil {
		return nil, fmt.Errorf("failed to load pages: %w", err)
	}

	// Services
	emailService := service.NewEmailService(
		cfg.EmailProvider,
		cfg.EmailKey(),
		cfg.EmailFrom,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	notificationService := service.NewNotificationService(
		notificationRepository,
		emailService,
		cfg.FounderEmail,
		cfg.AppName,
		cfg.NotifyMaxAttempts,
	)
	authService := service.NewAuthService(
		accountRepository,
		sessionRepository,
		cfg.SessionSecret,
		cfg.SessionExpiry,
		cfg.FounderEmail,
		cfg.IsProduction(),
	)
	tutorService := service.NewTutorService(accountRepository, service.NewPhotoService(fileStorage))
	submissionService := service.NewSubmissionService(
		accountRepository,
		inquiryRepository,
		contactRepository,
		applicationRepository,
		notificationService,
	)
	triageService := service.NewTriageService(inquiryRepository, contactRepository, applicationRepository)
	sitemapService := service.NewSitemapService(tutorService, pageService, cfg.AppURL)

	// Notification workers
	workers := jobs.NewWorkerPool(notificationRepository, cfg.NotifyWorkers, cfg.NotifyPollInterval)
	workers.Register(model.JobKindEmail, notificationService.DeliverEmail)

	return &App{
		Cfg:                 cfg,
		DB:                  database,
		Storage:             fileStorage,
		AuthService:         authService,
		TutorService:        tutorService,
		SubmissionService:   submissionService,
		TriageService:       triageService,
		NotificationService: notificationService,
		PageService:         pageService,
		SitemapService:      sitemapService,
		Workers:             workers,
		AuthLimiter:         middleware.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateWindow),
		purgeStop:           make(chan struct{}),
	}, nil
}

// Start seeds the sample tutor when configured, purges stale sessions and
// starts the notification workers. Workers and the session purge run until
// ctx is done or Close.
func (a *App) Start(ctx context.Context) error {
	if a.Cfg.SeedSampleTutor {
		err := a.TutorService.EnsureSampleTutor()
		if err != nil {
			return fmt.Errorf("failed to seed sample tutor: %w", err)
		}
	}

	a.AuthService.PurgeExpiredSessions()
	if a.Cfg.SessionPurgeInterval > 0 {
		a.purgeWG.Add(1)
		go a.purgeLoop(ctx, a.Cfg.SessionPurgeInterval)
	}
	a.Workers.Start(ctx)
	return nil
}

// purgeLoop deletes expired sessions every interval until ctx is done or
// Close is called.
func (a *App) purgeLoop(ctx context.Context, interval time.Duration) {
	defer a.purgeWG.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-a.purgeStop:
			return
		case <-ticker.C:
			a.AuthService.PurgeExpiredSessions()
		}
	}
}

func (a *App) Close() error {
	if a.purgeStop != nil {
		a.purgeOnce.Do(func() { close(a.purgeStop) })
		a.purgeWG.Wait()
	}
	if a.Workers != nil {
		a.Workers.Stop()
	}
	if a.AuthLimiter != nil {
		a.AuthLimiter.Stop()
	}
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
