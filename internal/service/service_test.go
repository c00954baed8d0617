package service

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/ataredge/tutorhub/internal/config"
	"github.com/ataredge/tutorhub/internal/db"
	"github.com/ataredge/tutorhub/internal/repository"
	"github.com/ataredge/tutorhub/internal/storage"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

const testFounder = "founder@example.com"

type testEnv struct {
	db            *sqlx.DB
	accounts      repository.AccountRepository
	notifications repository.NotificationRepository
	auth          *AuthService
	tutors        *TutorService
	submissions   *SubmissionService
	triage        *TriageService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	dsn := filepath.Join(dir, "data.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"
	database, err := db.Init("sqlite", dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations(database.DB, "sqlite"))
	t.Cleanup(func() { _ = database.Close() })

	store, err := storage.NewLocalStorage(filepath.Join(dir, "uploads"), "/uploads/")
	require.NoError(t, err)

	accounts := repository.NewAccountRepository(database)
	sessions := repository.NewSessionRepository(database)
	inquiries := repository.NewInquiryRepository(database)
	contacts := repository.NewContactRepository(database)
	applications := repository.NewApplicationRepository(database)
	notifications := repository.NewNotificationRepository(database)

	email := NewEmailService(config.EmailProviderLog, "", "hello@example.com", "Test Academy", true)
	notify := NewNotificationService(notifications, email, testFounder, "Test Academy", 3)

	return &testEnv{
		db:            database,
		accounts:      accounts,
		notifications: notifications,
		auth:          NewAuthService(accounts, sessions, "test-secret", time.Hour, testFounder, false),
		tutors:        NewTutorService(accounts, NewPhotoService(store)),
		submissions:   NewSubmissionService(accounts, inquiries, contacts, applications, notify),
		triage:        NewTriageService(inquiries, contacts, applications),
	}
}

func (e *testEnv) queued(t *testing.T) int {
	t.Helper()
	n, err := e.notifications.CountByStatus("queued")
	require.NoError(t, err)
	return n
}
