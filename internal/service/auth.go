package service

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ataredge/tutorhub/internal/model"
	"github.com/ataredge/tutorhub/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const SessionCookieName = "session_token"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrMissingFields      = errors.New("name, email and password are required")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidSession     = errors.New("invalid session")
)

type AuthService struct {
	accountRepository repository.AccountRepository
	sessionRepository repository.SessionRepository
	sessionSecret     string
	sessionExpiry     time.Duration
	founderEmail      string
	isProduction      bool
}

func NewAuthService(
	accountRepository repository.AccountRepository,
	sessionRepository repository.SessionRepository,
	sessionSecret string,
	sessionExpiry time.Duration,
	founderEmail string,
	isProduction bool,
) *AuthService {
	return &AuthService{
		accountRepository: accountRepository,
		sessionRepository: sessionRepository,
		sessionSecret:     sessionSecret,
		sessionExpiry:     sessionExpiry,
		founderEmail:      strings.TrimSpace(founderEmail),
		isProduction:      isProduction,
	}
}

// Signup creates a password account. The founder address is flagged admin.
func (s *AuthService) Signup(name, email, password string) (*model.Account, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(strings.ToLower(email))
	if name == "" || email == "" || password == "" {
		return nil, ErrMissingFields
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &model.Account{
		Name:         name,
		Email:        &email,
		PasswordHash: &hash,
		IsAdmin:      s.IsFounder(email),
	}

	err = s.accountRepository.Create(account)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	slog.Info("account created", "account_id", account.ID, "admin", account.IsAdmin)
	return account, nil
}

// Login reports ErrInvalidCredentials for unknown emails, wrong passwords and
// passwordless accounts alike.
func (s *AuthService) Login(email, password string) (*model.Account, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	account, err := s.accountRepository.ByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	if !account.HasPassword() {
		return nil, ErrInvalidCredentials
	}

	err = s.ComparePassword(password, *account.PasswordHash)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	return account, nil
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *AuthService) ComparePassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func (s *AuthService) IsFounder(email string) bool {
	return s.founderEmail != "" && strings.EqualFold(strings.TrimSpace(email), s.founderEmail)
}

// Role is decided once when a session is created.
func (s *AuthService) Role(account *model.Account) model.Role {
	if account.IsAdmin || s.IsFounder(account.EmailAddress()) {
		return model.RoleAdmin
	}
	return model.RoleMember
}

// StartSession stores a snapshot of the account and sets the session cookie.
func (s *AuthService) StartSession(w http.ResponseWriter, account *model.Account) (*model.Session, error) {
	session := &model.Session{
		AccountID: account.ID,
		Name:      account.Name,
		Email:     account.EmailAddress(),
		IsTutor:   account.IsTutor,
		Role:      s.Role(account),
		ExpiresAt: time.Now().Add(s.sessionExpiry),
	}

	err := s.sessionRepository.Create(session)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	token, err := s.GenerateJWT(session)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session: %w", err)
	}

	s.SetJWTCookie(w, token, session.ExpiresAt)
	return session, nil
}

// ResolveSession returns the live session a token refers to.
func (s *AuthService) ResolveSession(token string) (*model.Session, error) {
	claims, err := s.VerifyJWT(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	sessionID, ok := claims["sid"].(string)
	if !ok || sessionID == "" {
		return nil, ErrInvalidSession
	}

	session, err := s.sessionRepository.ByID(sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

// RefreshSession replaces the current session with a new snapshot of the
// account, after the account changed.
func (s *AuthService) RefreshSession(w http.ResponseWriter, current *model.Session) (*model.Session, error) {
	account, err := s.accountRepository.ByID(current.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	session, err := s.StartSession(w, account)
	if err != nil {
		return nil, err
	}

	err = s.sessionRepository.Delete(current.ID)
	if err != nil {
		slog.Warn("failed to delete replaced session", "error", err, "session_id", current.ID)
	}

	return session, nil
}

// EndSession destroys the session (if any) and clears the cookie.
func (s *AuthService) EndSession(w http.ResponseWriter, session *model.Session) {
	if session != nil {
		err := s.sessionRepository.Delete(session.ID)
		if err != nil {
			slog.Error("failed to delete session", "error", err, "session_id", session.ID)
		}
	}
	s.ClearJWTCookie(w)
}

func (s *AuthService) GenerateJWT(session *model.Session) (string, error) {
	claims := jwt.MapClaims{
		"sid": session.ID,
		"sub": session.AccountID,
		"exp": session.ExpiresAt.Unix(),
		"iat": time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.sessionSecret))
}

func (s *AuthService) VerifyJWT(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.sessionSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}

func (s *AuthService) SetJWTCookie(w http.ResponseWriter, token string, expiry time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Expires:  expiry,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *AuthService) ClearJWTCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

// PurgeExpiredSessions deletes sessions past their expiry.
func (s *AuthService) PurgeExpiredSessions() {
	n, err := s.sessionRepository.DeleteExpired()
	if err != nil {
		slog.Error("failed to purge expired sessions", "error", err)
		return
	}
	if n > 0 {
		slog.Info("purged expired sessions", "count", n)
	}
}

// GrantAdmin flags an existing account as admin.
func (s *AuthService) GrantAdmin(email string) error {
	err := s.accountRepository.SetAdmin(email)
	if err != nil {
		return fmt.Errorf("failed to grant admin: %w", err)
	}
	slog.Info("admin granted", "email", email)
	return nil
}
