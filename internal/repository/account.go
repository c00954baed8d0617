package repository

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/ataredge/tutorhub/internal/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrDuplicateEmail  = errors.New("email already exists")
)

type AccountRepository interface {
	Create(account *model.Account) error
	ByID(id string) (*model.Account, error)
	ByEmail(email string) (*model.Account, error)
	Tutors(subject string) ([]*model.Account, error)
	TutorByID(id string) (*model.Account, error)
	CountTutors() (int, error)
	PromoteToTutor(id, bio string) error
	UpdatePhoto(id, photo string) error
	SetAdmin(email string) error
	CreateTutorProfile(account *model.Account) (bool, error)
}

type accountRepository struct {
	db *sqlx.DB
}

func NewAccountRepository(db *sqlx.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(account *model.Account) error {
	if account.ID == "" {
		account.ID = uuid.New().String()
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO accounts (id, name, email, password_hash, is_tutor, is_admin, bio, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(query,
		account.ID,
		account.Name,
		account.Email,
		account.PasswordHash,
		account.IsTutor,
		account.IsAdmin,
		account.Bio,
		account.CreatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	return err
}

func (r *accountRepository) ByID(id string) (*model.Account, error) {
	account := &model.Account{}
	query := `SELECT * FROM accounts WHERE id = $1`

	err := r.db.Get(account, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}

	return account, nil
}

// ByEmail matches the address case-insensitively.
func (r *accountRepository) ByEmail(email string) (*model.Account, error) {
	account := &model.Account{}
	query := `SELECT * FROM accounts WHERE LOWER(email) = LOWER($1)`

	err := r.db.Get(account, query, strings.TrimSpace(email))
	if err == sql.ErrNoRows {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}

	return account, nil
}

// Tutors lists tutor accounts, optionally narrowed to those whose subject
// list contains subject as a substring.
func (r *accountRepository) Tutors(subject string) ([]*model.Account, error) {
	tutors := []*model.Account{}
	query := `SELECT * FROM accounts WHERE is_tutor = TRUE`
	args := []any{}

	if subject != "" {
		query += ` AND subjects LIKE $1 ESCAPE '\'`
		args = append(args, "%"+likeEscaper.Replace(subject)+"%")
	}
	query += ` ORDER BY created_at ASC`

	err := r.db.Select(&tutors, query, args...)
	if err != nil {
		return nil, err
	}

	return tutors, nil
}

// likeEscaper makes LIKE wildcards in user input match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *accountRepository) TutorByID(id string) (*model.Account, error) {
	account := &model.Account{}
	query := `SELECT * FROM accounts WHERE id = $1 AND is_tutor = TRUE`

	err := r.db.Get(account, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}

	return account, nil
}

func (r *accountRepository) CountTutors() (int, error) {
	var count int
	err := r.db.Get(&count, `SELECT COUNT(*) FROM accounts WHERE is_tutor = TRUE`)
	return count, err
}

func (r *accountRepository) PromoteToTutor(id, bio string) error {
	query := `UPDATE accounts SET is_tutor = TRUE, bio = $1 WHERE id = $2`
	return r.expectOne(query, bio, id)
}

func (r *accountRepository) UpdatePhoto(id, photo string) error {
	query := `UPDATE accounts SET photo = $1 WHERE id = $2`
	return r.expectOne(query, photo, id)
}

func (r *accountRepository) SetAdmin(email string) error {
	query := `UPDATE accounts SET is_admin = TRUE WHERE LOWER(email) = LOWER($1)`
	return r.expectOne(query, strings.TrimSpace(email))
}

// CreateTutorProfile inserts a seeded tutor row. An existing account with the
// same email is left untouched and reported as not created.
func (r *accountRepository) CreateTutorProfile(account *model.Account) (bool, error) {
	if account.ID == "" {
		account.ID = uuid.New().String()
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}
	account.IsTutor = true

	query := `
		INSERT INTO accounts (id, name, email, is_tutor, bio, atar, degree, experience, availability,
			price_y9, price_y10_12, subjects, photo, created_at)
		VALUES ($1, $2, $3, TRUE, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT DO NOTHING
	`
	result, err := r.db.Exec(query,
		account.ID,
		account.Name,
		account.Email,
		account.Bio,
		account.ATAR,
		account.Degree,
		account.Experience,
		account.Availability,
		account.PriceY9,
		account.PriceY10to12,
		account.Subjects,
		account.Photo,
		account.CreatedAt,
	)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

func (r *accountRepository) expectOne(query string, args ...any) error {
	result, err := r.db.Exec(query, args...)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrAccountNotFound
	}

	return nil
}

// isUniqueViolation detects unique constraint errors for both SQLite and PostgreSQL.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key value")
}
