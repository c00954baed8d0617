package repository

import (
	"time"

	"github.com/ataredge/tutorhub/internal/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type ApplicationRepository interface {
	Create(application *model.Application) error
	Open() ([]*model.Application, error)
	Closed() ([]*model.Application, error)
	CountOpen() (int, error)
	SetStatus(id string, status model.Status) error
	Delete(id string) error
}

type applicationRepository struct {
	db     *sqlx.DB
	status statusTable
}

func NewApplicationRepository(db *sqlx.DB) ApplicationRepository {
	return &applicationRepository{
		db:     db,
		status: statusTable{db: db, table: tableApplications},
	}
}

const applicationColumns = `id, full_name, email, mobile, atar, high_school, graduation_year,
	university, degree, message, COALESCE(status, 'open') AS status, created_at`

func (r *applicationRepository) Create(application *model.Application) error {
	if application.ID == "" {
		application.ID = uuid.New().String()
	}
	if application.CreatedAt.IsZero() {
		application.CreatedAt = time.Now().UTC()
	}
	application.Status = model.StatusOpen

	query := `
		INSERT INTO applications (id, full_name, email, mobile, atar, high_school, graduation_year,
			university, degree, message, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.Exec(query,
		application.ID,
		application.FullName,
		application.Email,
		application.Mobile,
		application.ATAR,
		application.HighSchool,
		application.GraduationYear,
		application.University,
		application.Degree,
		application.Message,
		string(application.Status),
		application.CreatedAt,
	)
	return err
}

func (r *applicationRepository) Open() ([]*model.Application, error) {
	return r.list(whereOpen)
}

func (r *applicationRepository) Closed() ([]*model.Application, error) {
	return r.list(whereClosed)
}

func (r *applicationRepository) list(where string) ([]*model.Application, error) {
	applications := []*model.Application{}
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE ` + where + ` ORDER BY created_at DESC`

	err := r.db.Select(&applications, query)
	if err != nil {
		return nil, err
	}

	return applications, nil
}

func (r *applicationRepository) CountOpen() (int, error) {
	return r.status.countOpen()
}

func (r *applicationRepository) SetStatus(id string, status model.Status) error {
	return r.status.setStatus(id, status)
}

// Delete removes the application permanently. Deleting a missing id is not an error.
func (r *applicationRepository) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM applications WHERE id = $1`, id)
	return err
}
