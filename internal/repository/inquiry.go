package repository

import (
	"time"

	"github.com/ataredge/tutorhub/internal/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type InquiryRepository interface {
	Create(inquiry *model.Inquiry) error
	Open() ([]*model.Inquiry, error)
	Closed() ([]*model.Inquiry, error)
	CountOpen() (int, error)
	SetStatus(id string, status model.Status) error
}

type inquiryRepository struct {
	db     *sqlx.DB
	status statusTable
}

func NewInquiryRepository(db *sqlx.DB) InquiryRepository {
	return &inquiryRepository{
		db:     db,
		status: statusTable{db: db, table: tableInquiries},
	}
}

func (r *inquiryRepository) Create(inquiry *model.Inquiry) error {
	if inquiry.ID == "" {
		inquiry.ID = uuid.New().String()
	}
	if inquiry.CreatedAt.IsZero() {
		inquiry.CreatedAt = time.Now().UTC()
	}
	inquiry.Status = model.StatusOpen

	query := `
		INSERT INTO inquiries (id, tutor_id, full_name, email, mobile, relation, year_level, school, message, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.Exec(query,
		inquiry.ID,
		inquiry.TutorID,
		inquiry.FullName,
		inquiry.Email,
		inquiry.Mobile,
		inquiry.Relation,
		inquiry.YearLevel,
		inquiry.School,
		inquiry.Message,
		string(inquiry.Status),
		inquiry.CreatedAt,
	)
	return err
}

func (r *inquiryRepository) Open() ([]*model.Inquiry, error) {
	return r.list(`(i.status IS NULL OR i.status <> 'closed')`)
}

func (r *inquiryRepository) Closed() ([]*model.Inquiry, error) {
	return r.list(`i.status = 'closed'`)
}

// list joins the tutor name. Inquiries whose tutor no longer exists keep a NULL name.
func (r *inquiryRepository) list(where string) ([]*model.Inquiry, error) {
	inquiries := []*model.Inquiry{}
	query := `
		SELECT i.id, i.tutor_id, i.full_name, i.email, i.mobile, i.relation, i.year_level, i.school,
			i.message, COALESCE(i.status, 'open') AS status, i.created_at, a.name AS tutor_name
		FROM inquiries i
		LEFT JOIN accounts a ON a.id = i.tutor_id
		WHERE ` + where + `
		ORDER BY i.created_at DESC
	`

	err := r.db.Select(&inquiries, query)
	if err != nil {
		return nil, err
	}

	return inquiries, nil
}

func (r *inquiryRepository) CountOpen() (int, error) {
	return r.status.countOpen()
}

func (r *inquiryRepository) SetStatus(id string, status model.Status) error {
	return r.status.setStatus(id, status)
}
