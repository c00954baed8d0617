package repository

import (
	"time"

	"github.com/ataredge/tutorhub/internal/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type ContactRepository interface {
	Create(contact *model.Contact) error
	Open() ([]*model.Contact, error)
	Closed() ([]*model.Contact, error)
	CountOpen() (int, error)
	SetStatus(id string, status model.Status) error
}

type contactRepository struct {
	db     *sqlx.DB
	status statusTable
}

func NewContactRepository(db *sqlx.DB) ContactRepository {
	return &contactRepository{
		db:     db,
		status: statusTable{db: db, table: tableContacts},
	}
}

const contactColumns = `id, name, email, phone, message, COALESCE(status, 'open') AS status, created_at`

func (r *contactRepository) Create(contact *model.Contact) error {
	if contact.ID == "" {
		contact.ID = uuid.New().String()
	}
	if contact.CreatedAt.IsZero() {
		contact.CreatedAt = time.Now().UTC()
	}
	contact.Status = model.StatusOpen

	query := `
		INSERT INTO contacts (id, name, email, phone, message, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(query,
		contact.ID,
		contact.Name,
		contact.Email,
		contact.Phone,
		contact.Message,
		string(contact.Status),
		contact.CreatedAt,
	)
	return err
}

func (r *contactRepository) Open() ([]*model.Contact, error) {
	return r.list(whereOpen)
}

func (r *contactRepository) Closed() ([]*model.Contact, error) {
	return r.list(whereClosed)
}

func (r *contactRepository) list(where string) ([]*model.Contact, error) {
	contacts := []*model.Contact{}
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE ` + where + ` ORDER BY created_at DESC`

	err := r.db.Select(&contacts, query)
	if err != nil {
		return nil, err
	}

	return contacts, nil
}

func (r *contactRepository) CountOpen() (int, error) {
	return r.status.countOpen()
}

func (r *contactRepository) SetStatus(id string, status model.Status) error {
	return r.status.setStatus(id, status)
}
