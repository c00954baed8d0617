package repository

import (
	"errors"
	"fmt"

	"github.com/ataredge/tutorhub/internal/model"
	"github.com/jmoiron/sqlx"
)

var ErrSubmissionNotFound = errors.New("submission not found")

const (
	tableApplications = "applications"
	tableContacts     = "contacts"
	tableInquiries    = "inquiries"
)

// Rows with a NULL status predate the status column and count as open.
const (
	whereOpen   = `(status IS NULL OR status <> 'closed')`
	whereClosed = `status = 'closed'`
)

// statusTable holds the status bookkeeping shared by the submission tables.
type statusTable struct {
	db    *sqlx.DB
	table string
}

func (t statusTable) countOpen() (int, error) {
	var count int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s`, t.table, whereOpen)

	err := t.db.Get(&count, query)
	return count, err
}

// setStatus overwrites the status of one row. Writing the current value
// again succeeds.
func (t statusTable) setStatus(id string, status model.Status) error {
	query := fmt.Sprintf(`UPDATE %s SET status = $1 WHERE id = $2`, t.table)

	result, err := t.db.Exec(query, string(status), id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrSubmissionNotFound
	}

	return nil
}
