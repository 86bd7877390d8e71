// This file defines the Client model and its repository. A client is a
// person or company the freelancer bills; every client belongs to exactly
// one owner and owner_id is written once at creation time.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Client represents a row in the 'clients' table. Company, HourlyRate and
// Notes are optional and stored as NULLs when absent.
type Client struct {
	ID         uint64    `json:"id"`
	OwnerID    uint64    `json:"ownerId"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Company    string    `json:"company,omitempty"`
	HourlyRate *float64  `json:"hourlyRate,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// ErrClientNotFound is returned when a client cannot be found in the DB.
var ErrClientNotFound = errors.New("client not found")

// ClientRepo encapsulates all database queries related to clients.
type ClientRepo struct {
	db *sql.DB
}

func NewClientRepo(db *sql.DB) *ClientRepo {
	return &ClientRepo{db: db}
}

// Create inserts a new client. On success the ID field is populated with
// the auto-generated value and a follow-up SELECT fills the timestamp
// columns so callers receive a fully populated record.
func (r *ClientRepo) Create(ctx context.Context, c *Client) error {
	const qInsert = `INSERT INTO clients (owner_id, name, email, company, hourly_rate, notes)
	                 VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert,
		c.OwnerID, c.Name, c.Email, nullStr(c.Company), c.HourlyRate, nullStr(c.Notes))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	const qSelect = "SELECT created_at, updated_at FROM clients WHERE id = ?"
	return r.db.QueryRowContext(ctx, qSelect, c.ID).Scan(&c.CreatedAt, &c.UpdatedAt)
}

// GetByID fetches a client by its ID regardless of owner. Ownership is
// checked by the caller so that missing and foreign records can map to
// different HTTP responses.
func (r *ClientRepo) GetByID(ctx context.Context, id uint64) (*Client, error) {
	const q = `SELECT id, owner_id, name, email, company, hourly_rate, notes, created_at, updated_at
	           FROM clients WHERE id = ?`
	var (
		c       Client
		company sql.NullString
		rate    sql.NullFloat64
		notes   sql.NullString
	)
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&c.ID, &c.OwnerID, &c.Name, &c.Email, &company, &rate, &notes, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	c.Company = company.String
	c.Notes = notes.String
	if rate.Valid {
		v := rate.Float64
		c.HourlyRate = &v
	}
	return &c, nil
}

// ListByOwner returns all clients for an owner in insertion order. The
// result is never nil so empty lists marshal as [].
func (r *ClientRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]*Client, error) {
	const q = `SELECT id, owner_id, name, email, company, hourly_rate, notes, created_at, updated_at
	           FROM clients WHERE owner_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*Client{}
	for rows.Next() {
		var (
			c       Client
			company sql.NullString
			rate    sql.NullFloat64
			notes   sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Email, &company, &rate, &notes, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		c.Company = company.String
		c.Notes = notes.String
		if rate.Valid {
			v := rate.Float64
			c.HourlyRate = &v
		}
		out = append(out, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a client row. Dependent projects and payments are left
// untouched; there is intentionally no cascade.
func (r *ClientRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM clients WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrClientNotFound
	}
	return nil
}

// CountByOwner returns the number of clients the owner has.
func (r *ClientRepo) CountByOwner(ctx context.Context, ownerID uint64) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM clients WHERE owner_id = ?", ownerID).Scan(&n)
	return n, err
}

// nullStr maps "" to NULL for optional text columns.
func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}
