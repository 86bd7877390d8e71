// This file defines the Payment model and its repository. A payment
// references a project by id (no foreign key, no cascade). PaidDate is
// non-NULL exactly when status is Paid; the handlers enforce that policy
// and the repository just persists what it is given.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Payment status values.
const (
	PaymentPaid   = "Paid"
	PaymentUnpaid = "Unpaid"
)

// ValidPaymentStatus reports whether s is one of the two known states.
func ValidPaymentStatus(s string) bool {
	return s == PaymentPaid || s == PaymentUnpaid
}

// Payment represents a row in the 'payments' table. ProjectTitle is not a
// column; it is resolved at read time when listing.
type Payment struct {
	ID           uint64     `json:"id"`
	OwnerID      uint64     `json:"ownerId"`
	ProjectID    uint64     `json:"projectId"`
	Amount       float64    `json:"amount"`
	DueDate      time.Time  `json:"dueDate"`
	Status       string     `json:"status"`
	PaidDate     *time.Time `json:"paidDate,omitempty"`
	ProjectTitle string     `json:"projectTitle,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// ErrPaymentNotFound is returned when a payment cannot be found in the DB.
var ErrPaymentNotFound = errors.New("payment not found")

// PaymentRepo encapsulates all database queries related to payments.
type PaymentRepo struct {
	db *sql.DB
}

func NewPaymentRepo(db *sql.DB) *PaymentRepo {
	return &PaymentRepo{db: db}
}

// Create inserts a new payment and populates ID plus timestamp fields.
func (r *PaymentRepo) Create(ctx context.Context, p *Payment) error {
	const qInsert = `INSERT INTO payments (owner_id, project_id, amount, due_date, status, paid_date)
	                 VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert,
		p.OwnerID, p.ProjectID, p.Amount, p.DueDate, p.Status, p.PaidDate)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	const qSelect = "SELECT created_at, updated_at FROM payments WHERE id = ?"
	return r.db.QueryRowContext(ctx, qSelect, p.ID).Scan(&p.CreatedAt, &p.UpdatedAt)
}

// GetByID fetches a payment by its ID regardless of owner.
func (r *PaymentRepo) GetByID(ctx context.Context, id uint64) (*Payment, error) {
	const q = `SELECT id, owner_id, project_id, amount, due_date, status, paid_date, created_at, updated_at
	           FROM payments WHERE id = ?`
	var (
		p    Payment
		paid sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&p.ID, &p.OwnerID, &p.ProjectID, &p.Amount, &p.DueDate, &p.Status, &paid, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	if paid.Valid {
		t := paid.Time
		p.PaidDate = &t
	}
	return &p, nil
}

// ListByOwner returns all payments for an owner with the project title
// resolved via LEFT JOIN. The result is never nil.
func (r *PaymentRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]*Payment, error) {
	const q = `SELECT pm.id, pm.owner_id, pm.project_id, pm.amount, pm.due_date, pm.status, pm.paid_date,
	                  COALESCE(pr.title, ''), pm.created_at, pm.updated_at
	           FROM payments pm
	           LEFT JOIN projects pr ON pr.id = pm.project_id
	           WHERE pm.owner_id = ? ORDER BY pm.id`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*Payment{}
	for rows.Next() {
		var (
			p    Payment
			paid sql.NullTime
		)
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.ProjectID, &p.Amount, &p.DueDate, &p.Status,
			&paid, &p.ProjectTitle, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		if paid.Valid {
			t := paid.Time
			p.PaidDate = &t
		}
		out = append(out, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update persists the mutable columns of a payment. Ownership has already
// been verified by the caller; owner_id is never written here.
func (r *PaymentRepo) Update(ctx context.Context, p *Payment) error {
	const q = `UPDATE payments
	           SET amount = ?, due_date = ?, status = ?, paid_date = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, q, p.Amount, p.DueDate, p.Status, p.PaidDate, p.ID); err != nil {
		return err
	}
	const qSelect = "SELECT created_at, updated_at FROM payments WHERE id = ?"
	return r.db.QueryRowContext(ctx, qSelect, p.ID).Scan(&p.CreatedAt, &p.UpdatedAt)
}

// Delete removes a payment row.
func (r *PaymentRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM payments WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrPaymentNotFound
	}
	return nil
}
