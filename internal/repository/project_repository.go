// This file defines the Project model and its repository. Projects
// reference a client by id; the reference is not enforced with a foreign
// key so deleting a client leaves its projects dangling (list queries use
// a LEFT JOIN and resolve the name to "" in that case).
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Project status values.
const (
	ProjectActive    = "Active"
	ProjectCompleted = "Completed"
	ProjectCancelled = "Cancelled"
)

// ValidProjectStatus reports whether s is one of the three known states.
func ValidProjectStatus(s string) bool {
	return s == ProjectActive || s == ProjectCompleted || s == ProjectCancelled
}

// Project represents a row in the 'projects' table. ClientName is not a
// column; it is resolved at read time when listing.
type Project struct {
	ID         uint64    `json:"id"`
	OwnerID    uint64    `json:"ownerId"`
	ClientID   uint64    `json:"clientId"`
	Title      string    `json:"title"`
	Deadline   time.Time `json:"deadline"`
	Budget     float64   `json:"budget"`
	Status     string    `json:"status"`
	ClientName string    `json:"clientName,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// ErrProjectNotFound is returned when a project cannot be found in the DB.
var ErrProjectNotFound = errors.New("project not found")

// ProjectRepo encapsulates all database queries related to projects.
type ProjectRepo struct {
	db *sql.DB
}

func NewProjectRepo(db *sql.DB) *ProjectRepo {
	return &ProjectRepo{db: db}
}

// Create inserts a new project and populates ID plus timestamp fields.
func (r *ProjectRepo) Create(ctx context.Context, p *Project) error {
	const qInsert = `INSERT INTO projects (owner_id, client_id, title, deadline, budget, status)
	                 VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert,
		p.OwnerID, p.ClientID, p.Title, p.Deadline, p.Budget, p.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	const qSelect = "SELECT created_at, updated_at FROM projects WHERE id = ?"
	return r.db.QueryRowContext(ctx, qSelect, p.ID).Scan(&p.CreatedAt, &p.UpdatedAt)
}

// GetByID fetches a project by its ID regardless of owner.
func (r *ProjectRepo) GetByID(ctx context.Context, id uint64) (*Project, error) {
	const q = `SELECT id, owner_id, client_id, title, deadline, budget, status, created_at, updated_at
	           FROM projects WHERE id = ?`
	var p Project
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&p.ID, &p.OwnerID, &p.ClientID, &p.Title, &p.Deadline, &p.Budget, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return &p, nil
}

// ListByOwner returns all projects for an owner with the client name
// resolved via LEFT JOIN. The result is never nil.
func (r *ProjectRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]*Project, error) {
	const q = `SELECT p.id, p.owner_id, p.client_id, p.title, p.deadline, p.budget, p.status,
	                  COALESCE(c.name, ''), p.created_at, p.updated_at
	           FROM projects p
	           LEFT JOIN clients c ON c.id = p.client_id
	           WHERE p.owner_id = ? ORDER BY p.id`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*Project{}
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.ClientID, &p.Title, &p.Deadline, &p.Budget,
			&p.Status, &p.ClientName, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update persists the mutable columns of a project. Ownership has already
// been verified by the caller; owner_id is never written here.
func (r *ProjectRepo) Update(ctx context.Context, p *Project) error {
	const q = `UPDATE projects
	           SET client_id = ?, title = ?, deadline = ?, budget = ?, status = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, q, p.ClientID, p.Title, p.Deadline, p.Budget, p.Status, p.ID); err != nil {
		return err
	}
	const qSelect = "SELECT created_at, updated_at FROM projects WHERE id = ?"
	return r.db.QueryRowContext(ctx, qSelect, p.ID).Scan(&p.CreatedAt, &p.UpdatedAt)
}

// Delete removes a project row. Dependent payments are left untouched.
func (r *ProjectRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrProjectNotFound
	}
	return nil
}

// CountActiveByOwner returns how many of the owner's projects are Active.
func (r *ProjectRepo) CountActiveByOwner(ctx context.Context, ownerID uint64) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM projects WHERE owner_id = ? AND status = ?",
		ownerID, ProjectActive).Scan(&n)
	return n, err
}
