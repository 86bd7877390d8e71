// Package handler implements the HTTP handlers of the API. Handlers bind
// request DTOs, validate fields by hand, enforce ownership, and map errors
// to status codes inline: 400 for validation failures, 401 for auth and
// ownership failures, 404 for unresolved ids, 500 for everything else.
// Error bodies are always {"message": "..."}.
package handler

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/freelancehq/freelance-tracker/internal/queue"
	"github.com/freelancehq/freelance-tracker/internal/repository"
)

// Store interfaces keep handlers decoupled from MySQL; the repository
// types implement them and tests substitute in-memory fakes.

// UserStore persists user accounts.
type UserStore interface {
	Create(ctx context.Context, name, email, password string, cost int) (uint64, error)
	GetByEmail(ctx context.Context, email string) (repository.User, error)
	GetByID(ctx context.Context, id uint64) (repository.User, error)
}

// TokenStore persists hashed refresh tokens.
type TokenStore interface {
	StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error
	ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error)
	RevokeByHash(ctx context.Context, tokenHash string) error
	RevokeAllForUser(ctx context.Context, userID uint64) error
}

// ClientStore persists clients.
type ClientStore interface {
	Create(ctx context.Context, c *repository.Client) error
	GetByID(ctx context.Context, id uint64) (*repository.Client, error)
	ListByOwner(ctx context.Context, ownerID uint64) ([]*repository.Client, error)
	Delete(ctx context.Context, id uint64) error
	CountByOwner(ctx context.Context, ownerID uint64) (int64, error)
}

// ProjectStore persists projects.
type ProjectStore interface {
	Create(ctx context.Context, p *repository.Project) error
	GetByID(ctx context.Context, id uint64) (*repository.Project, error)
	ListByOwner(ctx context.Context, ownerID uint64) ([]*repository.Project, error)
	Update(ctx context.Context, p *repository.Project) error
	Delete(ctx context.Context, id uint64) error
	CountActiveByOwner(ctx context.Context, ownerID uint64) (int64, error)
}

// PaymentStore persists payments.
type PaymentStore interface {
	Create(ctx context.Context, p *repository.Payment) error
	GetByID(ctx context.Context, id uint64) (*repository.Payment, error)
	ListByOwner(ctx context.Context, ownerID uint64) ([]*repository.Payment, error)
	Update(ctx context.Context, p *repository.Payment) error
	Delete(ctx context.Context, id uint64) error
}

// PaymentEventPublisher emits a payment.paid event. Implementations log
// and swallow broker failures; handlers ignore the returned error.
type PaymentEventPublisher interface {
	PublishPaymentPaid(ctx context.Context, ev queue.PaymentPaidEvent) error
}

// getUserID extracts the user_id set by the JWT middleware and converts it
// to uint64. JWT numeric claims decode as float64, hence the type switch.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// assertOwner is the ownership guard applied before every update and
// delete: the record's owner must be the authenticated caller.
func assertOwner(ownerID, callerID uint64) error {
	if ownerID != callerID {
		return repository.ErrNotOwner
	}
	return nil
}

// parseDate accepts RFC3339 or a plain calendar date.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.Parse("2006-01-02", s)
}

// reqCtx bounds every store round trip to a single short deadline.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}
