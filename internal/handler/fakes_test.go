package handler

// In-memory store fakes backing the handler tests. They implement the
// store interfaces with the same sentinel errors the MySQL repositories
// return, so handlers cannot tell the difference.

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/freelancehq/freelance-tracker/internal/queue"
	"github.com/freelancehq/freelance-tracker/internal/repository"
	"github.com/freelancehq/freelance-tracker/internal/utils"
)

// ----- users -----

type fakeUserStore struct {
	seq   uint64
	users map[uint64]repository.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[uint64]repository.User{}}
}

func (f *fakeUserStore) Create(_ context.Context, name, email, password string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range f.users {
		if u.Email == email {
			return 0, repository.ErrEmailExists
		}
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	f.seq++
	now := time.Now().UTC()
	f.users[f.seq] = repository.User{
		ID: f.seq, Name: name, Email: email, PasswordHash: hash,
		CreatedAt: now, UpdatedAt: now,
	}
	return f.seq, nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (repository.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return repository.User{}, sql.ErrNoRows
}

func (f *fakeUserStore) GetByID(_ context.Context, id uint64) (repository.User, error) {
	u, ok := f.users[id]
	if !ok {
		return repository.User{}, sql.ErrNoRows
	}
	return u, nil
}

// ----- refresh tokens -----

type tokenRow struct {
	userID  uint64
	exp     time.Time
	revoked bool
}

type fakeTokenStore struct {
	rows map[string]*tokenRow
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{rows: map[string]*tokenRow{}}
}

func (f *fakeTokenStore) StoreRefresh(_ context.Context, userID uint64, hash string, exp time.Time) error {
	f.rows[hash] = &tokenRow{userID: userID, exp: exp}
	return nil
}

func (f *fakeTokenStore) ValidateRefresh(_ context.Context, hash string) (uint64, error) {
	row, ok := f.rows[hash]
	if !ok || row.revoked || time.Now().UTC().After(row.exp) {
		return 0, sql.ErrNoRows
	}
	return row.userID, nil
}

func (f *fakeTokenStore) RevokeByHash(_ context.Context, hash string) error {
	if row, ok := f.rows[hash]; ok {
		row.revoked = true
	}
	return nil
}

func (f *fakeTokenStore) RevokeAllForUser(_ context.Context, userID uint64) error {
	for _, row := range f.rows {
		if row.userID == userID {
			row.revoked = true
		}
	}
	return nil
}

// ----- clients -----

type fakeClientStore struct {
	seq   uint64
	items []*repository.Client
}

func newFakeClientStore() *fakeClientStore { return &fakeClientStore{} }

func (f *fakeClientStore) Create(_ context.Context, c *repository.Client) error {
	f.seq++
	c.ID = f.seq
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	stored := *c
	f.items = append(f.items, &stored)
	return nil
}

func (f *fakeClientStore) GetByID(_ context.Context, id uint64) (*repository.Client, error) {
	for _, c := range f.items {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repository.ErrClientNotFound
}

func (f *fakeClientStore) ListByOwner(_ context.Context, ownerID uint64) ([]*repository.Client, error) {
	out := []*repository.Client{}
	for _, c := range f.items {
		if c.OwnerID == ownerID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeClientStore) Delete(_ context.Context, id uint64) error {
	for i, c := range f.items {
		if c.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return repository.ErrClientNotFound
}

func (f *fakeClientStore) CountByOwner(_ context.Context, ownerID uint64) (int64, error) {
	var n int64
	for _, c := range f.items {
		if c.OwnerID == ownerID {
			n++
		}
	}
	return n, nil
}

// ----- projects -----

type fakeProjectStore struct {
	seq   uint64
	items []*repository.Project
}

func newFakeProjectStore() *fakeProjectStore { return &fakeProjectStore{} }

func (f *fakeProjectStore) Create(_ context.Context, p *repository.Project) error {
	f.seq++
	p.ID = f.seq
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	stored := *p
	f.items = append(f.items, &stored)
	return nil
}

func (f *fakeProjectStore) GetByID(_ context.Context, id uint64) (*repository.Project, error) {
	for _, p := range f.items {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrProjectNotFound
}

func (f *fakeProjectStore) ListByOwner(_ context.Context, ownerID uint64) ([]*repository.Project, error) {
	out := []*repository.Project{}
	for _, p := range f.items {
		if p.OwnerID == ownerID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeProjectStore) Update(_ context.Context, p *repository.Project) error {
	for i, cur := range f.items {
		if cur.ID == p.ID {
			cp := *p
			cp.UpdatedAt = time.Now().UTC()
			f.items[i] = &cp
			return nil
		}
	}
	return repository.ErrProjectNotFound
}

func (f *fakeProjectStore) Delete(_ context.Context, id uint64) error {
	for i, p := range f.items {
		if p.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return repository.ErrProjectNotFound
}

func (f *fakeProjectStore) CountActiveByOwner(_ context.Context, ownerID uint64) (int64, error) {
	var n int64
	for _, p := range f.items {
		if p.OwnerID == ownerID && p.Status == repository.ProjectActive {
			n++
		}
	}
	return n, nil
}

// ----- payments -----

type fakePaymentStore struct {
	seq   uint64
	items []*repository.Payment
}

func newFakePaymentStore() *fakePaymentStore { return &fakePaymentStore{} }

func (f *fakePaymentStore) Create(_ context.Context, p *repository.Payment) error {
	f.seq++
	p.ID = f.seq
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	stored := *p
	f.items = append(f.items, &stored)
	return nil
}

func (f *fakePaymentStore) GetByID(_ context.Context, id uint64) (*repository.Payment, error) {
	for _, p := range f.items {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrPaymentNotFound
}

func (f *fakePaymentStore) ListByOwner(_ context.Context, ownerID uint64) ([]*repository.Payment, error) {
	out := []*repository.Payment{}
	for _, p := range f.items {
		if p.OwnerID == ownerID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakePaymentStore) Update(_ context.Context, p *repository.Payment) error {
	for i, cur := range f.items {
		if cur.ID == p.ID {
			cp := *p
			cp.UpdatedAt = time.Now().UTC()
			f.items[i] = &cp
			return nil
		}
	}
	return repository.ErrPaymentNotFound
}

func (f *fakePaymentStore) Delete(_ context.Context, id uint64) error {
	for i, p := range f.items {
		if p.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return repository.ErrPaymentNotFound
}

// ----- events -----

type fakePublisher struct {
	events []queue.PaymentPaidEvent
}

func (f *fakePublisher) PublishPaymentPaid(_ context.Context, ev queue.PaymentPaidEvent) error {
	f.events = append(f.events, ev)
	return nil
}
