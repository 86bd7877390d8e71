// Package repository defines error values shared across repositories.
// Sentinel errors let handlers distinguish failure scenarios: a missing
// record maps to HTTP 404 while touching a record owned by another user
// maps to HTTP 401 per the API contract.
package repository

import "errors"

// ErrNotOwner is returned when the caller attempts an operation on a
// record they do not own.
var ErrNotOwner = errors.New("not owner")

// ErrEmailExists is returned when registration hits the unique email index.
var ErrEmailExists = errors.New("email already exists")
