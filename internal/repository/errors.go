// Package repository defines the storefront API's data access layer and the
// error types shared by every backend. These sentinel values let handlers
// distinguish failure scenarios without knowing which backend is in use.
// For example, ErrForbidden indicates that the current user may not touch
// a resource owned by someone else, while ErrConflict signals that an
// operation cannot proceed because of existing state (e.g. putting more
// units of a product into a cart than are in stock).
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a write cannot be performed because of
// conflicting state. Handlers should translate this into an HTTP 409
// response.
var ErrConflict = errors.New("conflict")

// ErrNotFound is returned when a product, cart item or user does not exist.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned by user creation for a taken email.
var ErrEmailExists = errors.New("email already exists")
