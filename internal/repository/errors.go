// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to perform an operation on a resource owned by
// someone else, while ErrUsernameExists signals that a signup
// collides with an existing account.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// on a todo they do not own. Handlers should translate this
// into an HTTP 403 response. Ownership is only checked after the
// record is known to exist, so a missing record never surfaces
// as ErrForbidden.
var ErrForbidden = errors.New("forbidden")

// ErrTodoNotFound is returned when a todo with the requested id
// does not exist. Handlers should translate this into an HTTP
// 404 response.
var ErrTodoNotFound = errors.New("todo not found")

// ErrUsernameExists is returned when an account with the same
// username already exists. Handlers should translate this into
// an HTTP 409 response.
var ErrUsernameExists = errors.New("username already exists")

// ErrEmailExists is returned when an account with the same email
// already exists.
var ErrEmailExists = errors.New("email already exists")
