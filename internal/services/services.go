// Package services exposes the typed operations of the Lost & Found REST
// backend: validation before the wire, permission preconditions, and the
// claim/report lifecycle rules the console enforces locally.
package services

import "errors"

// Sessioner is the slice of the session manager the services need: the
// caller's identity and granted capability set.
type Sessioner interface {
	CurrentUserID() int64
	HasPermission(perm string) bool
}

// ErrPermissionDenied is returned when the active session lacks the
// capability an operation requires.
var ErrPermissionDenied = errors.New("permission denied")

// ErrNotAuthenticated is returned when an operation requires a signed-in
// user and the session is absent or expired.
var ErrNotAuthenticated = errors.New("not authenticated")
