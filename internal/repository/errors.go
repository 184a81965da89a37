package repository

// Sentinel errors shared across repositories so handlers can map failures
// onto user-visible outcomes without inspecting driver error strings:
// duplicate usernames become a 409, vanished rows become a 404.

import "errors"

// ErrUsernameExists is returned when an insert or rename collides with an
// existing username. The accounts table enforces uniqueness.
var ErrUsernameExists = errors.New("username already exists")

// ErrAccountNotFound is returned when an account id no longer exists, for
// example after a concurrent delete from another session.
var ErrAccountNotFound = errors.New("account not found")

// ErrRecordNotFound is returned when an energy record id no longer exists.
// Update and delete check affected rows so a stale selection is reported
// instead of silently doing nothing.
var ErrRecordNotFound = errors.New("record not found")
