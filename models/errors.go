package models

import "errors"

// ErrNotFound marks a referenced patient/package/session/transaction that is
// missing or already soft-deleted. Stores return it so callers can map it to
// a 404 without knowing the storage engine.
var ErrNotFound = errors.New("record not found")
