package catalog

import "errors"

// Typed failures surfaced by the publish/import engine. Handlers map these
// to HTTP statuses; anything else means the transaction rolled back and the
// caller gets a 500.
var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")

	// validation
	ErrDeckEmpty     = errors.New("deck has no cards")
	ErrPublishBanned = errors.New("user is banned from publishing")

	// conflicts
	ErrNoChanges    = errors.New("nothing new to publish")
	ErrAlreadyOwned = errors.New("already own this deck")
	ErrUpToDate     = errors.New("already up to date")

	// another writer got there first; the caller should retry
	ErrVersionConflict = errors.New("published deck was modified concurrently")
)
