package credential

import "errors"

var (
	// ErrNotFound is returned by a [Repository] when no record exists for an identity.
	ErrNotFound = errors.New("credential: not found")

	// ErrAlreadyExists is returned by [Repository.Create] when a record for the
	// identity is already stored.
	ErrAlreadyExists = errors.New("credential: already exists")

	// ErrInvalidRecord is returned when a [Record] cannot be stored or turned
	// back into a [Credential], e.g. because its identity is empty.
	ErrInvalidRecord = errors.New("credential: invalid record")
)
