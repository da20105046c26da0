package credential

import "context"

// Repository defines the persistence operations for credential [Record]s.
// Callers provide an implementation for their storage backend; the
// inmemory, redisstore and pgstore sub-packages are reference adapters.
//
// Implementations must be safe for concurrent use and must write a record's
// Digest and Algorithm together.
type Repository interface {
	// Create persists a new record.
	// Returns [ErrAlreadyExists] when the identity is already stored.
	Create(ctx context.Context, rec Record) error

	// Find retrieves the record for identity.
	// Returns [ErrNotFound] when no matching record exists.
	Find(ctx context.Context, identity string) (Record, error)

	// Update replaces the digest and algorithm of an existing record.
	// Returns [ErrNotFound] when no matching record exists.
	Update(ctx context.Context, rec Record) error

	// Delete removes the record for identity.
	// Returns [ErrNotFound] when no matching record exists.
	Delete(ctx context.Context, identity string) error

	// List returns every stored record in no particular order.
	List(ctx context.Context) ([]Record, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)
}
