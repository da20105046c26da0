package credential

import (
	"fmt"

	"github.com/hasbyte1/go-credentials/hashing"
)

// Record is the persisted form of a [Credential].
//
// Digest is empty for a credential with no password yet.  Algorithm is the
// external form of the verify algorithm (see [hashing.ParseAlgorithm]); the
// preferred algorithm is configuration and is not stored.
type Record struct {
	Identity  string
	Digest    string
	Algorithm string
}

// FromRecord rebuilds a credential from its persisted form.
func FromRecord(rec Record, preferred hashing.Algorithm, opts ...Option) (*Credential, error) {
	if rec.Identity == "" {
		return nil, fmt.Errorf("%w: empty identity", ErrInvalidRecord)
	}

	verify, err := hashing.ParseAlgorithm(rec.Algorithm)
	if err != nil {
		return nil, fmt.Errorf("credential: failed to parse algorithm of %q: %w", rec.Identity, err)
	}

	return Restore(Username(rec.Identity), rec.Digest, verify, preferred, opts...), nil
}

// Validate reports whether r can be stored.  Repository adapters call it
// before writing.
func (r Record) Validate() error {
	if r.Identity == "" {
		return fmt.Errorf("%w: empty identity", ErrInvalidRecord)
	}
	if r.Algorithm == "" {
		return fmt.Errorf("%w: empty algorithm for %q", ErrInvalidRecord, r.Identity)
	}
	return nil
}
