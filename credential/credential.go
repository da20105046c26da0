package credential

import (
	"crypto/subtle"
	"fmt"
	"sync"

	"github.com/hasbyte1/go-credentials/hashing"
)

// Digester produces stored-digest strings.  [*hashing.Registry] satisfies it.
type Digester interface {
	Digest(password string, alg hashing.Algorithm, salt string) (string, error)
}

// Option configures a [Credential].
type Option func(*Credential)

// WithDigester sets the digester used to compute digests.
// The default is [hashing.DefaultRegistry].
func WithDigester(d Digester) Option {
	return func(c *Credential) {
		if d != nil {
			c.digester = d
		}
	}
}

// Credential is a password held as a digest of its identity and password.
//
// The stored digest and the verify algorithm always change together under
// one lock, so a reader never sees a digest paired with the wrong algorithm.
// A Credential is safe for concurrent use.
type Credential struct {
	identity  Identity
	preferred hashing.Algorithm
	digester  Digester

	mu        sync.RWMutex
	digest    string
	hasDigest bool
	verify    hashing.Algorithm
}

// New returns a credential with no password yet.  Verify rejects every
// input until ChangePassword succeeds.
//
// New panics if id is nil.
func New(id Identity, verify, preferred hashing.Algorithm, opts ...Option) *Credential {
	if id == nil {
		panic("credential: nil identity")
	}

	c := &Credential{
		identity:  id,
		preferred: preferred,
		digester:  hashing.DefaultRegistry,
		verify:    verify,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Restore returns a credential reconstituted from a stored digest that was
// produced with verify.  An empty digest is treated as no password.
// Like New, it panics if id is nil.
func Restore(id Identity, digest string, verify, preferred hashing.Algorithm, opts ...Option) *Credential {
	c := New(id, verify, preferred, opts...)
	c.digest = digest
	c.hasDigest = digest != ""
	return c
}

// Identity returns the identity the credential belongs to.
func (c *Credential) Identity() Identity { return c.identity }

// PreferredAlgorithm returns the algorithm used on the next password change.
func (c *Credential) PreferredAlgorithm() hashing.Algorithm { return c.preferred }

// StoredDigest returns the current digest, and false when no password is set.
func (c *Credential) StoredDigest() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.digest, c.hasDigest
}

// VerifyAlgorithm returns the algorithm that produced the stored digest.
func (c *Credential) VerifyAlgorithm() hashing.Algorithm {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.verify
}

// HasPassword reports whether a digest is stored.
func (c *Credential) HasPassword() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hasDigest
}

// NeedsMigration reports whether the stored digest was produced with an
// algorithm other than the preferred one.  It becomes false after the next
// successful ChangePassword.
func (c *Credential) NeedsMigration() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.verify.Equal(c.preferred)
}

// Record returns a consistent snapshot of the credential for persistence.
func (c *Credential) Record() Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Record{
		Identity:  c.identity.String(),
		Digest:    c.digest,
		Algorithm: c.verify.String(),
	}
}

// Verify reports whether password matches the stored digest.
//
// A credential without a password never matches.  A mismatch is (false, nil);
// an error means the digest could not be computed (typically
// [hashing.ErrUnsupportedAlgorithm]) and must not be read as a wrong password.
func (c *Credential) Verify(password string) (bool, error) {
	c.mu.RLock()
	stored, ok, alg := c.digest, c.hasDigest, c.verify
	c.mu.RUnlock()

	if !ok {
		return false, nil
	}

	guess, err := c.digester.Digest(password, alg, c.identity.String())
	if err != nil {
		return false, fmt.Errorf("credential: failed to verify password of %q: %w", c.identity, err)
	}

	return subtle.ConstantTimeCompare([]byte(guess), []byte(stored)) == 1, nil
}

// ChangePassword stores the digest of newPassword under the preferred
// algorithm and makes it the verify algorithm.
//
// On error the credential is left unchanged.  Password policy is the
// caller's concern; any string, including the empty one, is accepted.
func (c *Credential) ChangePassword(newPassword string) error {
	digest, err := c.digester.Digest(newPassword, c.preferred, c.identity.String())
	if err != nil {
		return fmt.Errorf("credential: failed to change password of %q: %w", c.identity, err)
	}

	c.mu.Lock()
	c.digest = digest
	c.hasDigest = true
	c.verify = c.preferred
	c.mu.Unlock()

	return nil
}
