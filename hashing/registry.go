package hashing

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"slices"
	"strings"
	"sync"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/md4"      //nolint:staticcheck // historical stored digests
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // historical stored digests
	"golang.org/x/crypto/sha3"
)

// DigestFunc returns a fresh [hash.Hash] for one digest computation.
type DigestFunc func() hash.Hash

// Registry is a thread-safe catalog of digest functions keyed by algorithm
// name.
//
// Names are matched case-insensitively, so "sha-256" and "SHA-256" resolve
// to the same entry.  An alias shares its target's [DigestFunc] and is not
// listed by [Registry.Names].
//
// # Thread safety
//
// All Registry methods are safe for concurrent use by multiple goroutines.
// A [sync.RWMutex] serialises writes (Register, Alias) while allowing
// concurrent reads (New, Digest, etc.).
type Registry struct {
	mu      sync.RWMutex
	entries map[string]registryEntry
}

type registryEntry struct {
	name  string
	fn    DigestFunc
	alias bool
}

// DefaultRegistry is the registry used by the package-level [Digest].
//
//nolint:gochecknoglobals
var DefaultRegistry = NewDefaultRegistry()

// NewRegistry creates an empty Registry.
//
// Use [NewDefaultRegistry] for the variant with all built-in digest
// functions registered.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]registryEntry)}
}

// NewDefaultRegistry creates a Registry with the built-in digest functions
// registered under their conventional names:
//
//	MD4 MD5 SHA-1 SHA-224 SHA-256 SHA-384 SHA-512 SHA-512/224 SHA-512/256
//	SHA3-224 SHA3-256 SHA3-384 SHA3-512 RIPEMD160 BLAKE2B-256 BLAKE2B-512
//
// plus the aliases SHA, SHA1, SHA256, SHA384 and SHA512.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	_ = r.Register("MD4", md4.New)
	_ = r.Register("MD5", md5.New)
	_ = r.Register("SHA-1", sha1.New)
	_ = r.Register("SHA-224", sha256.New224)
	_ = r.Register("SHA-256", sha256.New)
	_ = r.Register("SHA-384", sha512.New384)
	_ = r.Register("SHA-512", sha512.New)
	_ = r.Register("SHA-512/224", sha512.New512_224)
	_ = r.Register("SHA-512/256", sha512.New512_256)
	_ = r.Register("SHA3-224", sha3.New224)
	_ = r.Register("SHA3-256", sha3.New256)
	_ = r.Register("SHA3-384", sha3.New384)
	_ = r.Register("SHA3-512", sha3.New512)
	_ = r.Register("RIPEMD160", ripemd160.New)
	_ = r.Register("BLAKE2B-256", unkeyed(blake2b.New256))
	_ = r.Register("BLAKE2B-512", unkeyed(blake2b.New512))

	_ = r.Alias("SHA", "SHA-1")
	_ = r.Alias("SHA1", "SHA-1")
	_ = r.Alias("SHA256", "SHA-256")
	_ = r.Alias("SHA384", "SHA-384")
	_ = r.Alias("SHA512", "SHA-512")
	return r
}

// Register adds or replaces the digest function for name.
// It is safe to call Register while other goroutines are using the Registry.
func (r *Registry) Register(name string, fn DigestFunc) error {
	if name == "" {
		return ErrEmptyAlgorithmName
	}
	if fn == nil {
		return ErrNilDigestFunc
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[registryKey(name)] = registryEntry{name: name, fn: fn}
	return nil
}

// Alias makes alias resolve to the digest function registered as target.
// The target must already be registered.
func (r *Registry) Alias(alias, target string) error {
	if alias == "" {
		return ErrEmptyAlgorithmName
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[registryKey(target)]
	if !ok {
		return fmt.Errorf("%w: %q is not registered; call Register first",
			ErrUnsupportedAlgorithm, target)
	}
	r.entries[registryKey(alias)] = registryEntry{name: e.name, fn: e.fn, alias: true}
	return nil
}

// Has reports whether a digest function is registered under name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[registryKey(name)]
	return ok
}

// Names returns the registered algorithm names, aliases excluded, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		if !e.alias {
			out = append(out, e.name)
		}
	}
	slices.Sort(out)
	return out
}

// New returns a fresh [hash.Hash] for name, or [ErrUnsupportedAlgorithm]
// if no digest function has been registered under it.
func (r *Registry) New(name string) (hash.Hash, error) {
	r.mu.RLock()
	e, ok := r.entries[registryKey(name)]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, name)
	}
	return e.fn(), nil
}

// Validate returns [ErrUnsupportedAlgorithm] when alg cannot be digested by r.
// Call it at startup to surface misconfiguration before the first login.
func (r *Registry) Validate(alg Algorithm) error {
	if !r.Has(alg.Name()) {
		return fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, alg.Name())
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Internal helpers
// ──────────────────────────────────────────────────────────────────────────────

func registryKey(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// unkeyed adapts a keyed constructor such as [blake2b.New256] to a
// [DigestFunc].  A nil key never fails.
func unkeyed(fn func(key []byte) (hash.Hash, error)) DigestFunc {
	return func() hash.Hash {
		h, err := fn(nil)
		if err != nil {
			panic(fmt.Sprintf("hashing: unkeyed digest constructor failed: %v", err))
		}
		return h
	}
}
