package hashing

import (
	"fmt"
	"strings"
)

// Mode is the salting/encoding suffix of an algorithm's external form.
type Mode string

const (
	// ModePlain digests the password alone.
	ModePlain Mode = "plain"
	// ModeSalted prefixes the identity to the password before digesting.
	ModeSalted Mode = "salted"
	// ModeLegacy is ModePlain with the legacy encoding flag set.
	ModeLegacy Mode = "legacy"
	// ModeLegacySalted is ModeSalted with the legacy encoding flag set.
	ModeLegacySalted Mode = "legacy-salted"
)

// Algorithm describes how a stored digest was, or will be, produced.
//
// Algorithm is a small comparable value; copies are independent and it has
// no mutating methods.  The zero value has an empty name and is rejected by
// every [Registry].
type Algorithm struct {
	name   string
	salted bool
	legacy bool
}

// NewAlgorithm returns a descriptor for the digest function name.
//
// name is kept as given; registries resolve it case-insensitively.
func NewAlgorithm(name string, salted, legacy bool) Algorithm {
	return Algorithm{name: name, salted: salted, legacy: legacy}
}

// Name returns the digest function identifier, e.g. "SHA-512".
func (a Algorithm) Name() string { return a.name }

// Salted reports whether the identity is prefixed to the password.
func (a Algorithm) Salted() bool { return a.salted }

// Legacy reports whether the descriptor carries the legacy encoding flag.
// The flag does not change digest output.
func (a Algorithm) Legacy() bool { return a.legacy }

// Mode returns the [Mode] matching the descriptor's traits.
func (a Algorithm) Mode() Mode {
	switch {
	case a.legacy && a.salted:
		return ModeLegacySalted
	case a.legacy:
		return ModeLegacy
	case a.salted:
		return ModeSalted
	default:
		return ModePlain
	}
}

// IsZero reports whether a is the zero Algorithm.
func (a Algorithm) IsZero() bool { return a == Algorithm{} }

// Equal reports whether a and other describe the same digest scheme.
// Names are compared case-insensitively.
func (a Algorithm) Equal(other Algorithm) bool {
	return strings.EqualFold(a.name, other.name) &&
		a.salted == other.salted &&
		a.legacy == other.legacy
}

// String returns the external form "NAME/MODE", which [ParseAlgorithm]
// accepts.
func (a Algorithm) String() string {
	return a.name + "/" + string(a.Mode())
}

// ParseAlgorithm parses the external form of an algorithm descriptor:
//
//	SHA-512/salted
//	MD5/legacy
//	SHA-1            (no mode means plain)
//
// The last "/" separates the mode only when the suffix is a known mode, so
// names such as "SHA-512/256" parse as plain algorithms.  Surrounding
// whitespace is ignored.  Support for the name is not checked here; see
// [Registry.Validate].
func ParseAlgorithm(s string) (Algorithm, error) {
	s = strings.TrimSpace(s)
	name, mode := s, ModePlain

	if i := strings.LastIndexByte(s, '/'); i >= 0 {
		if m, ok := parseMode(s[i+1:]); ok {
			name, mode = s[:i], m
		} else if !looksLikeDigestSuffix(s[i+1:]) {
			return Algorithm{}, fmt.Errorf("%w: unknown mode %q in %q", ErrInvalidAlgorithm, s[i+1:], s)
		}
	}

	if name == "" {
		return Algorithm{}, fmt.Errorf("%w: empty algorithm name in %q", ErrInvalidAlgorithm, s)
	}

	return Algorithm{
		name:   name,
		salted: mode == ModeSalted || mode == ModeLegacySalted,
		legacy: mode == ModeLegacy || mode == ModeLegacySalted,
	}, nil
}

// MustParseAlgorithm is like [ParseAlgorithm] but panics on error.
// It is intended for package-level defaults and tests.
func MustParseAlgorithm(s string) Algorithm {
	a, err := ParseAlgorithm(s)
	if err != nil {
		panic(err)
	}
	return a
}

func parseMode(s string) (Mode, bool) {
	switch m := Mode(strings.ToLower(s)); m {
	case ModePlain, ModeSalted, ModeLegacy, ModeLegacySalted:
		return m, true
	default:
		return "", false
	}
}

// looksLikeDigestSuffix reports whether s is the numeric tail of a truncated
// digest name such as "SHA-512/224".
func looksLikeDigestSuffix(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
