package hashing

import "errors"

// Sentinel errors returned by hashing operations.
//
// Use [errors.Is] for comparisons:
//
//	_, err := hashing.Digest(password, alg, identity)
//	if errors.Is(err, hashing.ErrUnsupportedAlgorithm) {
//	    // the configured algorithm is not available
//	}
var (
	// ErrUnsupportedAlgorithm is returned when an algorithm name has no digest
	// function registered.  It signals misconfiguration; retrying will not help.
	ErrUnsupportedAlgorithm = errors.New("hashing: unsupported digest algorithm")

	// ErrEncoding is returned when the password cannot be mapped to bytes.
	// It is not expected for any string input.
	ErrEncoding = errors.New("hashing: failed to encode digest input")

	// ErrInvalidAlgorithm is returned by [ParseAlgorithm] when the external
	// form has an empty name or an unknown mode.
	ErrInvalidAlgorithm = errors.New("hashing: invalid algorithm descriptor")

	// ErrEmptyAlgorithmName is returned by [Registry.Register] when the
	// supplied name is an empty string.
	ErrEmptyAlgorithmName = errors.New("hashing: algorithm name must not be empty")

	// ErrNilDigestFunc is returned by [Registry.Register] when a nil
	// [DigestFunc] is supplied.
	ErrNilDigestFunc = errors.New("hashing: digest function must not be nil")
)
