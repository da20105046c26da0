// Package hashing turns passwords into the printable digest strings stored on
// a credential record.
//
// # Architecture
//
// Two pieces work together:
//
//   - [Algorithm]: an immutable descriptor naming a digest function plus two
//     traits: whether the identity is used as a salt, and the historical
//     "legacy" encoding flag.
//   - [Registry]: a thread-safe catalog mapping algorithm names to digest
//     constructors.  [NewDefaultRegistry] registers the MD, SHA-1, SHA-2,
//     SHA-3, RIPEMD-160 and BLAKE2b families under their conventional names.
//
// [Registry.Digest] (and the package-level [Digest], which uses
// [DefaultRegistry]) is the only way a digest string is produced.
//
// # Quick start
//
//	alg := hashing.MustParseAlgorithm("SHA-512/salted")
//	stored, err := hashing.Digest("hunter2", alg, "alice")
//	if err != nil { log.Fatal(err) }
//
// # Digest format
//
// The digest string is computed as:
//
//  1. input = identity + password when the algorithm is salted, else password;
//  2. input is encoded to ISO-8859-1 bytes, one byte per character, with any
//     character outside Latin-1 replaced by '?';
//  3. the named digest function runs over those bytes;
//  4. the raw digest is encoded with standard, padded base64 and no line breaks.
//
// The byte mapping in step 2 is part of the stored format: digests produced
// by other implementations of the same scheme only match when it is kept.
//
// The legacy flag is carried for configuration and storage round trips and
// does not change the output.
//
// # Errors
//
// An algorithm name missing from the registry yields [ErrUnsupportedAlgorithm].
// It is a configuration error and is never reported as a password mismatch.
package hashing
