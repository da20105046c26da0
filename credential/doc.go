// Package credential holds a password as a digest and verifies login
// attempts against it.
//
// A [Credential] tracks two [hashing.Algorithm] values: the verify algorithm
// that produced the stored digest, and the preferred algorithm new digests
// are produced with.  A credential whose two algorithms differ is stale; it
// keeps verifying under its old algorithm and moves to the preferred one the
// next time its password changes.  Nothing re-hashes in the background.
//
// Persistence is delegated to a [Repository], which stores the [Record] form
// of a credential.  Reference adapters live in the inmemory, redisstore and
// pgstore sub-packages.  [Service] ties a Repository to the credential
// operations for callers that work with identities rather than loaded
// credentials.
package credential
