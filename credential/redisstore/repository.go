// Package redisstore implements [credential.Repository] on Redis.
//
// Each credential is a hash at "<prefix>:credential:<identity>" with the
// fields "digest" and "algorithm".  The set "<prefix>:credentials" indexes
// every stored identity.  Writes run as Lua scripts so the hash and the index
// never disagree.
package redisstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/hasbyte1/go-credentials/credential"
)

// DefaultPrefix is the key prefix used when none is given.
const DefaultPrefix = "cred"

const (
	fieldDigest    = "digest"
	fieldAlgorithm = "algorithm"
)

const createScript = `
if redis.call("EXISTS", KEYS[1]) == 1 then
  return 0
end
redis.call("HSET", KEYS[1], "digest", ARGV[1], "algorithm", ARGV[2])
redis.call("SADD", KEYS[2], ARGV[3])
return 1
`

const updateScript = `
if redis.call("EXISTS", KEYS[1]) == 0 then
  return 0
end
redis.call("HSET", KEYS[1], "digest", ARGV[1], "algorithm", ARGV[2])
return 1
`

const deleteScript = `
local existed = redis.call("DEL", KEYS[1])
redis.call("SREM", KEYS[2], ARGV[1])
return existed
`

var (
	createLua = redis.NewScript(createScript)
	updateLua = redis.NewScript(updateScript)
	deleteLua = redis.NewScript(deleteScript)
)

var _ credential.Repository = (*Repository)(nil)

// Repository stores credential records in Redis.  It is safe for concurrent
// use.
type Repository struct {
	rdb    redis.UniversalClient
	prefix string
}

// New returns a repository using rdb.  An empty prefix means [DefaultPrefix].
func New(rdb redis.UniversalClient, prefix string) *Repository {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Repository{rdb: rdb, prefix: prefix}
}

func (r *Repository) key(identity string) string {
	return r.prefix + ":credential:" + identity
}

func (r *Repository) indexKey() string {
	return r.prefix + ":credentials"
}

// Create stores a new record.  Returns [credential.ErrAlreadyExists] when the
// identity is already stored.
func (r *Repository) Create(ctx context.Context, rec credential.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	created, err := createLua.Run(ctx, r.rdb,
		[]string{r.key(rec.Identity), r.indexKey()},
		rec.Digest, rec.Algorithm, rec.Identity,
	).Int64()
	if err != nil {
		return fmt.Errorf("redisstore: failed to create %q: %w", rec.Identity, err)
	}
	if created == 0 {
		return credential.ErrAlreadyExists
	}

	return nil
}

// Find returns the record for identity.
func (r *Repository) Find(ctx context.Context, identity string) (credential.Record, error) {
	fields, err := r.rdb.HGetAll(ctx, r.key(identity)).Result()
	if err != nil {
		return credential.Record{}, fmt.Errorf("redisstore: failed to find %q: %w", identity, err)
	}

	return recordFromHash(identity, fields)
}

// Update replaces the digest and algorithm of an existing record in one
// write.
func (r *Repository) Update(ctx context.Context, rec credential.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	updated, err := updateLua.Run(ctx, r.rdb,
		[]string{r.key(rec.Identity)},
		rec.Digest, rec.Algorithm,
	).Int64()
	if err != nil {
		return fmt.Errorf("redisstore: failed to update %q: %w", rec.Identity, err)
	}
	if updated == 0 {
		return credential.ErrNotFound
	}

	return nil
}

// Delete removes the record for identity.
func (r *Repository) Delete(ctx context.Context, identity string) error {
	deleted, err := deleteLua.Run(ctx, r.rdb,
		[]string{r.key(identity), r.indexKey()},
		identity,
	).Int64()
	if err != nil {
		return fmt.Errorf("redisstore: failed to delete %q: %w", identity, err)
	}
	if deleted == 0 {
		return credential.ErrNotFound
	}

	return nil
}

// List returns every indexed record.  Identities whose hash vanished between
// reading the index and the hashes are skipped.
func (r *Repository) List(ctx context.Context) ([]credential.Record, error) {
	identities, err := r.rdb.SMembers(ctx, r.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("redisstore: failed to list: %w", err)
	}
	if len(identities) == 0 {
		return nil, nil
	}

	cmds := make([]*redis.MapStringStringCmd, len(identities))
	_, err = r.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range identities {
			cmds[i] = pipe.HGetAll(ctx, r.key(id))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("redisstore: failed to list: %w", err)
	}

	records := make([]credential.Record, 0, len(identities))
	for i, cmd := range cmds {
		rec, err := recordFromHash(identities[i], cmd.Val())
		if errors.Is(err, credential.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, nil
}

// Count returns the number of indexed identities.
func (r *Repository) Count(ctx context.Context) (int, error) {
	n, err := r.rdb.SCard(ctx, r.indexKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("redisstore: failed to count: %w", err)
	}
	return int(n), nil
}

func recordFromHash(identity string, fields map[string]string) (credential.Record, error) {
	if len(fields) == 0 {
		return credential.Record{}, credential.ErrNotFound
	}

	alg, ok := fields[fieldAlgorithm]
	if !ok {
		return credential.Record{}, fmt.Errorf("%w: %q has no algorithm field", credential.ErrInvalidRecord, identity)
	}

	return credential.Record{
		Identity:  identity,
		Digest:    fields[fieldDigest],
		Algorithm: alg,
	}, nil
}
