// Package credentialtest holds the conformance checks every
// credential.Repository adapter runs in its tests.
package credentialtest

import (
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hasbyte1/go-credentials/credential"
)

// Record returns a record for identity with a fixed digest and algorithm.
func Record(identity string) credential.Record {
	return credential.Record{
		Identity:  identity,
		Digest:    "u23i+geJLzSw4fYt+I8zhA==",
		Algorithm: "MD5/salted",
	}
}

// RunRepository runs the shared checks against repositories built by
// newRepo.  Each subtest gets a fresh, empty repository.
func RunRepository(t *testing.T, newRepo func(t *testing.T) credential.Repository) {
	t.Helper()

	t.Run("create and find", func(t *testing.T) {
		ctx := t.Context()
		repo := newRepo(t)

		require.NoError(t, repo.Create(ctx, Record("alice")))

		got, err := repo.Find(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, Record("alice"), got)
	})

	t.Run("create duplicate", func(t *testing.T) {
		ctx := t.Context()
		repo := newRepo(t)

		require.NoError(t, repo.Create(ctx, Record("alice")))

		err := repo.Create(ctx, Record("alice"))
		require.ErrorIs(t, err, credential.ErrAlreadyExists)
	})

	t.Run("create invalid", func(t *testing.T) {
		ctx := t.Context()
		repo := newRepo(t)

		err := repo.Create(ctx, credential.Record{Algorithm: "MD5"})
		require.ErrorIs(t, err, credential.ErrInvalidRecord)
	})

	t.Run("create without password", func(t *testing.T) {
		ctx := t.Context()
		repo := newRepo(t)
		rec := credential.Record{Identity: "carol", Algorithm: "SHA-512/salted"}

		require.NoError(t, repo.Create(ctx, rec))

		got, err := repo.Find(ctx, "carol")
		require.NoError(t, err)
		assert.Empty(t, got.Digest)
		assert.Equal(t, "SHA-512/salted", got.Algorithm)
	})

	t.Run("find missing", func(t *testing.T) {
		_, err := newRepo(t).Find(t.Context(), "nobody")
		require.ErrorIs(t, err, credential.ErrNotFound)
	})

	t.Run("update", func(t *testing.T) {
		ctx := t.Context()
		repo := newRepo(t)
		require.NoError(t, repo.Create(ctx, Record("alice")))

		updated := credential.Record{
			Identity:  "alice",
			Digest:    "/7FN/IbQ9WwjKgbr0AneE0S0vqR76ryD/X0D8dM7qGdDlAZPcTqK2FB0wCUz5H5amR9YfKHG5ZBjOEv2RZwRlw==",
			Algorithm: "SHA-512/salted",
		}
		require.NoError(t, repo.Update(ctx, updated))

		got, err := repo.Find(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, updated, got)
	})

	t.Run("update missing", func(t *testing.T) {
		err := newRepo(t).Update(t.Context(), Record("nobody"))
		require.ErrorIs(t, err, credential.ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		ctx := t.Context()
		repo := newRepo(t)
		require.NoError(t, repo.Create(ctx, Record("alice")))

		require.NoError(t, repo.Delete(ctx, "alice"))

		_, err := repo.Find(ctx, "alice")
		require.ErrorIs(t, err, credential.ErrNotFound)
		require.ErrorIs(t, repo.Delete(ctx, "alice"), credential.ErrNotFound)
	})

	t.Run("list and count", func(t *testing.T) {
		ctx := t.Context()
		repo := newRepo(t)

		n, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)

		for _, id := range []string{"alice", "bob", "carol"} {
			require.NoError(t, repo.Create(ctx, Record(id)))
		}

		n, err = repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, n)

		records, err := repo.List(ctx)
		require.NoError(t, err)
		ids := make([]string, 0, len(records))
		for _, rec := range records {
			ids = append(ids, rec.Identity)
		}
		sort.Strings(ids)
		assert.Equal(t, []string{"alice", "bob", "carol"}, ids)
	})

	t.Run("concurrent create", func(t *testing.T) {
		ctx := t.Context()
		repo := newRepo(t)
		const goroutines = 16

		var wg sync.WaitGroup
		wg.Add(goroutines)
		for i := range goroutines {
			go func() {
				defer wg.Done()
				assert.NoError(t, repo.Create(ctx, Record(fmt.Sprintf("user-%d", i))))
			}()
		}
		wg.Wait()

		n, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, goroutines, n)
	})
}
