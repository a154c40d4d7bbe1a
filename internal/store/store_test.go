package store

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testDoc struct {
	ID    string `json:"id"`
	Value int    `json:"value"`
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newSQLiteStore opens an in-memory database for one test.
func newSQLiteStore(t *testing.T) *SQLStore {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	st, err := newSQLStore(db, testLogger())
	require.NoError(t, err)
	return st
}

// newRedisStore backs the redis implementation with miniredis.
func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client, "plaza", testLogger()), mr
}

// backends runs a subtest against every store implementation.
func backends(t *testing.T, fn func(t *testing.T, st Store)) {
	t.Run("memory", func(t *testing.T) { fn(t, NewMemoryStore()) })
	t.Run("sqlite", func(t *testing.T) { fn(t, newSQLiteStore(t)) })
	t.Run("redis", func(t *testing.T) {
		st, _ := newRedisStore(t)
		fn(t, st)
	})
}

func TestStoreRoundTrip(t *testing.T) {
	backends(t, func(t *testing.T, st Store) {
		ctx := context.Background()
		in := []testDoc{{ID: "a", Value: 1}, {ID: "b", Value: 2}}
		require.NoError(t, st.Save(ctx, CollectionPosts, in))

		var out []testDoc
		require.NoError(t, st.Load(ctx, CollectionPosts, &out))
		assert.Equal(t, in, out)

		// saving replaces the whole collection
		require.NoError(t, st.Save(ctx, CollectionPosts, in[:1]))
		out = nil
		require.NoError(t, st.Load(ctx, CollectionPosts, &out))
		assert.Equal(t, in[:1], out)
	})
}

func TestStoreLoadAbsent(t *testing.T) {
	backends(t, func(t *testing.T, st Store) {
		var out []testDoc
		require.NoError(t, st.Load(context.Background(), CollectionUsers, &out))
		assert.Nil(t, out)
	})
}

func TestStoreDelete(t *testing.T) {
	backends(t, func(t *testing.T, st Store) {
		ctx := context.Background()
		require.NoError(t, st.Save(ctx, CollectionUsers, []testDoc{{ID: "a"}}))
		require.NoError(t, st.Delete(ctx, CollectionUsers))

		var out []testDoc
		require.NoError(t, st.Load(ctx, CollectionUsers, &out))
		assert.Nil(t, out)

		// deleting an absent collection is not an error
		require.NoError(t, st.Delete(ctx, CollectionUsers))
	})
}

func TestStoreCollections(t *testing.T) {
	backends(t, func(t *testing.T, st Store) {
		ctx := context.Background()
		require.NoError(t, st.Save(ctx, CollectionUsers, []testDoc{}))
		require.NoError(t, st.Save(ctx, CollectionGalleries, []testDoc{}))

		names, err := st.Collections(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{CollectionUsers, CollectionGalleries}, names)
	})
}

func TestMemoryStoreCorruptPayload(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	require.NoError(t, st.Save(ctx, CollectionPosts, []testDoc{{ID: "a"}}))
	st.Corrupt(CollectionPosts)

	// corrupt payloads read as empty, never as an error
	var out []testDoc
	require.NoError(t, st.Load(ctx, CollectionPosts, &out))
	assert.Nil(t, out)
}

func TestRedisStoreCorruptPayload(t *testing.T) {
	ctx := context.Background()
	st, mr := newRedisStore(t)
	require.NoError(t, mr.Set("plaza:posts", "{not json"))

	var out []testDoc
	require.NoError(t, st.Load(ctx, CollectionPosts, &out))
	assert.Nil(t, out)
}

func TestRedisStoreNamespacing(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	first := NewRedisStore(client, "one", testLogger())
	second := NewRedisStore(client, "two", testLogger())
	require.NoError(t, first.Save(ctx, CollectionUsers, []testDoc{{ID: "a"}}))

	var out []testDoc
	require.NoError(t, second.Load(ctx, CollectionUsers, &out))
	assert.Nil(t, out)

	names, err := first.Collections(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{CollectionUsers}, names)
}
