package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 各実装に同じテストを流す
func implementations(t *testing.T) map[string]Storage {
	t.Helper()

	sqlite, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "db", "users.db"))
	require.NoError(t, err)

	impls := map[string]Storage{
		"memory": NewMemStorage(),
		"sqlite": sqlite,
	}
	for _, s := range impls {
		s := s
		t.Cleanup(func() { _ = s.Close() })
	}
	return impls
}

func TestStorage_CreateAndGet(t *testing.T) {
	ctx := context.Background()

	for name, s := range implementations(t) {
		t.Run(name, func(t *testing.T) {
			created, err := s.CreateUser(ctx, InsertUser{Username: "alice", Password: "secret"})
			require.NoError(t, err)
			assert.NotEmpty(t, created.ID)
			assert.Equal(t, "alice", created.Username)

			byID, err := s.GetUser(ctx, created.ID)
			require.NoError(t, err)
			assert.Equal(t, created, byID)

			byName, err := s.GetUserByUsername(ctx, "alice")
			require.NoError(t, err)
			assert.Equal(t, created, byName)

			count, err := s.CountUsers(ctx)
			require.NoError(t, err)
			assert.Equal(t, 1, count)
		})
	}
}

func TestStorage_NotFound(t *testing.T) {
	ctx := context.Background()

	for name, s := range implementations(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.GetUser(ctx, "missing")
			assert.ErrorIs(t, err, ErrNotFound)

			_, err = s.GetUserByUsername(ctx, "nobody")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStorage_DuplicateUsername(t *testing.T) {
	ctx := context.Background()

	for name, s := range implementations(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.CreateUser(ctx, InsertUser{Username: "bob", Password: "a"})
			require.NoError(t, err)

			_, err = s.CreateUser(ctx, InsertUser{Username: "bob", Password: "b"})
			assert.ErrorIs(t, err, ErrDuplicateUsername)

			count, err := s.CountUsers(ctx)
			require.NoError(t, err)
			assert.Equal(t, 1, count)
		})
	}
}

func TestStorage_EmptyUsername(t *testing.T) {
	ctx := context.Background()

	for name, s := range implementations(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.CreateUser(ctx, InsertUser{Password: "x"})
			assert.Error(t, err)
		})
	}
}

func TestStorage_Ping(t *testing.T) {
	for name, s := range implementations(t) {
		t.Run(name, func(t *testing.T) {
			assert.NoError(t, s.Ping(context.Background()))
		})
	}
}

func TestMemStorage_ConcurrentCreate(t *testing.T) {
	ctx := context.Background()
	s := NewMemStorage()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.CreateUser(ctx, InsertUser{Username: fmt.Sprintf("user-%d", i)})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	count, err := s.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 50, count)
}

func TestSQLiteStorage_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "users.db")

	s, err := NewSQLiteStorage(path)
	require.NoError(t, err)
	created, err := s.CreateUser(ctx, InsertUser{Username: "carol", Password: "pw"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// マイグレーションは再適用されない
	s, err = NewSQLiteStorage(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.GetUserByUsername(ctx, "carol")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "pw", got.Password)
}

func TestOpen(t *testing.T) {
	mem, err := Open("")
	require.NoError(t, err)
	assert.IsType(t, &MemStorage{}, mem)

	disk, err := Open(filepath.Join(t.TempDir(), "users.db"))
	require.NoError(t, err)
	defer disk.Close()
	assert.IsType(t, &SQLiteStorage{}, disk)
}
