package storage

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemStorage はプロセス内メモリに保持するストレージ
type MemStorage struct {
	users map[string]User
	mu    sync.RWMutex
}

// NewMemStorage は空のMemStorageを作成する
func NewMemStorage() *MemStorage {
	return &MemStorage{
		users: make(map[string]User),
	}
}

// GetUser はIDでユーザーを取得する
func (s *MemStorage) GetUser(_ context.Context, id string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

// GetUserByUsername はユーザー名でユーザーを取得する
func (s *MemStorage) GetUserByUsername(_ context.Context, username string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

// CreateUser は新しいユーザーを作成する
func (s *MemStorage) CreateUser(_ context.Context, in InsertUser) (*User, error) {
	if err := validateInsert(in); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == in.Username {
			return nil, ErrDuplicateUsername
		}
	}

	u := User{
		ID:       uuid.NewString(),
		Username: in.Username,
		Password: in.Password,
	}
	s.users[u.ID] = u

	return &u, nil
}

// CountUsers は登録ユーザー数を返す
func (s *MemStorage) CountUsers(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users), nil
}

// Ping は常に成功する
func (s *MemStorage) Ping(_ context.Context) error {
	return nil
}

// Close は何もしない
func (s *MemStorage) Close() error {
	return nil
}
