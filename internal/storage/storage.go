package storage

import (
	"context"
	"errors"
)

var (
	// ErrNotFound は該当ユーザーが存在しない場合のエラー
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateUsername はユーザー名が既に使われている場合のエラー
	ErrDuplicateUsername = errors.New("username already exists")
)

// User はユーザーレコード
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Password string `json:"-"`
}

// InsertUser はユーザー作成時の入力
type InsertUser struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Storage はユーザーストレージのインターフェース
type Storage interface {
	// GetUser はIDでユーザーを取得する
	GetUser(ctx context.Context, id string) (*User, error)
	// GetUserByUsername はユーザー名でユーザーを取得する
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	// CreateUser は新しいユーザーを作成する
	CreateUser(ctx context.Context, in InsertUser) (*User, error)
	// CountUsers は登録ユーザー数を返す
	CountUsers(ctx context.Context) (int, error)
	// Ping はストレージが利用可能か確認する
	Ping(ctx context.Context) error
	// Close はストレージを閉じる
	Close() error
}

// Open はパスに応じたストレージを開く
// 空文字列ならメモリストレージ、それ以外はSQLiteファイル
func Open(path string) (Storage, error) {
	if path == "" {
		return NewMemStorage(), nil
	}
	return NewSQLiteStorage(path)
}

func validateInsert(in InsertUser) error {
	if in.Username == "" {
		return errors.New("username is required")
	}
	return nil
}
