package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// SQLiteStorage はSQLiteファイルに保存するストレージ
type SQLiteStorage struct {
	db   *sql.DB
	path string
}

// NewSQLiteStorage はSQLiteデータベースを開き、マイグレーションを適用する
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("DBディレクトリの作成に失敗: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("SQLiteのオープンに失敗: %w", err)
	}

	// SQLiteのロック競合を避けるため接続は1本
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA foreign_keys=ON"} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s に失敗: %w", pragma, err)
		}
	}

	s := &SQLiteStorage{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	log.Printf("データベースを開きました: %s", path)
	return s, nil
}

// migrate は未適用のマイグレーションをファイル名順に適用する
func (s *SQLiteStorage) migrate() error {
	if _, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS _migrations (
			id      INTEGER PRIMARY KEY AUTOINCREMENT,
			name    TEXT    NOT NULL UNIQUE,
			applied DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("マイグレーション管理テーブルの作成に失敗: %w", err)
	}

	files, err := fs.ReadDir(migrationFS, "migrations")
	if err != nil {
		return fmt.Errorf("マイグレーションの読み込みに失敗: %w", err)
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].Name() < files[j].Name()
	})

	for _, f := range files {
		name := f.Name()
		if f.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}

		var count int
		if err := s.db.QueryRow("SELECT COUNT(*) FROM _migrations WHERE name = ?", name).Scan(&count); err != nil {
			return fmt.Errorf("マイグレーション %s の確認に失敗: %w", name, err)
		}
		if count > 0 {
			continue
		}

		content, err := fs.ReadFile(migrationFS, "migrations/"+name)
		if err != nil {
			return fmt.Errorf("マイグレーション %s の読み込みに失敗: %w", name, err)
		}

		if err := s.applyMigration(name, string(content)); err != nil {
			return err
		}
		log.Printf("マイグレーションを適用しました: %s", name)
	}

	return nil
}

func (s *SQLiteStorage) applyMigration(name, content string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("マイグレーション %s のトランザクション開始に失敗: %w", name, err)
	}
	defer tx.Rollback() //nolint: errcheck

	if _, err := tx.Exec(content); err != nil {
		return fmt.Errorf("マイグレーション %s の実行に失敗: %w", name, err)
	}
	if _, err := tx.Exec("INSERT INTO _migrations (name) VALUES (?)", name); err != nil {
		return fmt.Errorf("マイグレーション %s の記録に失敗: %w", name, err)
	}

	return tx.Commit()
}

// GetUser はIDでユーザーを取得する
func (s *SQLiteStorage) GetUser(ctx context.Context, id string) (*User, error) {
	return s.queryUser(ctx, "SELECT id, username, password FROM users WHERE id = ?", id)
}

// GetUserByUsername はユーザー名でユーザーを取得する
func (s *SQLiteStorage) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	return s.queryUser(ctx, "SELECT id, username, password FROM users WHERE username = ?", username)
}

func (s *SQLiteStorage) queryUser(ctx context.Context, query string, arg any) (*User, error) {
	u := &User{}
	err := s.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Username, &u.Password)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗: %w", err)
	}
	return u, nil
}

// CreateUser は新しいユーザーを作成する
func (s *SQLiteStorage) CreateUser(ctx context.Context, in InsertUser) (*User, error) {
	if err := validateInsert(in); err != nil {
		return nil, err
	}

	u := &User{
		ID:       uuid.NewString(),
		Username: in.Username,
		Password: in.Password,
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users (id, username, password) VALUES (?, ?, ?)",
		u.ID, u.Username, u.Password,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("ユーザーの作成に失敗: %w", err)
	}

	return u, nil
}

// CountUsers は登録ユーザー数を返す
func (s *SQLiteStorage) CountUsers(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return 0, fmt.Errorf("ユーザー数の取得に失敗: %w", err)
	}
	return count, nil
}

// Ping はデータベース接続を確認する
func (s *SQLiteStorage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close はデータベース接続を閉じる
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
