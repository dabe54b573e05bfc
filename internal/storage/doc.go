// Package storage はユーザーレコードの永続化を担う
//
// # 責務
// - ユーザーの作成・取得（ID / ユーザー名）
// - ストレージの死活確認
//
// # 仕様
// - Storage インターフェースに対してメモリ実装と SQLite 実装を提供する
// - Open にパスを渡すと SQLite、空文字列ならメモリを使う
// - ユーザーIDはランダムなUUID
// - ユーザー名は一意。重複時は ErrDuplicateUsername を返す
// - Thread-safe な操作をサポート
package storage
