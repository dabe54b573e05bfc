// Package server は、HTTPサーバーとルーティングを管理します。
//
// このパッケージは、静的アセットの配信、3Dルーム表示ページの配信、
// 状態確認用APIの提供、HTTPサーバーの起動と停止を担当します。
//
// 責務:
//   - 静的ファイル（テクスチャ/サウンド/ジオメトリ）の配信
//   - /room でのルーム表示HTMLの配信
//   - ヘルスチェックとステータスAPI
//   - HTTPサーバーの起動とグレースフルシャットダウン
//
// 仕様:
//   - ルーティングはgin-gonic/ginを使用
//   - ファイルパスはルート登録時のカレントディレクトリ基準で解決する
//   - RegisterRoutes はサーバーを構築するだけでリッスンは開始しない
//   - 存在しないファイルへのリクエストは404を返す
package server
