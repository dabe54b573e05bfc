package main

import (
	"context"
	"log"

	"roomviz/internal/config"
	"roomviz/internal/server"
	"roomviz/internal/storage"
)

func main() {
	// 設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("設定の読み込みに失敗しました: %v", err)
	}

	// ストレージを開く
	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		log.Fatalf("ストレージの初期化に失敗しました: %v", err)
	}

	// サーバーを作成
	srv, err := server.New(cfg, store)
	if err != nil {
		_ = store.Close()
		log.Fatalf("サーバーの作成に失敗しました: %v", err)
	}

	// サーバーを起動
	if err := srv.Start(context.Background()); err != nil {
		log.Fatalf("サーバーの起動に失敗しました: %v", err)
	}
}
