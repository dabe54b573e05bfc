package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"roomviz/internal/config"
	"roomviz/internal/storage"

	"github.com/gin-gonic/gin"
)

// Server はHTTPサーバーを管理する構造体
type Server struct {
	config     *config.Config
	store      storage.Storage
	engine     *gin.Engine
	httpServer *http.Server
}

// New は新しいServerインスタンスを作成する
// ルートは登録済みだがリッスンは開始しない
func New(cfg *config.Config, store storage.Storage) (*Server, error) {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery())
	if err := engine.SetTrustedProxies(nil); err != nil {
		return nil, fmt.Errorf("プロキシ設定に失敗: %w", err)
	}

	httpServer, paths, err := registerRoutes(engine, cfg)
	if err != nil {
		return nil, fmt.Errorf("ルートの登録に失敗: %w", err)
	}

	s := &Server{
		config:     cfg,
		store:      store,
		engine:     engine,
		httpServer: httpServer,
	}
	s.setupRoutes(&RoomHandler{config: cfg, store: store, paths: paths})

	return s, nil
}

// setupRoutes は補助エンドポイントを設定する
func (s *Server) setupRoutes(h *RoomHandler) {
	s.engine.GET("/", h.Index)
	s.engine.GET("/health", h.HealthCheck)

	// アプリケーションのルートは /api 配下
	api := s.engine.Group("/api")
	api.GET("/status", h.GetStatus)
}

// Handler はルーティング済みのハンドラを返す
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start はサーバーを起動する
func (s *Server) Start(ctx context.Context) error {
	// シャットダウン用のチャンネル
	shutdownCh := make(chan error, 1)

	// サーバーを別ゴルーチンで起動
	go func() {
		log.Printf("HTTPサーバーを起動しています: %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			shutdownCh <- fmt.Errorf("サーバーの起動に失敗: %w", err)
		}
	}()

	// シグナルハンドリング
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	// コンテキストかシグナルを待つ
	select {
	case <-ctx.Done():
		log.Println("コンテキストがキャンセルされました")
	case sig := <-sigCh:
		log.Printf("シグナルを受信しました: %v", sig)
	case err := <-shutdownCh:
		_ = s.store.Close()
		return err
	}

	// グレースフルシャットダウン
	return s.Shutdown()
}

// Shutdown はサーバーをグレースフルにシャットダウンし、ストレージを閉じる
func (s *Server) Shutdown() error {
	log.Println("サーバーをシャットダウンしています...")

	// 5秒のタイムアウトを設定
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("サーバーのシャットダウンに失敗: %w", err)
	}

	if err := s.store.Close(); err != nil {
		return fmt.Errorf("ストレージのクローズに失敗: %w", err)
	}

	log.Println("サーバーが正常にシャットダウンされました")
	return nil
}
