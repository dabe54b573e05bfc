package server

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"roomviz/internal/config"

	"github.com/gin-gonic/gin"
)

// assetPaths はルート登録時に解決したファイルパス
type assetPaths struct {
	root     string
	mounts   []mountPath
	roomPage string
}

type mountPath struct {
	prefix string
	dir    string
}

// RegisterRoutes は静的ファイル配信と /room をappに登録し、
// appをハンドラとするHTTPサーバーを返す。リッスンは開始しない。
func RegisterRoutes(app *gin.Engine, cfg *config.Config) (*http.Server, error) {
	srv, _, err := registerRoutes(app, cfg)
	return srv, err
}

func registerRoutes(app *gin.Engine, cfg *config.Config) (*http.Server, *assetPaths, error) {
	paths, err := resolveAssets(cfg.Assets)
	if err != nil {
		return nil, nil, err
	}

	// 静的ファイル（テクスチャ、サウンドなど）
	for _, m := range paths.mounts {
		if err := mountStatic(app, m); err != nil {
			return nil, nil, err
		}
	}

	// 3Dルーム表示
	room := func(c *gin.Context) {
		c.File(paths.roomPage)
	}
	app.GET("/room", room)
	app.HEAD("/room", room)

	httpServer := &http.Server{
		Addr:         cfg.ServerAddress(),
		Handler:      app,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return httpServer, paths, nil
}

// mountStatic はginがルート登録時に起こすpanicをエラーとして返す
func mountStatic(app *gin.Engine, m mountPath) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("静的ファイルのマウントに失敗 (%s): %v", m.prefix, r)
		}
	}()

	app.Static(m.prefix, m.dir)
	return nil
}

// resolveAssets は設定上の相対パスを基準ディレクトリで絶対パスに解決する
func resolveAssets(cfg config.AssetsConfig) (*assetPaths, error) {
	root := cfg.Root
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("カレントディレクトリの取得に失敗: %w", err)
		}
		root = wd
	}

	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("アセットルートの解決に失敗: %w", err)
	}

	paths := &assetPaths{
		root:     root,
		mounts:   make([]mountPath, 0, len(cfg.Mounts)),
		roomPage: resolvePath(root, cfg.RoomPage),
	}
	for _, m := range cfg.Mounts {
		paths.mounts = append(paths.mounts, mountPath{
			prefix: m.Prefix,
			dir:    resolvePath(root, m.Dir),
		})
	}

	return paths, nil
}

func resolvePath(root, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(root, p)
}
