package server

import (
	"net/http"
	"os"
	"time"

	"roomviz/internal/config"
	"roomviz/internal/storage"

	"github.com/gin-gonic/gin"
)

// HealthResponse は /health のレスポンス
type HealthResponse struct {
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// StatusResponse は /api/status のレスポンス
type StatusResponse struct {
	Status    string     `json:"status"`
	Server    ServerInfo `json:"server"`
	Assets    AssetsInfo `json:"assets"`
	Users     int        `json:"users"`
	Timestamp time.Time  `json:"timestamp"`
}

// ServerInfo はサーバーのリッスン設定
type ServerInfo struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// AssetsInfo は静的ファイル配信の状態
type AssetsInfo struct {
	Root     string      `json:"root"`
	Mounts   []MountInfo `json:"mounts"`
	RoomPage FileInfo    `json:"room_page"`
}

// MountInfo は1つのマウントの状態
type MountInfo struct {
	Prefix string `json:"prefix"`
	Dir    string `json:"dir"`
	Exists bool   `json:"exists"`
}

// FileInfo はファイルの存在状態
type FileInfo struct {
	Path   string `json:"path"`
	Exists bool   `json:"exists"`
}

// ErrorResponse はエラー時のレスポンス
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// RoomHandler は補助エンドポイントの実装
type RoomHandler struct {
	config *config.Config
	store  storage.Storage
	paths  *assetPaths
}

// Index はトップページ
func (h *RoomHandler) Index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", getIndexHTML())
}

// HealthCheck はヘルスチェックエンドポイントの実装
func (h *RoomHandler) HealthCheck(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, HealthResponse{
			Status:    "unhealthy",
			Error:     err.Error(),
			Timestamp: time.Now(),
		})
		return
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
	})
}

// GetStatus はシステム状態取得エンドポイントの実装
func (h *RoomHandler) GetStatus(c *gin.Context) {
	users, err := h.store.CountUsers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:     "storage_error",
			Message:   err.Error(),
			Timestamp: time.Now(),
		})
		return
	}

	mounts := make([]MountInfo, 0, len(h.paths.mounts))
	for _, m := range h.paths.mounts {
		mounts = append(mounts, MountInfo{
			Prefix: m.prefix,
			Dir:    m.dir,
			Exists: isDir(m.dir),
		})
	}

	response := StatusResponse{
		Status: "running",
		Server: ServerInfo{
			Host: h.config.Server.Host,
			Port: h.config.Server.Port,
		},
		Assets: AssetsInfo{
			Root:   h.paths.root,
			Mounts: mounts,
			RoomPage: FileInfo{
				Path:   h.paths.roomPage,
				Exists: isFile(h.paths.roomPage),
			},
		},
		Users:     users,
		Timestamp: time.Now(),
	}

	c.JSON(http.StatusOK, response)
}

// ヘルパー関数

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
