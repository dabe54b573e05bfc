package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config はアプリケーション全体の設定を保持する構造体
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Assets  AssetsConfig  `yaml:"assets"`
	Storage StorageConfig `yaml:"storage"`
}

// ServerConfig はHTTPサーバーの設定
type ServerConfig struct {
	Host string `yaml:"host"` // リッスンするホスト
	Port int    `yaml:"port"` // リッスンするポート番号

	// タイムアウト設定
	ReadTimeout  time.Duration `yaml:"read_timeout"`  // 読み込みタイムアウト
	WriteTimeout time.Duration `yaml:"write_timeout"` // 書き込みタイムアウト

	// gin のモード (debug / release / test)
	Mode string `yaml:"mode"`
}

// AssetsConfig は静的ファイル配信の設定
type AssetsConfig struct {
	// パス解決の基準ディレクトリ。空の場合はルート登録時のカレントディレクトリ
	Root string `yaml:"root"`

	Mounts   []StaticMount `yaml:"mounts"`    // URLプレフィックスとディレクトリの対応
	RoomPage string        `yaml:"room_page"` // /room で返すHTMLファイル
}

// StaticMount は1つのURLプレフィックスと配信ディレクトリの組
type StaticMount struct {
	Prefix string `yaml:"prefix"`
	Dir    string `yaml:"dir"`
}

// StorageConfig はユーザーストレージの設定
type StorageConfig struct {
	// SQLiteファイルのパス。空の場合はメモリストレージ
	Path string `yaml:"path"`
}

// DefaultMounts は標準の静的ファイルマウントを返す
func DefaultMounts() []StaticMount {
	return []StaticMount{
		{Prefix: "/textures", Dir: "client/public/textures"},
		{Prefix: "/sounds", Dir: "client/public/sounds"},
		{Prefix: "/geometries", Dir: "client/public/geometries"},
	}
}

// DefaultRoomPage は /room で返すHTMLファイルの既定パス
const DefaultRoomPage = "room-visualization.html"

// サーバーが自前で登録するパス
var reservedPaths = []string{"/room", "/health", "/api"}

// Default はデフォルト設定を返す
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         5000,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			Mode:         "release",
		},
		Assets: AssetsConfig{
			Mounts:   DefaultMounts(),
			RoomPage: DefaultRoomPage,
		},
	}
}

// Load は CONFIG_FILE で指定された設定ファイルを使って設定を読み込む
func Load() (*Config, error) {
	return LoadFrom(os.Getenv("CONFIG_FILE"))
}

// LoadFrom は設定を読み込む
// デフォルト値 → 設定ファイル (path、空なら省略) → 環境変数 の順に上書きする
func LoadFrom(path string) (*Config, error) {
	// .env があれば読み込む（無くてもエラーにしない）
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf(".env の読み込みに失敗: %w", err)
	}

	cfg := Default()

	if path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	// 設定の検証
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("設定の検証に失敗: %w", err)
	}

	return cfg, nil
}

// LoadFile はYAMLファイルの内容で設定を上書きする
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("設定ファイルの読み込みに失敗: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("設定ファイルの解析に失敗 (%s): %w", path, err)
	}

	return nil
}

func (c *Config) applyEnv() {
	c.Server.Host = getEnvOrDefault("SERVER_HOST", c.Server.Host)
	c.Server.Port = getEnvAsIntOrDefault("PORT", c.Server.Port)
	c.Server.Mode = getEnvOrDefault("GIN_MODE", c.Server.Mode)
	c.Assets.Root = getEnvOrDefault("ASSET_ROOT", c.Assets.Root)
	c.Storage.Path = getEnvOrDefault("DATABASE_PATH", c.Storage.Path)
}

// Validate は設定の妥当性を検証する
func (c *Config) Validate() error {
	// サーバー設定の検証
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("無効なポート番号: %d", c.Server.Port)
	}

	switch c.Server.Mode {
	case "", "debug", "release", "test":
	default:
		return fmt.Errorf("無効なモード: %s", c.Server.Mode)
	}

	// 静的ファイル設定の検証
	for i, m := range c.Assets.Mounts {
		if !strings.HasPrefix(m.Prefix, "/") || m.Prefix == "/" || strings.HasSuffix(m.Prefix, "/") {
			return fmt.Errorf("mounts[%d]: 無効なプレフィックス: %q", i, m.Prefix)
		}
		// ginの静的ルートではパラメータとワイルドカードを使えない
		if strings.ContainsAny(m.Prefix, ":*") {
			return fmt.Errorf("mounts[%d]: プレフィックスに ':' や '*' は使えません: %s", i, m.Prefix)
		}
		if m.Dir == "" {
			return fmt.Errorf("mounts[%d]: ディレクトリが指定されていません", i)
		}
		for _, r := range reservedPaths {
			if overlaps(m.Prefix, r) {
				return fmt.Errorf("mounts[%d]: %s は予約済みのパスと衝突します", i, m.Prefix)
			}
		}
		// ワイルドカードルートは入れ子にできない
		for j := 0; j < i; j++ {
			if overlaps(m.Prefix, c.Assets.Mounts[j].Prefix) {
				return fmt.Errorf("mounts[%d]: プレフィックスが重複しています: %s", i, m.Prefix)
			}
		}
	}

	if c.Assets.RoomPage == "" {
		return fmt.Errorf("room_page が指定されていません")
	}

	return nil
}

// ServerAddress はサーバーのリッスンアドレスを返す
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// overlaps は2つのプレフィックスが同一か、一方が他方の配下にあるかを判定する
func overlaps(a, b string) bool {
	return a == b || strings.HasPrefix(a, b+"/") || strings.HasPrefix(b, a+"/")
}

// getEnvOrDefault は環境変数を取得し、設定されていない場合はデフォルト値を返す
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault は環境変数を整数として取得し、設定されていない場合はデフォルト値を返す
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var intVal int
		if _, err := fmt.Sscanf(value, "%d", &intVal); err == nil {
			return intVal
		}
	}
	return defaultValue
}
