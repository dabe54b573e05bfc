// Package main はルーム表示サーバーコマンドの実装です
package main

import (
	"context"
	"log"
	"os"

	"roomviz/internal/config"
	"roomviz/internal/server"
	"roomviz/internal/storage"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		host       string
		port       int
		root       string
		dbPath     string
		configFile string
	)

	cmd := &cobra.Command{
		Use:          "server",
		Short:        "3Dルーム表示と静的アセットを配信するHTTPサーバー",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// 設定を読み込む
			path := configFile
			if path == "" {
				path = os.Getenv("CONFIG_FILE")
			}
			cfg, err := config.LoadFrom(path)
			if err != nil {
				return err
			}

			// コマンドラインオプションで設定を上書き
			flags := cmd.Flags()
			if flags.Changed("host") {
				cfg.Server.Host = host
			}
			if flags.Changed("port") {
				cfg.Server.Port = port
			}
			if flags.Changed("root") {
				cfg.Assets.Root = root
			}
			if flags.Changed("db") {
				cfg.Storage.Path = dbPath
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			store, err := storage.Open(cfg.Storage.Path)
			if err != nil {
				return err
			}

			srv, err := server.New(cfg, store)
			if err != nil {
				_ = store.Close()
				return err
			}

			log.Printf("サーバーを起動します: %s", cfg.ServerAddress())
			return srv.Start(context.Background())
		},
	}

	f := cmd.Flags()
	f.StringVar(&host, "host", "", "サーバーのホスト (デフォルト: 0.0.0.0)")
	f.IntVar(&port, "port", 0, "サーバーのポート (デフォルト: 5000)")
	f.StringVar(&root, "root", "", "アセットの基準ディレクトリ (デフォルト: カレントディレクトリ)")
	f.StringVar(&dbPath, "db", "", "SQLiteファイルのパス (空の場合はメモリ)")
	f.StringVar(&configFile, "config", "", "YAML設定ファイル")

	return cmd
}
