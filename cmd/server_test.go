package main

import (
	"os"
	"testing"
)

// TestRootCmdFlags はコマンドラインオプションの定義をテストする
func TestRootCmdFlags(t *testing.T) {
	cmd := newRootCmd()

	for _, name := range []string{"host", "port", "root", "db", "config"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("オプション --%s が定義されていません", name)
		}
	}
}

// TestRootCmdInvalidPort は不正なポート指定で起動しないことをテストする
func TestRootCmdInvalidPort(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")

	cmd := newRootCmd()
	cmd.SetArgs([]string{"--port", "70000"})
	cmd.SilenceErrors = true

	if err := cmd.Execute(); err == nil {
		t.Fatal("エラーが期待されましたが、エラーが発生しませんでした")
	}
}

// TestRootCmdMissingConfigFile は存在しない設定ファイルの指定をテストする
func TestRootCmdMissingConfigFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")

	cmd := newRootCmd()
	cmd.SetArgs([]string{"--config", t.TempDir() + "/missing.yaml"})
	cmd.SilenceErrors = true

	if err := cmd.Execute(); err == nil {
		t.Fatal("エラーが期待されましたが、エラーが発生しませんでした")
	}

	// --config はプロセスの環境変数を書き換えない
	if got := os.Getenv("CONFIG_FILE"); got != "" {
		t.Errorf("CONFIG_FILE が書き換えられています: %s", got)
	}
}
