package main

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/sngm3741/survey-creator-api/internal/config"
	"github.com/sngm3741/survey-creator-api/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("設定の読み込みに失敗しました: %v", err)
	}

	store, err := server.OpenStore(context.Background(), cfg)
	if err != nil {
		cfg.ServerLog.Fatalf("ストアの初期化に失敗しました: %v", err)
	}

	app, err := server.New(cfg, store)
	if err != nil {
		_ = store.Close(context.Background())
		cfg.ServerLog.Fatalf("サーバーの構築に失敗しました: %v", err)
	}
	if err := app.Run(); err != nil {
		cfg.ServerLog.Fatalf("サーバー起動に失敗: %v", err)
	}
}
