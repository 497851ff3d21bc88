package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/sngm3741/survey-creator-api/internal/config"
	mongodoc "github.com/sngm3741/survey-creator-api/internal/infrastructure/mongo"
	"github.com/sngm3741/survey-creator-api/internal/server"
	"github.com/sngm3741/survey-creator-api/internal/submission/application"
)

type seedOptions struct {
	envName    string
	surveys    int
	perSurvey  int
	drop       bool
	randomSeed int64
}

var questions = []string{
	"サービスの満足度を教えてください",
	"How did you hear about us?",
	"次回も利用したいですか",
	"Rate the onboarding experience",
	"改善してほしい点はありますか",
}

var answers = []string{"とても良い", "良い", "普通", "Bad", "Excellent", "未回答"}

func main() {
	opts := parseFlags()

	if err := loadEnvFiles(opts.envName); err != nil {
		logrus.Warnf("env ファイルの読み込みをスキップしました: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("設定の読み込みに失敗しました: %v", err)
	}
	logger := cfg.ServerLog

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	store, err := server.OpenStore(ctx, cfg)
	if err != nil {
		logger.Fatalf("ストアの初期化に失敗しました: %v", err)
	}
	defer func() {
		_ = store.Close(context.Background())
	}()

	if opts.drop {
		repo, ok := store.Repository.(*mongodoc.SubmissionRepository)
		if !ok {
			logger.Fatalf("-drop は mongo ドライバでのみ使用できます (driver=%s)", store.Driver)
		}
		if err := repo.Drop(ctx); err != nil {
			logger.Fatalf("コレクション削除に失敗しました: %v", err)
		}
		if err := repo.EnsureIndexes(ctx); err != nil {
			logger.Fatalf("インデックス作成に失敗しました: %v", err)
		}
		logger.Info("既存コレクションを削除しました")
	}

	ids, err := application.NewIDGenerator(cfg.SubmissionIDScheme)
	if err != nil {
		logger.Fatalf("ID 生成方式が不正です: %v", err)
	}
	commands := application.NewSubmissionCommandService(store.Repository, ids)

	rng := rand.New(rand.NewSource(opts.randomSeed))
	saved := 0
	for i := 0; i < opts.surveys; i++ {
		csvUUID := uuid.NewString()
		question := questions[rng.Intn(len(questions))]
		for j := 0; j < opts.perSurvey; j++ {
			responses, err := generateResponses(rng)
			if err != nil {
				logger.Fatalf("回答データの生成に失敗しました: %v", err)
			}
			submission, err := commands.Submit(ctx, application.SubmitSubmissionCommand{
				CSVUUID:      csvUUID,
				DisplayText:  question,
				AllResponses: responses,
			})
			if err != nil {
				logger.Fatalf("回答データの挿入に失敗しました: %v", err)
			}
			logger.WithField("submission_id", submission.ID).Debug("回答を投入しました")
			saved++
		}
	}

	logger.Infof("Seed 完了: surveys=%d submissions=%d driver=%s seed=%d (env=%s)",
		opts.surveys, saved, store.Driver, opts.randomSeed, opts.envName)
}

func parseFlags() seedOptions {
	var opts seedOptions
	flag.StringVar(&opts.envName, "env", "local", "読み込む .env.<name> の name (例: local, staging)")
	flag.IntVar(&opts.surveys, "surveys", 5, "生成するアンケート (CSV) 数")
	flag.IntVar(&opts.perSurvey, "responses", 10, "アンケートごとの回答数")
	flag.BoolVar(&opts.drop, "drop", false, "既存コレクションを削除してから投入する (mongo のみ)")
	defaultSeed := time.Now().UnixNano()
	flag.Int64Var(&opts.randomSeed, "seed", defaultSeed, "乱数シード（再現用）")
	flag.Parse()

	if opts.surveys <= 0 {
		logrus.Fatal("surveys は 1 以上を指定してください")
	}
	if opts.perSurvey <= 0 {
		opts.perSurvey = 1
	}
	return opts
}

// loadEnvFiles は .env.<name> と .env を読み込む。先に読んだ値と既存の環境変数が優先される。
func loadEnvFiles(envName string) error {
	var existing []string
	for _, file := range []string{".env." + envName, ".env"} {
		if _, err := os.Stat(file); err == nil {
			existing = append(existing, file)
		}
	}
	if len(existing) == 0 {
		return fmt.Errorf(".env.%s / .env が見つかりません", envName)
	}
	return godotenv.Load(existing...)
}

func generateResponses(rng *rand.Rand) (json.RawMessage, error) {
	count := 1 + rng.Intn(4)
	payload := make(map[string]any, count+1)
	for i := 0; i < count; i++ {
		payload[fmt.Sprintf("q%d", i+1)] = answers[rng.Intn(len(answers))]
	}
	payload["score"] = rng.Intn(5) + 1
	return json.Marshal(payload)
}
