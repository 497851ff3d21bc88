package server

import (
	"context"
	"database/sql"
	"fmt"

	goredis "github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sngm3741/survey-creator-api/internal/config"
	"github.com/sngm3741/survey-creator-api/internal/infrastructure/memory"
	mongodoc "github.com/sngm3741/survey-creator-api/internal/infrastructure/mongo"
	redisstore "github.com/sngm3741/survey-creator-api/internal/infrastructure/redis"
	sqlitestore "github.com/sngm3741/survey-creator-api/internal/infrastructure/sqlite"
	"github.com/sngm3741/survey-creator-api/internal/submission/application"
)

// Store は選択されたドライバのリポジトリと、その疎通確認・クローズ処理をまとめたもの。
type Store struct {
	Driver     string
	Repository application.SubmissionRepository

	ping  func(context.Context) error
	close func(context.Context) error
}

// Ping はストアへの疎通確認を行う。
func (s *Store) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

// Close は接続を解放する。
func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// NewMemoryStore はプロセス内メモリのストアを返す。テストとローカル検証用。
func NewMemoryStore() *Store {
	repo := memory.NewSubmissionRepository()
	return &Store{Driver: config.DriverMemory, Repository: repo, ping: repo.Ping}
}

// OpenStore は STORE_DRIVER に従ってストアへ接続する。
func OpenStore(ctx context.Context, cfg config.Config) (*Store, error) {
	if cfg.ServerLog == nil {
		cfg.ServerLog = logrus.StandardLogger()
	}
	switch cfg.StoreDriver {
	case config.DriverMemory:
		return NewMemoryStore(), nil
	case config.DriverSQLite:
		return openSQLite(ctx, cfg)
	case config.DriverRedis:
		return openRedis(ctx, cfg)
	case config.DriverMongo, "":
		return openMongo(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
}

func openMongo(ctx context.Context, cfg config.Config) (*Store, error) {
	connectCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, mongodoc.ClientOptions(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("MongoDB 接続に失敗しました: %w", err)
	}

	repo := mongodoc.NewSubmissionRepository(client.Database(cfg.MongoDatabase), cfg.SubmissionCollection)
	if err := repo.EnsureIndexes(connectCtx); err != nil {
		// インデックスが無くても保存・取得はできるため起動は継続する
		cfg.ServerLog.WithError(err).Warn("回答コレクションのインデックス作成に失敗")
	}

	return &Store{
		Driver:     config.DriverMongo,
		Repository: repo,
		ping:       repo.Ping,
		close:      client.Disconnect,
	}, nil
}

func openRedis(ctx context.Context, cfg config.Config) (*Store, error) {
	client := goredis.NewClient(redisOptions(cfg))

	pingCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("Redis 接続に失敗しました: %w", err)
	}

	repo := redisstore.NewSubmissionRepository(client, cfg.RedisKeyPrefix)
	return &Store{
		Driver:     config.DriverRedis,
		Repository: repo,
		ping:       repo.Ping,
		close:      func(context.Context) error { return client.Close() },
	}, nil
}

// redisOptions は接続オプションを返す。コマンドの自動リトライは行わない。
func redisOptions(cfg config.Config) *goredis.Options {
	return &goredis.Options{
		Addr:       cfg.RedisAddr,
		Password:   cfg.RedisPassword,
		DB:         cfg.RedisDB,
		MaxRetries: -1,
	}
}

func openSQLite(ctx context.Context, cfg config.Config) (*Store, error) {
	openCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	db, err := sqlitestore.Open(openCtx, cfg.SQLitePath)
	if err != nil {
		return nil, err
	}
	repo := sqlitestore.NewSubmissionRepository(db)
	return &Store{
		Driver:     config.DriverSQLite,
		Repository: repo,
		ping:       repo.Ping,
		close:      closeDB(db),
	}, nil
}

func closeDB(db *sql.DB) func(context.Context) error {
	return func(context.Context) error { return db.Close() }
}
