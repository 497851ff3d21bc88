package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/sngm3741/survey-creator-api/internal/submission/application"
	"github.com/sngm3741/survey-creator-api/internal/submission/domain"
)

// SubmissionRepository はアンケート回答を 1 件 1 ドキュメントとして MongoDB に保存する実装リポジトリ。
type SubmissionRepository struct {
	submissions *mongo.Collection
}

var _ application.SubmissionRepository = (*SubmissionRepository)(nil)

// NewSubmissionRepository は回答コレクションを束縛したリポジトリを構築する。
func NewSubmissionRepository(db *mongo.Database, collectionName string) *SubmissionRepository {
	return &SubmissionRepository{submissions: db.Collection(collectionName)}
}

// Create は submission id を _id として 1 件挿入する。既存キーとの衝突は上書きせずエラーにする。
func (r *SubmissionRepository) Create(ctx context.Context, submission *domain.Submission) error {
	if _, err := r.submissions.InsertOne(ctx, newSubmissionDocument(submission)); err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

// ListIDs は _id のみを射影して昇順で全キーを返す。
func (r *SubmissionRepository) ListIDs(ctx context.Context) ([]string, error) {
	opts := options.Find().
		SetProjection(bson.D{{Key: "_id", Value: 1}}).
		SetSort(bson.D{{Key: "_id", Value: 1}})

	cursor, err := r.submissions.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find submission ids: %w", err)
	}
	defer cursor.Close(ctx)

	ids := make([]string, 0)
	for cursor.Next(ctx) {
		var doc submissionIDDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		ids = append(ids, doc.ID)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// FindByID はキーに対応するドキュメントを取得する。存在しない場合は domain.ErrSubmissionNotFound を返す。
func (r *SubmissionRepository) FindByID(ctx context.Context, id string) (*domain.Submission, error) {
	var doc SubmissionDocument
	err := r.submissions.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrSubmissionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find submission: %w", err)
	}
	return mapSubmissionDocument(doc), nil
}

// EnsureIndexes は csv_uuid / timestamp の検索用インデックスを用意する。
func (r *SubmissionRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "csv_uuid", Value: 1}},
			Options: options.Index().SetName("idx_submission_csvUuid"),
		},
		{
			Keys:    bson.D{{Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_submission_timestamp"),
		},
	}
	_, err := r.submissions.Indexes().CreateMany(ctx, indexes)
	return err
}

// ClientOptions は接続オプションを組み立てる。保存・取得は 1 回きりとし、ドライバの自動リトライは無効にする。
func ClientOptions(uri string) *options.ClientOptions {
	return options.Client().
		ApplyURI(uri).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1)).
		SetRetryReads(false).
		SetRetryWrites(false)
}

// Ping は MongoDB への疎通確認を行う。
func (r *SubmissionRepository) Ping(ctx context.Context) error {
	return r.submissions.Database().Client().Ping(ctx, readpref.Primary())
}

// Drop は回答コレクションを削除する。seed の再投入用。
func (r *SubmissionRepository) Drop(ctx context.Context) error {
	return r.submissions.Drop(ctx)
}
