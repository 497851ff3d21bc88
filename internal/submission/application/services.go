package application

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sngm3741/survey-creator-api/internal/submission/domain"
)

// SubmissionRepository はアンケート回答をキー単位で保存・列挙・取得するためのポート。
type SubmissionRepository interface {
	// Create stores the record under its ID. It is called exactly once per accepted submission.
	Create(ctx context.Context, submission *domain.Submission) error
	// ListIDs enumerates every stored key in lexicographic order.
	ListIDs(ctx context.Context) ([]string, error)
	// FindByID returns domain.ErrSubmissionNotFound when the key has no record.
	FindByID(ctx context.Context, id string) (*domain.Submission, error)
}

// IDGenerator produces submission identifiers. Implementations must return a string that is
// unique with overwhelming probability across concurrent callers.
type IDGenerator interface {
	NewID(csvUUID string, now time.Time) (string, error)
}

// SubmitSubmissionCommand captures the caller-supplied fields of a submission.
type SubmitSubmissionCommand struct {
	CSVUUID      string
	DisplayText  string
	AllResponses json.RawMessage
}

// SubmissionCommandService handles the create use-case.
type SubmissionCommandService interface {
	Submit(ctx context.Context, cmd SubmitSubmissionCommand) (*domain.Submission, error)
}

// SubmissionQueryService は保存済み回答を全件返すリーダーモデル。
type SubmissionQueryService interface {
	List(ctx context.Context) ([]domain.Submission, error)
}
