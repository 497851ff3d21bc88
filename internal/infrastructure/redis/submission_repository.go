// Package redis stores each submission as a JSON string value under <prefix><submission id>.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"github.com/sngm3741/survey-creator-api/internal/submission/application"
	"github.com/sngm3741/survey-creator-api/internal/submission/domain"
)

const scanBatchSize = 500

// record is the stored value. Field names match the public JSON shape so the values are
// readable with redis-cli.
type record struct {
	SubmissionID string          `json:"submission_id"`
	CSVUUID      string          `json:"csv_uuid"`
	DisplayText  string          `json:"display_text"`
	AllResponses json.RawMessage `json:"all_responses"`
	Timestamp    time.Time       `json:"timestamp"`
}

// SubmissionRepository implements application.SubmissionRepository on a Redis keyspace.
type SubmissionRepository struct {
	client goredis.UniversalClient
	prefix string
}

var _ application.SubmissionRepository = (*SubmissionRepository)(nil)

func NewSubmissionRepository(client goredis.UniversalClient, prefix string) *SubmissionRepository {
	return &SubmissionRepository{client: client, prefix: prefix}
}

func (r *SubmissionRepository) key(id string) string {
	return r.prefix + id
}

// Create writes the record with SETNX so an id collision never overwrites an existing record.
func (r *SubmissionRepository) Create(ctx context.Context, submission *domain.Submission) error {
	payload, err := json.Marshal(record{
		SubmissionID: submission.ID,
		CSVUUID:      submission.CSVUUID,
		DisplayText:  submission.DisplayText,
		AllResponses: submission.AllResponses,
		Timestamp:    submission.Timestamp.UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode submission: %w", err)
	}

	ok, err := r.client.SetNX(ctx, r.key(submission.ID), payload, 0).Result()
	if err != nil {
		return fmt.Errorf("set submission: %w", err)
	}
	if !ok {
		return fmt.Errorf("set submission: key %q already exists", submission.ID)
	}
	return nil
}

// ListIDs walks the prefix with SCAN. KEYS is avoided so large keyspaces do not block the server.
func (r *SubmissionRepository) ListIDs(ctx context.Context) ([]string, error) {
	ids := make([]string, 0)
	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, r.prefix+"*", scanBatchSize).Result()
		if err != nil {
			return nil, fmt.Errorf("scan submission keys: %w", err)
		}
		for _, key := range keys {
			ids = append(ids, strings.TrimPrefix(key, r.prefix))
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}

	// SCAN may return a key more than once.
	sort.Strings(ids)
	return dedupeSorted(ids), nil
}

func (r *SubmissionRepository) FindByID(ctx context.Context, id string) (*domain.Submission, error) {
	payload, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, domain.ErrSubmissionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get submission: %w", err)
	}

	var rec record
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, fmt.Errorf("decode submission %s: %w", id, err)
	}
	return &domain.Submission{
		ID:           id,
		CSVUUID:      rec.CSVUUID,
		DisplayText:  rec.DisplayText,
		AllResponses: rec.AllResponses,
		Timestamp:    rec.Timestamp.UTC(),
	}, nil
}

func (r *SubmissionRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func dedupeSorted(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if len(out) > 0 && out[len(out)-1] == id {
			continue
		}
		out = append(out, id)
	}
	return out
}
