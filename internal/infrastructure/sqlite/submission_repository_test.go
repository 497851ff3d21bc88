package sqlite

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sngm3741/survey-creator-api/internal/submission/domain"
)

func openTestDB(t *testing.T) *SubmissionRepository {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "survey.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSubmissionRepository(db)
}

func TestSubmissionRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := openTestDB(t)
	ts := time.Date(2024, 5, 1, 12, 0, 0, 123_000_000, time.UTC)

	require.NoError(t, repo.Create(ctx, &domain.Submission{
		ID:           "b-2",
		CSVUUID:      "b",
		DisplayText:  "Second",
		AllResponses: json.RawMessage(`{"q":[1,2]}`),
		Timestamp:    ts,
	}))
	require.NoError(t, repo.Create(ctx, &domain.Submission{
		ID:           "a-1",
		CSVUUID:      "a",
		DisplayText:  "First",
		AllResponses: json.RawMessage(`"x"`),
		Timestamp:    ts,
	}))

	ids, err := repo.ListIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a-1", "b-2"}, ids)

	got, err := repo.FindByID(ctx, "b-2")
	require.NoError(t, err)
	assert.Equal(t, "b", got.CSVUUID)
	assert.Equal(t, "Second", got.DisplayText)
	assert.JSONEq(t, `{"q":[1,2]}`, string(got.AllResponses))
	assert.True(t, got.Timestamp.Equal(ts))
}

func TestSubmissionRepository_EmptyAndMissing(t *testing.T) {
	ctx := context.Background()
	repo := openTestDB(t)

	ids, err := repo.ListIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = repo.FindByID(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrSubmissionNotFound)
	assert.NoError(t, repo.Ping(ctx))
}

func TestSubmissionRepository_DuplicateKeyIsRejected(t *testing.T) {
	ctx := context.Background()
	repo := openTestDB(t)
	s := &domain.Submission{ID: "k", CSVUUID: "a", DisplayText: "b", AllResponses: json.RawMessage(`{}`), Timestamp: time.Now()}

	require.NoError(t, repo.Create(ctx, s))
	assert.Error(t, repo.Create(ctx, s))
}

func TestSubmissionRepository_ClosedDatabase(t *testing.T) {
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "closed.db"))
	require.NoError(t, err)
	repo := NewSubmissionRepository(db)
	require.NoError(t, db.Close())

	_, err = repo.ListIDs(context.Background())
	assert.Error(t, err)
}
