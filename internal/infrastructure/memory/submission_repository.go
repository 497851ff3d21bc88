// Package memory provides an in-process submission store. It is safe for concurrent use and is
// intended for tests and local development; records do not survive a restart.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/sngm3741/survey-creator-api/internal/submission/application"
	"github.com/sngm3741/survey-creator-api/internal/submission/domain"
)

// SubmissionRepository keeps submissions in a map keyed by submission id.
type SubmissionRepository struct {
	mu      sync.RWMutex
	records map[string]domain.Submission
}

var _ application.SubmissionRepository = (*SubmissionRepository)(nil)

// NewSubmissionRepository creates an empty store.
func NewSubmissionRepository() *SubmissionRepository {
	return &SubmissionRepository{records: make(map[string]domain.Submission)}
}

func (r *SubmissionRepository) Create(_ context.Context, submission *domain.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[submission.ID] = cloneSubmission(*submission)
	return nil
}

func (r *SubmissionRepository) ListIDs(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.records))
	for id := range r.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *SubmissionRepository) FindByID(_ context.Context, id string) (*domain.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	submission, ok := r.records[id]
	if !ok {
		return nil, domain.ErrSubmissionNotFound
	}
	out := cloneSubmission(submission)
	return &out, nil
}

// Ping always succeeds.
func (r *SubmissionRepository) Ping(context.Context) error {
	return nil
}

// Len reports the number of stored records.
func (r *SubmissionRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

func cloneSubmission(s domain.Submission) domain.Submission {
	s.AllResponses = append([]byte(nil), s.AllResponses...)
	return s
}
