package application

import (
	"context"
	"errors"
	"time"

	"github.com/sngm3741/survey-creator-api/internal/submission/domain"
)

// Option customises the services.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithNow overrides the clock, useful for tests.
func WithNow(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

type submissionCommandService struct {
	repo SubmissionRepository
	ids  IDGenerator
	now  func() time.Time
}

func NewSubmissionCommandService(repo SubmissionRepository, ids IDGenerator, opts ...Option) SubmissionCommandService {
	o := buildOptions(opts)
	return &submissionCommandService{repo: repo, ids: ids, now: o.now}
}

func (s *submissionCommandService) Submit(ctx context.Context, cmd SubmitSubmissionCommand) (*domain.Submission, error) {
	if err := validateSubmit(cmd); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	id, err := s.ids.NewID(cmd.CSVUUID, now)
	if err != nil {
		return nil, err
	}

	submission := &domain.Submission{
		ID:           id,
		CSVUUID:      cmd.CSVUUID,
		DisplayText:  cmd.DisplayText,
		AllResponses: append([]byte(nil), cmd.AllResponses...),
		Timestamp:    now,
	}
	if err := s.repo.Create(ctx, submission); err != nil {
		return nil, &domain.StorageError{Op: "save submission", Err: err}
	}
	return submission, nil
}

func validateSubmit(cmd SubmitSubmissionCommand) error {
	var missing []string
	if cmd.CSVUUID == "" {
		missing = append(missing, "uuid")
	}
	if cmd.DisplayText == "" {
		missing = append(missing, "display_text")
	}
	if !domain.IsTruthyJSON(cmd.AllResponses) {
		missing = append(missing, "all_responses")
	}
	if len(missing) > 0 {
		return &domain.ValidationError{Missing: missing}
	}
	return nil
}

type submissionQueryService struct {
	repo SubmissionRepository
}

// NewSubmissionQueryService creates a new SubmissionQueryService.
func NewSubmissionQueryService(repo SubmissionRepository) SubmissionQueryService {
	return &submissionQueryService{repo: repo}
}

// List enumerates keys first and then loads each record on its own. The two steps are not a
// snapshot: keys whose record disappears in between are skipped.
func (s *submissionQueryService) List(ctx context.Context) ([]domain.Submission, error) {
	ids, err := s.repo.ListIDs(ctx)
	if err != nil {
		return nil, &domain.StorageError{Op: "list submission keys", Err: err}
	}

	submissions := make([]domain.Submission, 0, len(ids))
	for _, id := range ids {
		submission, err := s.repo.FindByID(ctx, id)
		if errors.Is(err, domain.ErrSubmissionNotFound) {
			continue
		}
		if err != nil {
			return nil, &domain.StorageError{Op: "get submission " + id, Err: err}
		}
		if submission == nil {
			continue
		}
		submission.ID = id
		submissions = append(submissions, *submission)
	}
	return submissions, nil
}
