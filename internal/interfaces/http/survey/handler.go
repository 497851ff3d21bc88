package survey

import (
	"context"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/sngm3741/survey-creator-api/internal/submission/application"
)

// Handler wires survey submission endpoints to application services.
type Handler struct {
	logger              logrus.FieldLogger
	commands            application.SubmissionCommandService
	queries             application.SubmissionQueryService
	storeTimeout        time.Duration
	exposeStorageErrors bool
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger   logrus.FieldLogger
	Commands application.SubmissionCommandService
	Queries  application.SubmissionQueryService
	// StoreTimeout bounds each request's store calls; zero leaves them unbounded.
	StoreTimeout time.Duration
	// ExposeStorageErrors returns the store's error text to clients instead of a generic message.
	ExposeStorageErrors bool
}

// NewHandler constructs the survey HTTP handler set.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Handler{
		logger:              logger,
		commands:            cfg.Commands,
		queries:             cfg.Queries,
		storeTimeout:        cfg.StoreTimeout,
		exposeStorageErrors: cfg.ExposeStorageErrors,
	}
}

// Register mounts the survey routes onto the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/survey", h.submissionCreateHandler())
	r.Get("/survey", h.submissionListHandler())
}

func (h *Handler) storeContext(parent context.Context) (context.Context, context.CancelFunc) {
	if h.storeTimeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, h.storeTimeout)
}

func (h *Handler) storageMessage(err error, fallback string) string {
	if h.exposeStorageErrors {
		return err.Error()
	}
	return fallback
}
