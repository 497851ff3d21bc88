package survey

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/sngm3741/survey-creator-api/internal/interfaces/http/common"
	"github.com/sngm3741/survey-creator-api/internal/metrics"
	"github.com/sngm3741/survey-creator-api/internal/submission/application"
	"github.com/sngm3741/survey-creator-api/internal/submission/domain"
)

func (h *Handler) submissionCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()

		// An empty body is treated like {} so the caller gets the missing-field message.
		var req createSubmissionRequest
		decoder := json.NewDecoder(io.LimitReader(r.Body, common.MaxSubmissionRequestBody))
		if err := decoder.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			metrics.RecordCreate(metrics.OutcomeInvalid)
			common.WriteError(h.logger, w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
			return
		}

		ctx, cancel := h.storeContext(r.Context())
		defer cancel()

		submission, err := h.commands.Submit(ctx, application.SubmitSubmissionCommand{
			CSVUUID:      req.UUID,
			DisplayText:  req.DisplayText,
			AllResponses: req.AllResponses,
		})

		var validationErr *domain.ValidationError
		switch {
		case errors.As(err, &validationErr):
			metrics.RecordCreate(metrics.OutcomeInvalid)
			common.WriteError(h.logger, w, http.StatusBadRequest, validationErr.Error())
			return
		case err != nil:
			metrics.RecordCreate(metrics.OutcomeStorageError)
			h.logger.WithError(err).Error("アンケート回答の保存に失敗")
			common.WriteError(h.logger, w, http.StatusInternalServerError, h.storageMessage(err, "failed to save survey response"))
			return
		}

		metrics.RecordCreate(metrics.OutcomeSaved)
		h.logger.WithFields(logrus.Fields{
			"submission_id": submission.ID,
			"display_text":  submission.DisplayText,
		}).Info("アンケート回答を保存しました")

		common.WriteJSON(h.logger, w, http.StatusOK, createSubmissionResponse{
			Status:       statusSaved,
			SubmissionID: submission.ID,
		})
	}
}
