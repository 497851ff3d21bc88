package survey

import (
	"net/http"

	"github.com/sngm3741/survey-creator-api/internal/interfaces/http/common"
	"github.com/sngm3741/survey-creator-api/internal/metrics"
)

func (h *Handler) submissionListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := h.storeContext(r.Context())
		defer cancel()

		submissions, err := h.queries.List(ctx)
		if err != nil {
			h.logger.WithError(err).Error("アンケート回答の取得に失敗")
			common.WriteError(h.logger, w, http.StatusInternalServerError, h.storageMessage(err, "failed to fetch survey responses"))
			return
		}

		items := make([]submissionResponse, 0, len(submissions))
		for _, submission := range submissions {
			items = append(items, buildSubmissionResponse(submission))
		}

		metrics.RecordList(len(items))
		h.logger.WithField("count", len(items)).Info("アンケート回答を取得しました")

		common.WriteJSON(h.logger, w, http.StatusOK, listSubmissionsResponse{Responses: items})
	}
}
