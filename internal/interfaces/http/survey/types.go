package survey

import (
	"encoding/json"
	"time"

	"github.com/sngm3741/survey-creator-api/internal/submission/domain"
)

// timestampLayout matches JavaScript's Date.prototype.toISOString.
const timestampLayout = "2006-01-02T15:04:05.000Z"

const statusSaved = "saved"

type createSubmissionRequest struct {
	UUID         string          `json:"uuid"`
	DisplayText  string          `json:"display_text"`
	AllResponses json.RawMessage `json:"all_responses"`
}

type createSubmissionResponse struct {
	Status       string `json:"status"`
	SubmissionID string `json:"submission_id"`
}

type submissionResponse struct {
	SubmissionID string          `json:"submission_id"`
	CSVUUID      string          `json:"csv_uuid"`
	DisplayText  string          `json:"display_text"`
	AllResponses json.RawMessage `json:"all_responses"`
	Timestamp    string          `json:"timestamp"`
}

// listSubmissionsResponse carries no top-level status; only create and errors do.
type listSubmissionsResponse struct {
	Responses []submissionResponse `json:"responses"`
}

func buildSubmissionResponse(s domain.Submission) submissionResponse {
	responses := s.AllResponses
	if len(responses) == 0 {
		responses = json.RawMessage("null")
	}
	return submissionResponse{
		SubmissionID: s.ID,
		CSVUUID:      s.CSVUUID,
		DisplayText:  s.DisplayText,
		AllResponses: responses,
		Timestamp:    formatTimestamp(s.Timestamp),
	}
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timestampLayout)
}
