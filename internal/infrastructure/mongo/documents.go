package mongo

import (
	"encoding/json"
	"time"

	"github.com/sngm3741/survey-creator-api/internal/submission/domain"
)

// SubmissionDocument は MongoDB 上でのアンケート回答スキーマ。_id にはサービスが採番した submission id を使う。
// all_responses は受け取った JSON テキストをそのまま文字列で保持する。
type SubmissionDocument struct {
	ID               string    `bson:"_id"`
	SubmissionID     string    `bson:"submission_id"`
	CSVUUID          string    `bson:"csv_uuid"`
	DisplayText      string    `bson:"display_text"`
	AllResponsesJSON string    `bson:"all_responses_json"`
	Timestamp        time.Time `bson:"timestamp"`
}

// submissionIDDocument は キー列挙時の射影 ({_id: 1}) を受け取る。
type submissionIDDocument struct {
	ID string `bson:"_id"`
}

func newSubmissionDocument(s *domain.Submission) SubmissionDocument {
	return SubmissionDocument{
		ID:               s.ID,
		SubmissionID:     s.ID,
		CSVUUID:          s.CSVUUID,
		DisplayText:      s.DisplayText,
		AllResponsesJSON: string(s.AllResponses),
		Timestamp:        s.Timestamp.UTC(),
	}
}

func mapSubmissionDocument(doc SubmissionDocument) *domain.Submission {
	responses := json.RawMessage(doc.AllResponsesJSON)
	if doc.AllResponsesJSON == "" {
		responses = json.RawMessage("null")
	}
	return &domain.Submission{
		ID:           doc.ID,
		CSVUUID:      doc.CSVUUID,
		DisplayText:  doc.DisplayText,
		AllResponses: responses,
		Timestamp:    doc.Timestamp.UTC(),
	}
}
