package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrSubmissionNotFound is returned by repositories when a key has no stored record.
var ErrSubmissionNotFound = errors.New("submission not found")

// Submission is one respondent's survey answer set plus metadata, stored as one record.
// AllResponses is kept as raw JSON and never interpreted by the service.
type Submission struct {
	ID           string
	CSVUUID      string
	DisplayText  string
	AllResponses json.RawMessage
	Timestamp    time.Time
}

// ValidationError lists required fields that were absent on create.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("Missing required fields: %s", strings.Join(e.Missing, ", "))
}

// IsTruthyJSON reports whether a raw JSON value would count as present for the
// survey front end: null, false, 0 and "" are absent; objects and arrays, even empty, are present.
func IsTruthyJSON(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return false
	}
	switch trimmed {
	case "null", "false", `""`:
		return false
	}
	var number float64
	if err := json.Unmarshal([]byte(trimmed), &number); err == nil {
		return number != 0
	}
	return true
}

// StorageError wraps a failure of the underlying store during Op.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
