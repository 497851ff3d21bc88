package common

const (
	// MaxSubmissionRequestBody limits JSON request bodies for submission endpoints.
	MaxSubmissionRequestBody = 1 << 20
	// StatusError is the status value carried by every error response body.
	StatusError = "error"
)
