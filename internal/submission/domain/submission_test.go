package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTruthyJSON(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{raw: ``, want: false},
		{raw: `null`, want: false},
		{raw: `false`, want: false},
		{raw: `0`, want: false},
		{raw: `0.0`, want: false},
		{raw: `""`, want: false},
		{raw: ` null `, want: false},
		{raw: `true`, want: true},
		{raw: `1`, want: true},
		{raw: `"x"`, want: true},
		{raw: `{}`, want: true},
		{raw: `[]`, want: true},
		{raw: `{"a":1}`, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTruthyJSON(json.RawMessage(tt.raw)))
		})
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Missing: []string{"display_text", "all_responses"}}
	assert.Equal(t, "Missing required fields: display_text, all_responses", err.Error())
}
