package gemini

import (
	"errors"
	"testing"

	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("boom"), false},
		{"rate limited", genai.APIError{Code: 429}, true},
		{"internal", genai.APIError{Code: 500}, true},
		{"bad gateway", genai.APIError{Code: 502}, true},
		{"unavailable", genai.APIError{Code: 503}, true},
		{"gateway timeout", genai.APIError{Code: 504}, true},
		{"unauthorized", genai.APIError{Code: 401}, false},
		{"bad request", genai.APIError{Code: 400}, false},
		{"wrapped transient", wrapped(genai.APIError{Code: 503}), true},
		{"googleapi unavailable", &googleapi.Error{Code: 503}, true},
		{"googleapi forbidden", &googleapi.Error{Code: 403}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTransient(tt.err); got != tt.want {
				t.Errorf("IsTransient(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func wrapped(err error) error {
	return errors.Join(errors.New("call failed"), err)
}
