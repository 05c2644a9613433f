package gemini

import (
	"errors"
	"testing"

	"github.com/shpitdev/syllabus-catalog/internal/gen"
	"google.golang.org/genai"
)

type tempNetErr struct{}

func (tempNetErr) Error() string   { return "temp net err" }
func (tempNetErr) Timeout() bool   { return false }
func (tempNetErr) Temporary() bool { return true }

func TestClassifyErr(t *testing.T) {
	tests := []struct {
		name          string
		in            error
		wantRateLimit bool
		wantTransient bool
	}{
		{name: "nil", in: nil},
		{name: "api_429", in: genai.APIError{Code: 429}, wantRateLimit: true},
		{name: "api_500", in: genai.APIError{Code: 500}, wantTransient: true},
		{name: "api_503", in: genai.APIError{Code: 503}, wantTransient: true},
		{name: "api_401", in: genai.APIError{Code: 401}},
		{name: "net_temporary", in: tempNetErr{}, wantTransient: true},
		{name: "wrapped_api_429", in: errors.New(genai.APIError{Code: 429}.Error())},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyErr(tt.in)
			var rle *gen.RateLimitError
			isRateLimit := errors.As(got, &rle)
			if isRateLimit != tt.wantRateLimit {
				t.Fatalf("rate limit=%v want=%v (err=%T %v)", isRateLimit, tt.wantRateLimit, got, got)
			}
			var te *gen.TransientError
			isTransient := errors.As(got, &te)
			if isTransient != tt.wantTransient {
				t.Fatalf("transient=%v want=%v (err=%T %v)", isTransient, tt.wantTransient, got, got)
			}
		})
	}
}
