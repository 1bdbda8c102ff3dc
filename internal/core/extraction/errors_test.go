package extraction

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"
)

func TestClassifyStatusCodes(t *testing.T) {
	cases := []struct {
		code int
		want ErrorKind
	}{
		{http.StatusTooManyRequests, ErrRateLimit},
		{http.StatusUnauthorized, ErrAuthFailure},
		{http.StatusForbidden, ErrAuthFailure},
		{http.StatusGatewayTimeout, ErrTimeout},
		{http.StatusInternalServerError, ErrRateLimit},
		{http.StatusBadRequest, ErrUnknown},
	}
	for _, tc := range cases {
		err := &googleapi.Error{Code: tc.code}
		assert.Equal(t, tc.want, Classify(err), "status %d", tc.code)
	}
}

func TestClassifyOpenAIError(t *testing.T) {
	err := &openai.APIError{HTTPStatusCode: http.StatusTooManyRequests}
	assert.Equal(t, ErrRateLimit, Classify(err))
}

func TestClassifyDeadline(t *testing.T) {
	assert.Equal(t, ErrTimeout, Classify(context.DeadlineExceeded))
}

func TestClassifyWrappedError(t *testing.T) {
	inner := &Error{Kind: ErrMalformedResponse, Document: "a.pdf", Err: errors.New("bad json")}
	wrapped := errors.Join(errors.New("outer"), inner)
	assert.Equal(t, ErrMalformedResponse, Classify(wrapped))
}

func TestClassifyUnknown(t *testing.T) {
	assert.Equal(t, ErrUnknown, Classify(errors.New("something odd")))
	assert.Equal(t, ErrUnknown, Classify(nil))
}

func TestTransient(t *testing.T) {
	assert.True(t, ErrRateLimit.Transient())
	assert.True(t, ErrTimeout.Transient())
	assert.False(t, ErrAuthFailure.Transient())
	assert.False(t, ErrMalformedResponse.Transient())
	assert.False(t, ErrUnknown.Transient())
}

func TestErrorFormatting(t *testing.T) {
	inner := errors.New("429 too many requests")
	err := &Error{Kind: ErrRateLimit, Document: "loan.pdf", Err: inner}
	assert.Contains(t, err.Error(), "loan.pdf")
	assert.Contains(t, err.Error(), "rate_limit")
	assert.ErrorIs(t, err, inner)
}
