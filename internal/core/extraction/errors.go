package extraction

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/liushuangls/go-anthropic/v2"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/api/googleapi"
)

// ErrorKind classifies extraction-service failures. Transient kinds are
// retried; everything else fails the document immediately.
type ErrorKind string

const (
	ErrRateLimit         ErrorKind = "rate_limit"
	ErrTimeout           ErrorKind = "timeout"
	ErrMalformedResponse ErrorKind = "malformed_response"
	ErrAuthFailure       ErrorKind = "auth_failure"
	ErrUnknown           ErrorKind = "unknown"
)

// Transient reports whether a kind is worth retrying.
func (k ErrorKind) Transient() bool {
	return k == ErrRateLimit || k == ErrTimeout
}

// Error is the typed failure the extraction client returns after local
// handling is exhausted. It carries the last error's kind so the caller can
// decide whether to bucket the document for manual review.
type Error struct {
	Kind     ErrorKind
	Document string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("extraction of %s failed (%s): %v", e.Document, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Classify maps an error from any of the provider SDKs onto the taxonomy.
func Classify(err error) ErrorKind {
	if err == nil {
		return ErrUnknown
	}

	var xerr *Error
	if errors.As(err, &xerr) {
		return xerr.Kind
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return kindForStatus(gerr.Code)
	}

	var oerr *openai.APIError
	if errors.As(err, &oerr) {
		return kindForStatus(oerr.HTTPStatusCode)
	}
	var oreq *openai.RequestError
	if errors.As(err, &oreq) {
		return kindForStatus(oreq.HTTPStatusCode)
	}

	var aerr *anthropic.APIError
	if errors.As(err, &aerr) {
		switch aerr.Type {
		case anthropic.ErrTypeRateLimit, anthropic.ErrTypeOverloaded:
			return ErrRateLimit
		case anthropic.ErrTypeAuthentication, anthropic.ErrTypePermission:
			return ErrAuthFailure
		}
		return ErrUnknown
	}
	var areq *anthropic.RequestError
	if errors.As(err, &areq) {
		return kindForStatus(areq.StatusCode)
	}

	return ErrUnknown
}

func kindForStatus(code int) ErrorKind {
	switch code {
	case http.StatusTooManyRequests:
		return ErrRateLimit
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrAuthFailure
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return ErrTimeout
	}
	if code >= 500 {
		// Service-side hiccups behave like rate limiting: back off and retry.
		return ErrRateLimit
	}
	return ErrUnknown
}
