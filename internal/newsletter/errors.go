package newsletter

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"

	openai "github.com/sashabaranov/go-openai"
)

// Provider failure kinds. Errors returned by providers wrap exactly one of these.
var (
	ErrConnection     = errors.New("connection error")
	ErrTimeout        = errors.New("request timed out")
	ErrAuthentication = errors.New("authentication failed")
	ErrAPI            = errors.New("API error")
)

// ErrEmptyOutput is returned when the model answered with blank text.
var ErrEmptyOutput = errors.New("model returned an empty newsletter")

// IsProviderError reports whether err is any provider failure kind.
func IsProviderError(err error) bool {
	return errors.Is(err, ErrConnection) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrAuthentication) ||
		errors.Is(err, ErrAPI)
}

// classifyError maps a go-openai client error onto a failure kind, keeping the
// original error in the chain.
func classifyError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", errorKind(err), err)
}

func errorKind(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return kindForStatus(apiErr.HTTPStatusCode)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return kindForStatus(reqErr.HTTPStatusCode)
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return ErrConnection
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return ErrConnection
	}

	return ErrAPI
}

func kindForStatus(status int) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrAuthentication
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return ErrTimeout
	default:
		return ErrAPI
	}
}
