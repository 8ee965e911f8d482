package newsletter

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected error
	}{
		{"deadline", context.DeadlineExceeded, ErrTimeout},
		{"wrapped deadline", &url.Error{Op: "Post", URL: "http://x", Err: context.DeadlineExceeded}, ErrTimeout},
		{"refused", &url.Error{Op: "Post", URL: "http://x", Err: &net.OpError{Op: "dial", Err: errors.New("connection refused")}}, ErrConnection},
		{"canceled", &url.Error{Op: "Post", URL: "http://x", Err: context.Canceled}, ErrConnection},
		{"unauthorized", &openai.APIError{HTTPStatusCode: 401, Message: "bad key"}, ErrAuthentication},
		{"forbidden request", &openai.RequestError{HTTPStatusCode: 403}, ErrAuthentication},
		{"request timeout", &openai.RequestError{HTTPStatusCode: 408}, ErrTimeout},
		{"bad request", &openai.APIError{HTTPStatusCode: 400, Message: "bad model"}, ErrAPI},
		{"server error", &openai.RequestError{HTTPStatusCode: 500}, ErrAPI},
		{"unknown", errors.New("boom"), ErrAPI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyError(tt.err)
			assert.ErrorIs(t, err, tt.expected)
			assert.ErrorIs(t, err, tt.err)
			assert.True(t, IsProviderError(err))
		})
	}
}

func TestClassifyErrorNil(t *testing.T) {
	assert.NoError(t, classifyError(nil))
}

func TestIsProviderError(t *testing.T) {
	assert.False(t, IsProviderError(ErrEmptyOutput))
	assert.False(t, IsProviderError(errors.New("other")))
	assert.True(t, IsProviderError(fmt.Errorf("wrapped: %w", ErrConnection)))
}
