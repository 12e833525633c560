package mock

import (
	"context"

	"github.com/kiranshivaraju/docsense/internal/llm"
)

// Client satisfies llm.Client for testing.
type Client struct {
	Name_        string
	Model_       string
	CompleteFunc func(ctx context.Context, system, user string) (string, error)
}

func (m *Client) Name() string {
	if m.Name_ == "" {
		return "mock"
	}
	return m.Name_
}

func (m *Client) Model() string {
	if m.Model_ == "" {
		return "mock-v1"
	}
	return m.Model_
}

func (m *Client) Complete(ctx context.Context, system, user string) (string, error) {
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, system, user)
	}
	return "{}", nil
}

// NewStaticClient returns a Client that always answers with the given text.
func NewStaticClient(response string) *Client {
	return &Client{
		CompleteFunc: func(_ context.Context, _, _ string) (string, error) {
			return response, nil
		},
	}
}

// NewFailingClient returns a Client that always returns the given error.
func NewFailingClient(err error) *Client {
	return &Client{
		Name_: "mock-failing",
		CompleteFunc: func(_ context.Context, _, _ string) (string, error) {
			return "", err
		},
	}
}

// NewTimeoutClient returns a Client that blocks until context is cancelled.
func NewTimeoutClient() *Client {
	return &Client{
		Name_: "mock-timeout",
		CompleteFunc: func(ctx context.Context, _, _ string) (string, error) {
			<-ctx.Done()
			return "", llm.ErrTimeout
		},
	}
}

// Compile-time check that Client implements llm.Client.
var _ llm.Client = (*Client)(nil)
