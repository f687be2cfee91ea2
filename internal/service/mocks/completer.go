package mocks

import (
	"context"
	"errors"
)

// MockCompleter is a mock language model client.
type MockCompleter struct {
	CompleteFunc func(ctx context.Context, prompt string) (string, error)
	Prompts      []string
}

// Complete implements the Completer interface and records every prompt.
func (m *MockCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, prompt)
	}
	return "", errors.New("CompleteFunc not implemented")
}
