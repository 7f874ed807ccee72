package services

import (
	"context"
	"sync"

	"github.com/duskmantle/beacon/pkg/state"
)

// MockLLMAPI is a mock implementation of LLMService for testing
type MockLLMAPI struct {
	ChatCompletionFunc func(ctx context.Context, cfg state.LiveConfig, messages []ChatMessage) (string, error)

	// Track calls for testing
	ChatCompletionCalls []ChatCompletionCall

	mu sync.Mutex // protects all fields above
}

type ChatCompletionCall struct {
	Config   state.LiveConfig
	Messages []ChatMessage
}

// NewMockLLMAPI creates a new mock LLM service
func NewMockLLMAPI() *MockLLMAPI {
	return &MockLLMAPI{
		ChatCompletionCalls: make([]ChatCompletionCall, 0),
	}
}

// ChatCompletion mocks a chat completion round trip
func (m *MockLLMAPI) ChatCompletion(ctx context.Context, cfg state.LiveConfig, messages []ChatMessage) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ChatCompletionCalls = append(m.ChatCompletionCalls, ChatCompletionCall{
		Config:   cfg,
		Messages: messages,
	})

	if m.ChatCompletionFunc != nil {
		return m.ChatCompletionFunc(ctx, cfg, messages)
	}

	// Default behavior - a minimal well-formed turn
	return `{"text":"Mock narration.","visual":"mock","choices":["Continue"],"update_stats":{}}`, nil
}

// SetChatCompletionError sets up the mock to return an error on ChatCompletion
func (m *MockLLMAPI) SetChatCompletionError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ChatCompletionFunc = func(ctx context.Context, cfg state.LiveConfig, messages []ChatMessage) (string, error) {
		return "", err
	}
}

// SetChatCompletionResponse sets up the mock to return a fixed reply
func (m *MockLLMAPI) SetChatCompletionResponse(reply string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ChatCompletionFunc = func(ctx context.Context, cfg state.LiveConfig, messages []ChatMessage) (string, error) {
		return reply, nil
	}
}

// Reset clears all call tracking
func (m *MockLLMAPI) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ChatCompletionCalls = make([]ChatCompletionCall, 0)
	m.ChatCompletionFunc = nil
}

// GetCalls returns a copy of the call tracking data in a thread-safe way
func (m *MockLLMAPI) GetCalls() []ChatCompletionCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	calls := make([]ChatCompletionCall, len(m.ChatCompletionCalls))
	copy(calls, m.ChatCompletionCalls)
	return calls
}
