package llm

import "context"

// MockClient permite tests sin llamar a un LLM real.
type MockClient struct {
	Response string
	Err      error

	LastSystemPrompt string
	LastPrompt       string
}

func (m *MockClient) Generate(_ context.Context, systemPrompt, prompt string) (string, error) {
	m.LastSystemPrompt = systemPrompt
	m.LastPrompt = prompt
	return m.Response, m.Err
}
