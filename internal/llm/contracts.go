package llm

import "context"

// Provider is one configured LLM backend. Implementations return the raw
// assistant text; parsing and normalization happen upstream.
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt, systemPrompt string) (string, error)
}

// Spec binds a provider to its position in the failover chain. Specs are
// built once at router construction from the available credentials; their
// order is the failover priority.
type Spec struct {
	Name     string
	Model    string
	Provider Provider
}

// ChatMessage is the OpenAI-style message shape shared by provider clients.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// BuildMessages assembles the message list for a chat-completions call.
func BuildMessages(prompt, systemPrompt string) []ChatMessage {
	msgs := make([]ChatMessage, 0, 2)
	if systemPrompt != "" {
		msgs = append(msgs, ChatMessage{Role: "system", Content: systemPrompt})
	}
	msgs = append(msgs, ChatMessage{Role: "user", Content: prompt})
	return msgs
}
