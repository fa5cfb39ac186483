package llm

import "context"

// Message represents a single message in a conversation between user and assistant.
// Role can be "system", "user", "assistant", or "tool".
type Message struct {
	Role       string // "system", "user", "assistant", or "tool"
	Content    string
	ToolCallID string     // set on role "tool": the call this message answers
	ToolCalls  []ToolCall // set on role "assistant" when the model invoked tools
}

// ToolParameter describes one parameter of a tool in JSON-schema form.
type ToolParameter struct {
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Enum        []string `json:"enum,omitempty"`
}

// ToolDefinition describes a callable tool offered to the model.
// Providers that support native tool-calling translate this into their
// own function-calling schema; providers that don't can fall back to
// embedding the definitions in the prompt text.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  map[string]ToolParameter
	Required    []string
}

// ToolCall is a single invocation the model requested.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string // raw JSON arguments, as returned by the model
}

// CompletionRequest contains all parameters needed for an LLM completion request.
type CompletionRequest struct {
	// Messages is the conversation history including system prompts
	Messages []Message

	// Tools lists tools the model may call. Empty means no tool-calling.
	Tools []ToolDefinition

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative)
	Temperature float32

	// MaxTokens is the maximum number of tokens to generate
	MaxTokens int

	// TopP controls nucleus sampling (0.0-1.0)
	TopP float32

	// Stop sequences that will halt generation
	StopSequences []string

	// Stream enables streaming responses (not implemented in Phase 1)
	Stream bool
}

// CompletionResponse contains the LLM's response to a completion request.
type CompletionResponse struct {
	// Content is the generated text
	Content string

	// ToolCalls holds any tool invocations the model requested natively.
	// Empty when the model answered in plain text, or when the provider
	// has no native tool-calling support — callers then fall back to
	// parsing TOOL_CALL directives out of Content.
	ToolCalls []ToolCall

	// FinishReason indicates why generation stopped ("stop", "length", "tool_calls", "error")
	FinishReason string

	// Usage contains token usage statistics
	Usage UsageStats

	// Model is the actual model used (may differ from requested model)
	Model string
}

// UsageStats tracks token usage for a completion request.
type UsageStats struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Provider defines the interface that all LLM providers must implement.
// This abstraction allows swapping between OpenAI, Anthropic, Ollama, etc.
// No provider-specific type leaks past this boundary.
type Provider interface {
	// Complete generates a completion for the given request.
	// Returns the response or an error if the request fails.
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// Name returns the provider name (e.g., "openai", "anthropic", "ollama")
	Name() string

	// ModelName returns the specific model being used
	ModelName() string

	// SupportsNativeToolCalling reports whether Complete honors CompletionRequest.Tools
	// directly. Callers needing tool use fall back to a regex TOOL_CALL text
	// protocol when this is false.
	SupportsNativeToolCalling() bool

	// SupportsStreaming indicates if this provider supports streaming responses
	SupportsStreaming() bool
}

// Config contains common configuration options for LLM providers.
type Config struct {
	// Provider specifies which LLM provider to use
	Provider string

	// APIKey for authentication (if required)
	APIKey string

	// BaseURL allows overriding the default API endpoint (useful for proxies/local deployments)
	BaseURL string

	// Model specifies which model to use (e.g., "gpt-4", "claude-3-sonnet")
	Model string

	// DefaultTemperature is used when requests don't specify temperature
	DefaultTemperature float32

	// DefaultMaxTokens is used when requests don't specify max tokens
	DefaultMaxTokens int

	// Timeout in seconds for API requests
	TimeoutSeconds int
}
