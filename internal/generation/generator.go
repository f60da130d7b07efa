package generation

import "context"

// GenerateRequest is one stateless model call. Schema is the contract
// description the output must follow.
type GenerateRequest struct {
	SystemPrompt string
	UserPrompt   string
	Schema       string
}

// Generator is the model boundary. Implementations make exactly one outbound
// call per invocation and never retry.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, req GenerateRequest) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	return f(ctx, req)
}
