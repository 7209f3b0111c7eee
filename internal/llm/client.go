// Package llm abstracts the single-call LLM capability the rubric
// evaluator depends on.
package llm

import "context"

// ChatClient is the narrow LLM capability: one completion call with a
// system and user prompt, returning the raw model output. The rubric
// evaluator owns prompt construction and response parsing; vendors sit
// behind this seam.
type ChatClient interface {
	CreateCompletion(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
