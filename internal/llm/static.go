package llm

import "context"

// StaticChatClient returns a fixed completion for every call. It keeps
// the rubric pipeline runnable when no provider credentials are set.
type StaticChatClient struct {
	Reply string
}

func NewStaticChatClient(reply string) *StaticChatClient {
	return &StaticChatClient{Reply: reply}
}

func (c *StaticChatClient) CreateCompletion(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return c.Reply, nil
}
