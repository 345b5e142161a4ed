package bot

import (
	"context"
	"fmt"
)

const promptTemplate = `
You are a helpful assistant. Please respond to the following message:

%s

Remember to be polite and professional.
`

// Prompt wraps the last message in a fixed assistant prompt template.
type Prompt struct{}

func NewPrompt() *Prompt { return &Prompt{} }

func (b *Prompt) Respond(ctx context.Context, conv Conversation) *Stream {
	return Generate(func(emit func(string)) error {
		emit(fmt.Sprintf(promptTemplate, conv.LastMessage().Content))
		return nil
	})
}
