package bot

import "context"

// Echo replies with the last message unchanged. The simplest possible bot
// and a good starting point for writing new ones.
type Echo struct{}

func NewEcho() *Echo { return &Echo{} }

func (b *Echo) Respond(ctx context.Context, conv Conversation) *Stream {
	return Generate(func(emit func(string)) error {
		emit(conv.LastMessage().Content)
		return nil
	})
}
