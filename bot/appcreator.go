package bot

import (
	"context"

	"github.com/nicebartender/bothost/platform"
)

// appCreatorHandle is the hosted bot the app-creator bot delegates to.
const appCreatorHandle = "App-Creator"

// AppCreator forwards the last message to a hosted bot on the platform
// and re-streams its reply fragment for fragment, in order, undelayed.
// Faults from the delegate propagate as stream errors.
type AppCreator struct {
	pool   *platform.Pool
	url    string
	key    string
	handle string
}

func NewAppCreator(pool *platform.Pool, url, key string) *AppCreator {
	return &AppCreator{pool: pool, url: url, key: key, handle: appCreatorHandle}
}

func (b *AppCreator) Respond(ctx context.Context, conv Conversation) *Stream {
	return Generate(func(emit func(string)) error {
		client, err := b.pool.Get(b.url, b.key)
		if err != nil {
			return err
		}
		return client.QueryBot(ctx, b.handle, conv.LastMessage().Content, emit)
	})
}

func (b *AppCreator) Settings() map[string]any {
	return map[string]any{"delegate": b.handle}
}
