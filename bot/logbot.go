package bot

import (
	"context"
	"log/slog"
)

// Log echoes the message back and records both sides of the exchange in
// the server log. The log lines are a side effect only; they are not part
// of the HTTP contract.
type Log struct{}

func NewLog() *Log { return &Log{} }

func (b *Log) Respond(ctx context.Context, conv Conversation) *Stream {
	return Generate(func(emit func(string)) error {
		msg := conv.LastMessage().Content
		slog.Info("received message", "content", msg)

		response := "I received your message and logged it: " + msg
		slog.Info("sending response", "content", response)

		emit(response)
		return nil
	})
}
