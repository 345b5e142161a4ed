package bot

import "context"

// Role identifies the sender of a conversation message.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Message is one turn in a conversation.
type Message struct {
	Role        Role   `json:"role"`
	Content     string `json:"content"`
	ContentType string `json:"content_type,omitempty"`
}

// Conversation is the query payload the platform sends to a bot: the
// ordered message history, most recent last.
type Conversation struct {
	Query          []Message `json:"query"`
	UserID         string    `json:"user_id,omitempty"`
	ConversationID string    `json:"conversation_id,omitempty"`
}

// LastMessage returns the most recent message, or the zero Message when
// the conversation is empty.
func (c Conversation) LastMessage() Message {
	if len(c.Query) == 0 {
		return Message{}
	}
	return c.Query[len(c.Query)-1]
}

// Bot produces a reply to a conversation as a stream of fragments. The
// dispatcher constructs a fresh instance per request, so implementations
// must not rely on state surviving across calls.
type Bot interface {
	Respond(ctx context.Context, conv Conversation) *Stream
}

// SettingsProvider is an optional capability for bots that expose
// configuration to the admin interface. The dispatcher checks for it with
// a type assertion; bots without it report empty settings.
type SettingsProvider interface {
	Settings() map[string]any
}
