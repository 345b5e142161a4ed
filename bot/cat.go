package bot

import (
	"context"
	"math/rand/v2"
	"strings"
)

var catFacts = []string{
	"Cats spend 70% of their lives sleeping.",
	"A cat's nose print is unique, much like a human's fingerprint.",
	"Cats have 32 muscles in each ear.",
	"A group of cats is called a clowder.",
	"Cats can't taste sweetness.",
	"A cat can jump up to six times its length.",
}

var catResponses = []string{
	"Meow! 🐱",
	"Purrrr... 😺",
	"Mrrrow! 😸",
	"*stretches and yawns* 😽",
	"*rubs against your leg* 😺",
}

// Cat replies with a cat fact when asked for one and a cat noise
// otherwise.
type Cat struct{}

func NewCat() *Cat { return &Cat{} }

func (b *Cat) Respond(ctx context.Context, conv Conversation) *Stream {
	return Generate(func(emit func(string)) error {
		msg := strings.ToLower(conv.LastMessage().Content)
		if strings.Contains(msg, "fact") {
			emit("Here's a cat fact: " + catFacts[rand.IntN(len(catFacts))])
		} else {
			emit(catResponses[rand.IntN(len(catResponses))])
		}
		return nil
	})
}
