package server

import (
	"fmt"
	"slices"

	"github.com/nicebartender/bothost/bot"
)

// Entry describes one registered bot: a unique name, a human-readable
// description, and a factory producing a fresh instance per request.
type Entry struct {
	Name        string
	Description string
	New         func() bot.Bot
}

// Registry is the fixed name→bot mapping. It is built once at startup and
// read-only afterwards.
type Registry struct {
	entries map[string]Entry
}

func NewRegistry(entries ...Entry) (*Registry, error) {
	r := &Registry{entries: make(map[string]Entry, len(entries))}
	for _, e := range entries {
		if e.Name == "" || e.New == nil {
			return nil, fmt.Errorf("invalid registry entry %q", e.Name)
		}
		if _, dup := r.entries[e.Name]; dup {
			return nil, fmt.Errorf("duplicate bot name %q", e.Name)
		}
		r.entries[e.Name] = e
	}
	return r, nil
}

func (r *Registry) Get(name string) (Entry, bool) {
	e, ok := r.entries[name]
	return e, ok
}

// Names returns the registered bot names sorted ascending.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (r *Registry) Descriptions() map[string]string {
	descriptions := make(map[string]string, len(r.entries))
	for name, e := range r.entries {
		descriptions[name] = e.Description
	}
	return descriptions
}
