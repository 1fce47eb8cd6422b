package adapters

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Message is a serialized notification destined for a single channel/provider combo.
type Message struct {
	ID          string
	Channel     string
	Provider    string
	Body        string
	ContentType string
	TraceID     string
}

// Capability describes the channels/formats supported by a messenger.
type Capability struct {
	Name     string
	Channels []string
	Formats  []string
}

// Messenger is implemented by channel adapters (Teams, console).
type Messenger interface {
	Name() string
	Capabilities() Capability
	Send(ctx context.Context, msg Message) error
}

// ErrAdapterNotFound is returned when no messenger can satisfy a route.
var ErrAdapterNotFound = errors.New("adapters: no adapter matches route")

// Registry resolves routes such as "chat", "chat:teams" or "console" to a
// registered messenger. Earlier registrations win channel lookups.
type Registry struct {
	mu      sync.RWMutex
	entries []registryEntry
}

type registryEntry struct {
	name      string
	channels  []string
	messenger Messenger
}

func (e registryEntry) serves(channel string) bool {
	for _, ch := range e.channels {
		if ch == channel {
			return true
		}
	}
	return false
}

// NewRegistry builds a registry with the supplied messengers.
func NewRegistry(messengers ...Messenger) *Registry {
	reg := &Registry{}
	for _, m := range messengers {
		reg.Register(m)
	}
	return reg
}

// Register adds m. A messenger registered under an existing name replaces
// the previous one and keeps its position.
func (r *Registry) Register(m Messenger) {
	if r == nil || m == nil {
		return
	}
	entry := registryEntry{name: normalizeKey(m.Name()), messenger: m}
	for _, ch := range m.Capabilities().Channels {
		if key := normalizeKey(ch); key != "" {
			entry.channels = append(entry.channels, key)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.entries {
		if entry.name != "" && r.entries[i].name == entry.name {
			r.entries[i] = entry
			return
		}
	}
	r.entries = append(r.entries, entry)
}

// Route picks a messenger for route. An explicit provider must match an
// adapter name; otherwise the first adapter serving the channel wins, then an
// adapter whose name equals the channel.
func (r *Registry) Route(route string) (Messenger, error) {
	if r == nil {
		return nil, ErrAdapterNotFound
	}
	channel, provider := ParseChannel(route)

	r.mu.RLock()
	defer r.mu.RUnlock()
	if provider != "" {
		if e, ok := r.byName(provider); ok {
			return e.messenger, nil
		}
		return nil, ErrAdapterNotFound
	}
	for _, e := range r.entries {
		if e.serves(channel) {
			return e.messenger, nil
		}
	}
	if e, ok := r.byName(channel); ok {
		return e.messenger, nil
	}
	return nil, ErrAdapterNotFound
}

func (r *Registry) byName(name string) (registryEntry, bool) {
	for _, e := range r.entries {
		if e.name == name {
			return e, true
		}
	}
	return registryEntry{}, false
}

// List returns the messengers serving channel, in registration order.
func (r *Registry) List(route string) []Messenger {
	if r == nil {
		return nil
	}
	channel, _ := ParseChannel(route)
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Messenger
	for _, e := range r.entries {
		if e.serves(channel) {
			out = append(out, e.messenger)
		}
	}
	return out
}

// Describe lists "name (channels)" for every adapter, sorted by name.
func (r *Registry) Describe() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, fmt.Sprintf("%s (%s)", e.name, strings.Join(e.channels, ",")))
	}
	sort.Strings(out)
	return out
}

// ParseChannel splits "<channel>[:provider]" into lower-cased components.
func ParseChannel(value string) (channel string, provider string) {
	channel, provider, _ = strings.Cut(value, ":")
	return normalizeKey(channel), normalizeKey(provider)
}

func normalizeKey(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
