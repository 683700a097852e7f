package chat

import (
	"context"
	"sync"

	"unitrader/pkg/platform/sentinel"
)

// Message is a sent text, retained for inspection in tests and local runs.
type Message struct {
	FromUID string
	ToUID   string
	Text    string
}

// InMemoryDirectory is the local stand-in for the messaging collaborator.
type InMemoryDirectory struct {
	mu       sync.RWMutex
	peers    map[string]Peer
	messages []Message
}

func NewInMemoryDirectory() *InMemoryDirectory {
	return &InMemoryDirectory{peers: make(map[string]Peer)}
}

func (d *InMemoryDirectory) Lookup(_ context.Context, uid string) (Peer, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	peer, ok := d.peers[uid]
	if !ok {
		return Peer{}, sentinel.ErrNotFound
	}
	return peer, nil
}

func (d *InMemoryDirectory) Create(_ context.Context, peer Peer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.peers[peer.UID]; ok {
		return sentinel.ErrConflict
	}
	d.peers[peer.UID] = peer
	return nil
}

func (d *InMemoryDirectory) SendText(_ context.Context, fromUID, toUID, text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.peers[toUID]; !ok {
		return sentinel.ErrNotFound
	}
	d.messages = append(d.messages, Message{FromUID: fromUID, ToUID: toUID, Text: text})
	return nil
}

// Messages returns a copy of everything sent so far.
func (d *InMemoryDirectory) Messages() []Message {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Message, len(d.messages))
	copy(out, d.messages)
	return out
}
