package chat

import (
	"net"
	"sync"
)

// Participant is a registered long-lived connection eligible to receive
// broadcast messages. Writes to the connection are serialized so that
// backlog delivery and fan-out from other sessions cannot interleave.
type Participant struct {
	Username string

	conn    net.Conn
	writeMu sync.Mutex
}

// NewParticipant wraps a connection as a broadcast recipient.
func NewParticipant(username string, conn net.Conn) *Participant {
	return &Participant{Username: username, conn: conn}
}

// Send writes one line to the participant's connection.
func (p *Participant) Send(line string) error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	_, err := p.conn.Write([]byte(line))
	return err
}

// Close closes the participant's connection.
func (p *Participant) Close() error {
	return p.conn.Close()
}

// Registry is the in-memory set of currently connected participants.
// It may hold multiple participants registered under the same username;
// the protocol does not enforce uniqueness.
type Registry struct {
	mu           sync.Mutex
	participants map[*Participant]struct{}
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{participants: make(map[*Participant]struct{})}
}

// Add registers a participant.
func (r *Registry) Add(p *Participant) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.participants[p] = struct{}{}
}

// Remove unregisters a participant. Removing an absent participant is a no-op.
func (r *Registry) Remove(p *Participant) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.participants, p)
}

// Len reports the number of registered participants.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.participants)
}

// SnapshotExcluding returns a copy of the current participants whose username
// differs from the given one. The copy is taken under the lock and iterated
// without it, so slow sends never block registration or removal.
func (r *Registry) SnapshotExcluding(username string) []*Participant {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := make([]*Participant, 0, len(r.participants))
	for p := range r.participants {
		if p.Username != username {
			snapshot = append(snapshot, p)
		}
	}
	return snapshot
}
