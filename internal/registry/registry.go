package registry

import "sync"

// Registry maps a connection identifier to the room code it currently
// occupies, with a reverse index so the relay can resolve room membership.
// Missing entries are not errors; a connection without a mapping simply is
// not in a room.
type Registry struct {
	mu      sync.RWMutex
	rooms   map[string]string
	members map[string]map[string]struct{}
}

func New() *Registry {
	return &Registry{
		rooms:   make(map[string]string),
		members: make(map[string]map[string]struct{}),
	}
}

func (that *Registry) Associate(connID, roomCode string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.rooms[connID] = roomCode

	if that.members[roomCode] == nil {
		that.members[roomCode] = make(map[string]struct{})
	}
	that.members[roomCode][connID] = struct{}{}
}

func (that *Registry) Lookup(connID string) (string, bool) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	roomCode, ok := that.rooms[connID]

	return roomCode, ok
}

func (that *Registry) Dissociate(connID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	roomCode, ok := that.rooms[connID]
	if !ok {
		return
	}

	delete(that.rooms, connID)

	if members, ok := that.members[roomCode]; ok {
		delete(members, connID)
		if len(members) == 0 {
			delete(that.members, roomCode)
		}
	}
}

// Members - returns the connections currently associated with the room.
func (that *Registry) Members(roomCode string) []string {
	that.mu.RLock()
	defer that.mu.RUnlock()

	members := make([]string, 0, len(that.members[roomCode]))
	for connID := range that.members[roomCode] {
		members = append(members, connID)
	}

	return members
}
