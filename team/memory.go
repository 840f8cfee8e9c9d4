package team

import (
	"context"
	"sync"
)

// MemoryManager is an in-memory Manager used by tests and for seeding
// demo data. Safe for concurrent use.
type MemoryManager struct {
	mu      sync.RWMutex
	members map[string]*Member
}

// NewMemoryManager creates an empty in-memory manager.
func NewMemoryManager() *MemoryManager {
	return &MemoryManager{members: make(map[string]*Member)}
}

// Put stores or replaces a member.
func (m *MemoryManager) Put(member *Member) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.members[member.ID] = member
}

// GetTeamMember returns the member with the given ID, or (nil, nil)
// when absent.
func (m *MemoryManager) GetTeamMember(_ context.Context, id string) (*Member, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.members[id], nil
}

// List returns all members in unspecified order.
func (m *MemoryManager) List() []*Member {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Member, 0, len(m.members))
	for _, member := range m.members {
		out = append(out, member)
	}
	return out
}
