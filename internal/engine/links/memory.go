package links

import (
	"context"
	"sort"
	"sync"
)

type memoryEntry struct {
	link Link
	seq  uint64
}

// MemoryStore keeps links in a map guarded by one mutex. Links are copied in
// and out so callers never share state with the store.
type MemoryStore struct {
	mu    sync.RWMutex
	links map[string]memoryEntry
	seq   uint64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{links: make(map[string]memoryEntry)}
}

func (m *MemoryStore) Create(_ context.Context, link *Link) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.links[link.ShortCode]; exists {
		return ErrShortCodeTaken
	}
	m.seq++
	m.links[link.ShortCode] = memoryEntry{link: *link, seq: m.seq}
	return nil
}

func (m *MemoryStore) GetByShortCode(_ context.Context, shortCode string) (*Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.links[shortCode]
	if !ok {
		return nil, nil
	}
	link := entry.link
	return &link, nil
}

func (m *MemoryStore) ExistsByShortCode(_ context.Context, shortCode string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.links[shortCode]
	return ok, nil
}

// ListByOwner returns the owner's links, newest first.
func (m *MemoryStore) ListByOwner(_ context.Context, ownerID string) ([]*Link, error) {
	m.mu.RLock()
	entries := make([]memoryEntry, 0)
	for _, entry := range m.links {
		if entry.link.OwnerID == ownerID {
			entries = append(entries, entry)
		}
	}
	m.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool { return entries[i].seq > entries[j].seq })

	links := make([]*Link, len(entries))
	for i := range entries {
		link := entries[i].link
		links[i] = &link
	}
	return links, nil
}

func (m *MemoryStore) UpdateLongURL(_ context.Context, shortCode, longURL string, updatedAt int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.links[shortCode]
	if !ok {
		return ErrLinkNotFound
	}
	entry.link.LongURL = longURL
	entry.link.UpdatedAt = updatedAt
	m.links[shortCode] = entry
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, shortCode string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.links[shortCode]; !ok {
		return ErrLinkNotFound
	}
	delete(m.links, shortCode)
	return nil
}

func (m *MemoryStore) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.links), nil
}

func (m *MemoryStore) Ping(_ context.Context) error {
	return nil
}
