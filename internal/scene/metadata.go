package scene

import (
	"sort"
	"sync"
)

// MetadataStore persists string key/value pairs per object.
type MetadataStore interface {
	// Load returns every pair stored for objectID. A missing object
	// yields an empty map and no error.
	Load(objectID string) (map[string]string, error)
	// Save upserts the given pairs for objectID.
	Save(objectID string, kv map[string]string) error
	// Delete removes all pairs stored for objectID.
	Delete(objectID string) error
}

// MemoryMetadata is an in-process MetadataStore.
type MemoryMetadata struct {
	mu   sync.Mutex
	data map[string]map[string]string
}

// NewMemoryMetadata returns an empty in-memory store.
func NewMemoryMetadata() *MemoryMetadata {
	return &MemoryMetadata{data: make(map[string]map[string]string)}
}

// Load returns a copy of the pairs for objectID.
func (m *MemoryMetadata) Load(objectID string) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.data[objectID]))
	for k, v := range m.data[objectID] {
		out[k] = v
	}
	return out, nil
}

// Save upserts kv for objectID.
func (m *MemoryMetadata) Save(objectID string, kv map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	dst := m.data[objectID]
	if dst == nil {
		dst = make(map[string]string, len(kv))
		m.data[objectID] = dst
	}
	for k, v := range kv {
		dst[k] = v
	}
	return nil
}

// Delete drops every pair for objectID.
func (m *MemoryMetadata) Delete(objectID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, objectID)
	return nil
}

// ObjectIDs returns the IDs with stored metadata, sorted.
func (m *MemoryMetadata) ObjectIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.data))
	for id := range m.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
