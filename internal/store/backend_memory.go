package store

import "sync"

// MemoryBackend is an in-process Backend. The zero value is ready to use.
type MemoryBackend struct {
	mu    sync.Mutex
	slots map[string]string
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

func (b *MemoryBackend) Get(key string) (string, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.slots[key]
	return v, ok, nil
}

func (b *MemoryBackend) Set(key, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.slots == nil {
		b.slots = map[string]string{}
	}
	b.slots[key] = value
	return nil
}

func (b *MemoryBackend) Remove(key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.slots, key)
	return nil
}

// Keys returns the slot keys currently set, in no particular order.
func (b *MemoryBackend) Keys() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.slots))
	for k := range b.slots {
		out = append(out, k)
	}
	return out
}
