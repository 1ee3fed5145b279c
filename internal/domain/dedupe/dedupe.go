// Package dedupe tracks match ids already applied to a rating store.
package dedupe

import (
	"container/list"
	"context"
	"strings"
	"sync"
)

// Deduper records seen match ids so a replayed record is applied at most once.
type Deduper interface {
	// SeenAndRecord reports whether id was already recorded and records it
	// if not.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord forgets id. Used when a match was recorded but then skipped,
	// so a corrected copy later in the feed can still be applied.
	Unrecord(ctx context.Context, id string)

	Size() int
}

// inMemoryDeduper keeps ids in a map. In bounded mode the oldest id is
// evicted once maxSize is reached.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]*list.Element
	order   *list.List
	maxSize int // <= 0 means unbounded
}

// NewInMemoryDeduper creates an unbounded deduper unless WithMaxSize is given.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		seen:  make(map[string]*list.Element),
		order: list.New(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, id string) bool {
	key := normalize(id)
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[key]; ok {
		return true
	}
	if d.maxSize > 0 && len(d.seen) >= d.maxSize {
		if oldest := d.order.Front(); oldest != nil {
			delete(d.seen, oldest.Value.(string))
			d.order.Remove(oldest)
		}
	}
	d.seen[key] = d.order.PushBack(key)
	return false
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, id string) {
	key := normalize(id)
	d.mu.Lock()
	defer d.mu.Unlock()

	if el, ok := d.seen[key]; ok {
		d.order.Remove(el)
		delete(d.seen, key)
	}
}

func (d *inMemoryDeduper) Size() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}

// Match ids from different extractors differ in case and padding.
func normalize(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
