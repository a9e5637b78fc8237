package skim

import "sync"

// ItemPool is the append-only shared buffer of candidate items plus a
// read cursor. The Reader writes, the Event Loop also appends items
// synthesized by append-and-select, and the Matcher reads. No
// header_lines prefix is reserved: every appended item is handed to the
// Matcher. A short
// critical section protects both the slice and the cursor, grounded on
// the locking discipline of github.com/junegunn/fzf's
// src/chunklist.go, simplified to a single slice since this engine's
// take-new/rescan cadence already batches reads coarsely enough that
// chunking buys nothing extra.
type ItemPool struct {
	mu    sync.Mutex
	items []*Item
	taken int
}

// NewItemPool returns an empty ItemPool.
func NewItemPool() *ItemPool {
	return &ItemPool{}
}

// Append atomically extends the pool with batch, which becomes visible
// as one contiguous extension.
func (p *ItemPool) Append(batch []*Item) {
	if len(batch) == 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items = append(p.items, batch...)
}

// TakeNew returns the items appended since the last TakeNew/Reset,
// advancing the cursor.
func (p *ItemPool) TakeNew() []*Item {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.taken >= len(p.items) {
		return nil
	}
	batch := make([]*Item, len(p.items)-p.taken)
	copy(batch, p.items[p.taken:])
	p.taken = len(p.items)
	return batch
}

// NumNotTaken returns how many items have been appended since the last
// TakeNew/Reset.
func (p *ItemPool) NumNotTaken() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.items) - p.taken
}

// Reset rewinds the cursor to zero without discarding any items, so the
// next TakeNew returns everything. Used when the query changes.
func (p *ItemPool) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.taken = 0
}

// Clear empties the pool and resets the cursor. Used when the underlying
// command changes and prior items become stale.
func (p *ItemPool) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items = nil
	p.taken = 0
}

// Len returns the total item count.
func (p *ItemPool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.items)
}
