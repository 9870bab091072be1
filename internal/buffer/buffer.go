// Package buffer holds the visible, optimistically mutated collection of
// records the presentation layer reads. All mutation goes through one mutex
// so overlapping task completions cannot lose updates; readers get copies.
package buffer

import (
	"sync"

	"github.com/planmark/planmark/internal/models"
)

// Identified is any record carrying a models.ID.
type Identified interface {
	RecordID() models.ID
}

// Buffer is the single-writer visible collection for one record type.
type Buffer[T Identified] struct {
	mu    sync.Mutex
	items []T
}

// New returns an empty buffer.
func New[T Identified]() *Buffer[T] {
	return &Buffer[T]{}
}

// Snapshot returns a copy of the visible collection.
func (b *Buffer[T]) Snapshot() []T {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]T, len(b.items))
	copy(out, b.items)
	return out
}

// Len returns the number of visible records.
func (b *Buffer[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// Get returns the record with the given id.
func (b *Buffer[T]) Get(id models.ID) (T, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, it := range b.items {
		if it.RecordID() == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// InsertOptimistic appends a record before the remote authority has
// confirmed it. The record must carry a pending ID.
func (b *Buffer[T]) InsertOptimistic(item T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = append(b.items, item)
}

// Reconcile folds an authoritative record into the collection:
//
//  1. If a record with the authoritative ID is already present, it is
//     replaced in place. A second Reconcile with the same record is
//     therefore a no-op, never a duplicate.
//  2. Otherwise the first pending record matching match is replaced.
//  3. Otherwise the record is appended (a full refetch may have already
//     dropped the placeholder).
//
// Idempotence is keyed on confirmed-vs-pending ID state, never on content
// equality: two blank rectangles drawn at different times must not collide.
func (b *Buffer[T]) Reconcile(match func(T) bool, authoritative T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := authoritative.RecordID()
	for i, it := range b.items {
		if it.RecordID() == id {
			b.items[i] = authoritative
			return
		}
	}
	for i, it := range b.items {
		if it.RecordID().IsPending() && match(it) {
			b.items[i] = authoritative
			return
		}
	}
	b.items = append(b.items, authoritative)
}

// Update replaces the record with the given id by fn's result. Returns false
// if the id is not present.
func (b *Buffer[T]) Update(id models.ID, fn func(T) T) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, it := range b.items {
		if it.RecordID() == id {
			b.items[i] = fn(it)
			return true
		}
	}
	return false
}

// Remove deletes the record with the given id.
func (b *Buffer[T]) Remove(id models.ID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, it := range b.items {
		if it.RecordID() == id {
			b.items = append(b.items[:i], b.items[i+1:]...)
			return true
		}
	}
	return false
}

// ReplaceAll swaps in a freshly fetched collection. Placeholders the fetch
// does not corroborate are dropped silently.
func (b *Buffer[T]) ReplaceAll(items []T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = make([]T, len(items))
	copy(b.items, items)
}
