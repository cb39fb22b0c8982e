package item

import "sort"

// Bucket is an ordered, duplicate-tolerant collection with one operation
// beyond the usual sequence set: Fetch, which atomically extracts every
// element matching a predicate. Templates use it to destructively
// partition a mixed item collection into sub-views without revisiting
// already-claimed elements.
type Bucket[T any] struct {
	items []T
}

// NewBucket builds a bucket holding the given elements in order.
func NewBucket[T any](items ...T) *Bucket[T] {
	b := &Bucket[T]{}
	b.Add(items...)
	return b
}

// Add appends elements to the end of the bucket.
func (b *Bucket[T]) Add(items ...T) {
	b.items = append(b.items, items...)
}

func (b *Bucket[T]) Len() int { return len(b.items) }

func (b *Bucket[T]) Empty() bool { return len(b.items) == 0 }

// Items returns the backing slice for iteration. Callers must not modify
// the bucket while ranging over it; use Fetch to remove elements.
func (b *Bucket[T]) Items() []T { return b.items }

// SortStable sorts the bucket in place, preserving the relative order of
// elements that compare equal under less.
func (b *Bucket[T]) SortStable(less func(a, b T) bool) {
	sort.SliceStable(b.items, func(i, j int) bool {
		return less(b.items[i], b.items[j])
	})
}

// Fetch removes every element matching the predicate and returns them as
// a new bucket. Each element is evaluated exactly once, in order; both
// the result and the remainder keep their original relative order. An
// empty result is valid and leaves the receiver untouched.
func (b *Bucket[T]) Fetch(match func(T) bool) *Bucket[T] {
	// Scan the current membership into two fresh slices instead of
	// removing in place, so removals cannot shift unvisited elements
	// out from under the scan.
	matched := &Bucket[T]{}
	kept := make([]T, 0, len(b.items))

	for _, it := range b.items {
		if match(it) {
			matched.items = append(matched.items, it)
		} else {
			kept = append(kept, it)
		}
	}

	b.items = kept
	return matched
}
