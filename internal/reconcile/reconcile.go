// Package reconcile folds change events from a realtime stream into an
// ordered in-memory list, so callers always see one entry per live record
// with the latest payload, newest insertions first.
package reconcile

import "github.com/tigraytip/storefront-backend/pkg/enums"

// Keyed constrains list records to expose a stable identity.
type Keyed interface {
	Key() string
}

// Event is a single change notification for a tracked record. Deleted events
// carry the prior identity in Record so the fold knows what to drop.
type Event[T Keyed] struct {
	Kind   enums.ChangeKind
	Record T
}

// List holds reconciled records in presentation order. The zero value is an
// empty list ready for use. List is not safe for concurrent use; Feed wraps
// it with locking.
type List[T Keyed] struct {
	items []T
}

// Replace swaps the whole contents, e.g. after a bulk fetch.
func (l *List[T]) Replace(items []T) {
	l.items = append(l.items[:0:0], items...)
}

// Apply folds one event into the list:
//
//   - inserted prepends; if the identity is already present the payload is
//     refreshed in place instead, so replayed inserts cannot duplicate.
//   - updated replaces the payload in place, preserving position. Updates for
//     unknown identities are dropped.
//   - deleted removes the record; repeat deletions are no-ops.
//
// Apply reports whether the event changed the list.
func (l *List[T]) Apply(ev Event[T]) bool {
	switch ev.Kind {
	case enums.ChangeInserted:
		if idx := l.indexOf(ev.Record.Key()); idx >= 0 {
			l.items[idx] = ev.Record
			return true
		}
		l.items = append([]T{ev.Record}, l.items...)
		return true

	case enums.ChangeUpdated:
		idx := l.indexOf(ev.Record.Key())
		if idx < 0 {
			return false
		}
		l.items[idx] = ev.Record
		return true

	case enums.ChangeDeleted:
		idx := l.indexOf(ev.Record.Key())
		if idx < 0 {
			return false
		}
		l.items = append(l.items[:idx], l.items[idx+1:]...)
		return true
	}
	return false
}

// Items returns a copy of the current contents.
func (l *List[T]) Items() []T {
	return append([]T(nil), l.items...)
}

// Len reports the number of records held.
func (l *List[T]) Len() int {
	return len(l.items)
}

func (l *List[T]) indexOf(key string) int {
	for i, item := range l.items {
		if item.Key() == key {
			return i
		}
	}
	return -1
}
