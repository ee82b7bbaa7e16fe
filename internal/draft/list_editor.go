package draft

// Item pairs a list entry with its stable identifier.
type Item[T any] struct {
	ID    int64
	Value T
}

// ListEditor is an ordered collection controller with identity-stable entries.
// Identifiers are minted from a monotonic counter and never reused within the
// lifetime of the editor, so a stale reference from a fast remove+add sequence
// can never mutate the wrong entry.
type ListEditor[T any] struct {
	nextID int64
	items  []Item[T]
}

// NewListEditor constructs an empty editor.
func NewListEditor[T any]() *ListEditor[T] {
	return &ListEditor[T]{nextID: 1}
}

// Add appends a new entry and returns its identifier.
func (l *ListEditor[T]) Add(value T) int64 {
	id := l.nextID
	l.nextID++
	l.items = append(l.items, Item[T]{ID: id, Value: value})
	return id
}

// Remove deletes the entry with the given identifier. Removing an unknown or
// already-removed identifier is a no-op; remaining entries keep their order.
func (l *ListEditor[T]) Remove(id int64) {
	for i, item := range l.items {
		if item.ID == id {
			l.items = append(l.items[:i], l.items[i+1:]...)
			return
		}
	}
}

// Update applies patch to the entry with the given identifier. Unknown
// identifiers are a no-op. Order is preserved.
func (l *ListEditor[T]) Update(id int64, patch func(*T)) {
	for i := range l.items {
		if l.items[i].ID == id {
			patch(&l.items[i].Value)
			return
		}
	}
}

// RemoveAt deletes the entry at the given position; out-of-range is a no-op.
// Subsequent entries shift down one position.
func (l *ListEditor[T]) RemoveAt(index int) {
	if index < 0 || index >= len(l.items) {
		return
	}
	l.items = append(l.items[:index], l.items[index+1:]...)
}

// UpdateAt applies patch to the entry at the given position; out-of-range is a no-op.
func (l *ListEditor[T]) UpdateAt(index int, patch func(*T)) {
	if index < 0 || index >= len(l.items) {
		return
	}
	patch(&l.items[index].Value)
}

// Len reports the number of entries.
func (l *ListEditor[T]) Len() int {
	return len(l.items)
}

// Items returns the entries in insertion order.
func (l *ListEditor[T]) Items() []Item[T] {
	out := make([]Item[T], len(l.items))
	copy(out, l.items)
	return out
}

// Values returns the entry values in insertion order.
func (l *ListEditor[T]) Values() []T {
	out := make([]T, 0, len(l.items))
	for _, item := range l.items {
		out = append(out, item.Value)
	}
	return out
}
