package store

// Typed gives type-checked access to a Store that holds one kind of value.
// A stored value of another type reads as a miss.
type Typed[T any] struct {
	s *Store
}

func NewTyped[T any](s *Store) Typed[T] {
	return Typed[T]{s: s}
}

func (t Typed[T]) Get(key string) (out T, ok bool) {
	v, ok := t.s.Get(key)
	if !ok {
		return out, false
	}
	out, ok = v.(T)
	return out, ok
}

func (t Typed[T]) Set(key string, val T, opts ...SetOption) error {
	return t.s.Set(key, val, opts...)
}

func (t Typed[T]) Delete(key string) {
	t.s.Delete(key)
}

// Store returns the underlying untyped store.
func (t Typed[T]) Store() *Store {
	return t.s
}
