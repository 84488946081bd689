package hub

import (
	"fmt"

	"rehearsal-hub/internal/memo"
)

// Memoize wraps fn with the named store. The hub logger comes first so that
// producer failures land in the buffer the health analyzer reads; a
// memo.WithLogger in opts still overrides it.
func Memoize[A, V any](h *Hub, name string, keyFn func(A) string, fn memo.Func[A, V], opts ...memo.Option) (memo.Func[A, V], error) {
	s, ok := h.Get(name)
	if !ok {
		return nil, fmt.Errorf("hub: no cache named %q", name)
	}
	opts = append([]memo.Option{memo.WithLogger(h.logger)}, opts...)
	return memo.Wrap(s, keyFn, fn, opts...), nil
}
