package autoload

import (
	"strings"
	"sync"

	"github.com/dghubble/trie"

	"github.com/quadlayers/wp-autoload/pkg/convention"
)

// prefixed is implemented by handlers that can be indexed by namespace.
type prefixed interface {
	Handler
	Prefix() string
	Owns(symbol string) bool
}

// Registry is an ordered handler list. It implements Host and is the
// dispatch point for resolution requests: handlers are consulted in
// registration order until one loads a file.
type Registry struct {
	mu       sync.Mutex
	handlers []Handler
	// prefixes indexes prefixed handlers by namespace for Owners.
	prefixes *trie.PathTrie
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		prefixes: newPrefixTrie(),
	}
}

// AddHandler implements part of the Host interface.
func (r *Registry) AddHandler(h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.handlers = append(r.handlers, h)
	if p, ok := h.(prefixed); ok {
		var owners []prefixed
		if v := r.prefixes.Get(p.Prefix()); v != nil {
			owners = v.([]prefixed)
		}
		r.prefixes.Put(p.Prefix(), append(owners, p))
	}
}

// RemoveHandler implements part of the Host interface.
func (r *Registry) RemoveHandler(h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.handlers[:0]
	for _, next := range r.handlers {
		if next != h {
			kept = append(kept, next)
		}
	}
	r.handlers = kept

	p, ok := h.(prefixed)
	if !ok {
		return
	}
	v := r.prefixes.Get(p.Prefix())
	if v == nil {
		return
	}
	var owners []prefixed
	for _, next := range v.([]prefixed) {
		if next != p {
			owners = append(owners, next)
		}
	}
	if len(owners) == 0 {
		r.prefixes.Delete(p.Prefix())
	} else {
		r.prefixes.Put(p.Prefix(), owners)
	}
}

// Handlers returns a snapshot of the handler list in registration order.
func (r *Registry) Handlers() []Handler {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Handler(nil), r.handlers...)
}

// Len returns the number of registered handlers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handlers)
}

// Clear removes all handlers.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers = nil
	r.prefixes = newPrefixTrie()
}

// Resolve consults each handler in registration order. It returns true as
// soon as one handler loads a file, and stops at the first error.
func (r *Registry) Resolve(symbol string) (bool, error) {
	for _, h := range r.Handlers() {
		ok, err := h.ResolveSymbol(symbol)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// Owners returns the indexed handlers whose prefix covers symbol, shortest
// prefix first and registration order within a prefix.
func (r *Registry) Owners(symbol string) []Handler {
	r.mu.Lock()
	defer r.mu.Unlock()

	var owners []Handler
	r.prefixes.WalkPath(convention.TrimSeparators(symbol), func(key string, value interface{}) error {
		for _, p := range value.([]prefixed) {
			if p.Owns(symbol) {
				owners = append(owners, p)
			}
		}
		return nil
	})
	return owners
}

func newPrefixTrie() *trie.PathTrie {
	return trie.NewPathTrieWithConfig(&trie.PathTrieConfig{
		Segmenter: namespaceSegmenter,
	})
}

// namespaceSegmenter segments string key paths by backslash separators. For
// example, `a\b\c` -> ("a", 1), (`\b`, 3), (`\c`, -1) in successive calls.
func namespaceSegmenter(path string, start int) (segment string, next int) {
	if len(path) == 0 || start < 0 || start > len(path)-1 {
		return "", -1
	}
	end := strings.Index(path[start+1:], convention.NamespaceSeparator)
	if end == -1 {
		return path[start:], -1
	}
	return path[start : start+end+1], start + end + 1
}
