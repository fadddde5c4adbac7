// Package autoload implements convention-based symbol resolvers and the
// ordered registry that dispatches "symbol not found" requests to them.
package autoload

import (
	"io/fs"
	"os"
)

// Handler is a resolution callback, invoked with a fully-qualified symbol
// name. It reports whether it loaded a file for the symbol.
type Handler interface {
	ResolveSymbol(symbol string) (bool, error)
}

// HandlerFunc adapts a function to the Handler interface. Function values are
// not comparable, so a HandlerFunc must be wrapped in a pointer before it can
// be removed from a Host.
type HandlerFunc func(symbol string) (bool, error)

// ResolveSymbol implements the Handler interface.
func (f HandlerFunc) ResolveSymbol(symbol string) (bool, error) {
	return f(symbol)
}

// Host is the runtime capability that keeps an ordered list of handlers.
type Host interface {
	// AddHandler appends h to the handler list. Handlers are not
	// de-duplicated.
	AddHandler(h Handler)
	// RemoveHandler removes every occurrence of h. Removing an unknown
	// handler is a no-op.
	RemoveHandler(h Handler)
}

// Loader loads and executes the source file at path.
type Loader interface {
	Load(path string) error
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(path string) error

// Load implements the Loader interface.
func (f LoaderFunc) Load(path string) error {
	return f(path)
}

// StatFunc probes a candidate path.
type StatFunc func(path string) (fs.FileInfo, error)

// nopLoader is the loader used when none is configured.
var nopLoader = LoaderFunc(func(string) error { return nil })

var defaultStat StatFunc = os.Stat
