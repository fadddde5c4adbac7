package autoload

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSymbolNotFound is the sentinel matched by SymbolNotFoundError.
var ErrSymbolNotFound = errors.New("symbol not found")

// SymbolNotFoundError is returned by a strict resolver that owns a symbol but
// found none of its candidate files.
type SymbolNotFoundError struct {
	Symbol string
	Paths  []string
}

func (e *SymbolNotFoundError) Error() string {
	return fmt.Sprintf("%s not found in [%s]", e.Symbol, strings.Join(e.Paths, ", "))
}

// Is reports ErrSymbolNotFound as a match.
func (e *SymbolNotFoundError) Is(target error) bool {
	return target == ErrSymbolNotFound
}
