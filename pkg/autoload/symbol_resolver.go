package autoload

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/quadlayers/wp-autoload/pkg/convention"
)

// Policy controls what a resolver does when it owns a symbol but finds no
// file for it.
type Policy int

const (
	// Lenient declines and caches the miss, leaving the symbol to the next
	// handler.
	Lenient Policy = iota
	// Strict returns a *SymbolNotFoundError.
	Strict
)

func (p Policy) String() string {
	switch p {
	case Strict:
		return "strict"
	default:
		return "lenient"
	}
}

// Option configures a SymbolResolver.
type Option func(*SymbolResolver) *SymbolResolver

// WithLoader sets the load-and-execute primitive.
func WithLoader(loader Loader) Option {
	return func(r *SymbolResolver) *SymbolResolver {
		r.loader = loader
		return r
	}
}

// WithStatFunc sets the function used to probe candidate paths.
func WithStatFunc(stat StatFunc) Option {
	return func(r *SymbolResolver) *SymbolResolver {
		r.stat = stat
		return r
	}
}

// WithPolicy sets the miss policy.
func WithPolicy(policy Policy) Option {
	return func(r *SymbolResolver) *SymbolResolver {
		r.policy = policy
		return r
	}
}

// WithConvention replaces the default naming convention.
func WithConvention(c convention.Convention) Option {
	return func(r *SymbolResolver) *SymbolResolver {
		r.convention = c
		return r
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(r *SymbolResolver) *SymbolResolver {
		r.logger = logger
		return r
	}
}

// SymbolResolver owns one (prefix, root) pair and loads the conventionally
// named file for symbols under that prefix.
type SymbolResolver struct {
	prefix string
	root   string

	convention convention.Convention
	loader     Loader
	stat       StatFunc
	policy     Policy
	logger     zerolog.Logger

	missing *MissingSymbolCache
	host    Host
}

// NewSymbolResolver constructs a resolver. The prefix loses its leading and
// trailing separators and the root gets exactly one trailing separator. No
// I/O happens here.
func NewSymbolResolver(prefix, root string, options ...Option) *SymbolResolver {
	r := &SymbolResolver{
		prefix:     convention.TrimSeparators(prefix),
		root:       convention.NormalizeRoot(root),
		convention: convention.Default,
		loader:     nopLoader,
		stat:       defaultStat,
		logger:     zerolog.Nop(),
		missing:    NewMissingSymbolCache(),
	}
	for _, opt := range options {
		r = opt(r)
	}
	return r
}

// Prefix returns the normalized namespace prefix.
func (r *SymbolResolver) Prefix() string {
	return r.prefix
}

// Root returns the normalized root directory.
func (r *SymbolResolver) Root() string {
	return r.root
}

// Policy returns the miss policy.
func (r *SymbolResolver) Policy() Policy {
	return r.policy
}

// Missing returns the resolver's miss cache.
func (r *SymbolResolver) Missing() *MissingSymbolCache {
	return r.missing
}

// String implements fmt.Stringer
func (r *SymbolResolver) String() string {
	return fmt.Sprintf("%s => %s", r.prefix, r.root)
}

// Register adds the resolver to host.
func (r *SymbolResolver) Register(host Host) {
	r.host = host
	host.AddHandler(r)
}

// Unregister removes the resolver from the host it was registered with. It
// is a no-op if the resolver was never registered.
func (r *SymbolResolver) Unregister() {
	if r.host == nil {
		return
	}
	r.host.RemoveHandler(r)
	r.host = nil
}

// Owns reports whether symbol lies under the resolver prefix.
func (r *SymbolResolver) Owns(symbol string) bool {
	return strings.HasPrefix(normalizeSymbol(symbol), r.prefix+convention.NamespaceSeparator)
}

// CandidatePaths returns the files probed for symbol, in probe order.
func (r *SymbolResolver) CandidatePaths(symbol string) []string {
	return r.convention.CandidatePaths(normalizeSymbol(symbol), r.prefix, r.root)
}

// ResolveSymbol implements the Handler interface. Symbols outside the prefix
// are declined without touching the miss cache.
func (r *SymbolResolver) ResolveSymbol(symbol string) (bool, error) {
	if !r.Owns(symbol) {
		return false, nil
	}
	symbol = normalizeSymbol(symbol)

	if r.missing.Has(symbol) {
		r.logger.Debug().Str("symbol", symbol).Str("prefix", r.prefix).Msg("cached miss")
		return false, r.notFound(symbol)
	}

	paths := r.CandidatePaths(symbol)
	for _, path := range paths {
		info, err := r.stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		if err := r.loader.Load(path); err != nil {
			return false, fmt.Errorf("loading %s for %s: %w", path, symbol, err)
		}
		r.logger.Debug().Str("symbol", symbol).Str("path", path).Msg("loaded")
		return true, nil
	}

	r.missing.Add(symbol)
	r.logger.Debug().Str("symbol", symbol).Strs("paths", paths).Msg("miss")
	return false, r.notFound(symbol)
}

func (r *SymbolResolver) notFound(symbol string) error {
	if r.policy != Strict {
		return nil
	}
	return &SymbolNotFoundError{Symbol: symbol, Paths: r.CandidatePaths(symbol)}
}

func normalizeSymbol(symbol string) string {
	return strings.TrimLeft(symbol, convention.NamespaceSeparator)
}
