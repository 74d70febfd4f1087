package schema

import (
	"strings"

	"orderaccumulator/pkg/exception"

	"github.com/yanun0323/errors"
)

// NormalizeSymbol returns the canonical ledger key for a symbol.
func NormalizeSymbol(name string) string {
	return strings.ToUpper(name)
}

// Registry stores the static symbol allow-list. It is read-only once built
// and safe for concurrent lookups.
type Registry struct {
	symbols      []string
	symbolByName map[string]int
}

// NewRegistry builds a registry from symbol names.
func NewRegistry(names ...string) (*Registry, error) {
	r := &Registry{
		symbols:      make([]string, 0, len(names)),
		symbolByName: make(map[string]int, len(names)),
	}
	for _, name := range names {
		if err := r.add(name); err != nil {
			return nil, err
		}
	}
	if len(r.symbols) == 0 {
		return nil, exception.ErrEmptySymbolSet
	}
	return r, nil
}

func (r *Registry) add(name string) error {
	name = NormalizeSymbol(strings.TrimSpace(name))
	if name == "" {
		return exception.ErrEmptySymbol
	}
	if _, ok := r.symbolByName[name]; ok {
		return errors.Wrapf(exception.ErrDuplicateSymbol, "symbol: %s", name)
	}
	r.symbolByName[name] = len(r.symbols)
	r.symbols = append(r.symbols, name)
	return nil
}

// Contains reports whether name is allow-listed, ignoring case.
func (r *Registry) Contains(name string) bool {
	_, ok := r.symbolByName[NormalizeSymbol(name)]
	return ok
}

// SymbolCount returns the number of symbols in the registry.
func (r *Registry) SymbolCount() int {
	return len(r.symbols)
}

// Symbols returns the normalized symbols in registration order.
func (r *Registry) Symbols() []string {
	out := make([]string, len(r.symbols))
	copy(out, r.symbols)
	return out
}
