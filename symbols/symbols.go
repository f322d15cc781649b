// Package symbols resolves program counters of the running binary to
// function names and source positions.
package symbols

import (
	"errors"
	"fmt"
	"runtime"

	lru "github.com/hashicorp/golang-lru/v2"
)

var ErrUnknownPC = errors.New("unknown pc")

// Symbol is a function location (function name + offset)
type Symbol struct {
	Name   string  `json:"name" yaml:"name"`
	File   string  `json:"file" yaml:"file"`
	Line   int     `json:"line" yaml:"line"`
	Entry  uintptr `json:"entry" yaml:"entry"`
	Offset uintptr `json:"offset" yaml:"offset"`
}

func (s *Symbol) String() string {
	return fmt.Sprintf("%s+0x%x", s.Name, s.Offset)
}

// symbolVal is used as a value in the symbol cache.
type symbolVal struct {
	sym *Symbol
	err error
}

type Resolver struct {
	cache *lru.Cache[uintptr, symbolVal]
}

func NewResolver(size int) (*Resolver, error) {
	cache, err := lru.New[uintptr, symbolVal](size)
	if err != nil {
		return nil, fmt.Errorf("symbol cache: %w", err)
	}
	return &Resolver{cache: cache}, nil
}

// Resolve looks up a return address. The call instruction precedes pc, so
// the source position is taken at pc-1.
func (r *Resolver) Resolve(pc uintptr) (*Symbol, error) {
	if v, ok := r.cache.Get(pc); ok {
		return v.sym, v.err
	}
	sym, err := resolve(pc)
	r.cache.Add(pc, symbolVal{sym: sym, err: err})
	return sym, err
}

func resolve(pc uintptr) (*Symbol, error) {
	if pc == 0 {
		return nil, fmt.Errorf("%w: 0x0", ErrUnknownPC)
	}
	fn := runtime.FuncForPC(pc - 1)
	if fn == nil {
		return nil, fmt.Errorf("%w: 0x%x", ErrUnknownPC, pc)
	}
	file, line := fn.FileLine(pc - 1)
	return &Symbol{
		Name:   fn.Name(),
		File:   file,
		Line:   line,
		Entry:  fn.Entry(),
		Offset: pc - fn.Entry(),
	}, nil
}

// Name returns the function name for pc, or a hex address when it is not
// known.
func (r *Resolver) Name(pc uintptr) string {
	sym, err := r.Resolve(pc)
	if err != nil {
		return fmt.Sprintf("0x%x", pc)
	}
	return sym.String()
}

// Len is the number of cached lookups.
func (r *Resolver) Len() int {
	return r.cache.Len()
}
