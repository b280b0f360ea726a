package overload

import (
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/leapstack-labs/leapsp/pkg/op"
	"github.com/leapstack-labs/leapsp/pkg/types"
	"github.com/leapstack-labs/leapsp/pkg/value"
)

// Registry is an immutable dispatch table, safe for concurrent use.
type Registry struct {
	byName map[string][]*Overload
	names  map[string]string // lower-case key -> declared name
}

// Builder provides a fluent API for declaring a Registry.
type Builder struct {
	r *Registry
}

// NewRegistry starts an empty Registry.
func NewRegistry() *Builder {
	return &Builder{r: &Registry{
		byName: make(map[string][]*Overload),
		names:  make(map[string]string),
	}}
}

// Define adds an overload with an explicit parameter list.
func (b *Builder) Define(name string, params []types.Type, result types.Type, fn Func) *Builder {
	b.add(&Overload{Name: name, Params: params, Result: result, fn: fn})
	return b
}

// Unary adds a one-parameter overload.
func (b *Builder) Unary(name string, param, result types.Type, fn Func) *Builder {
	return b.Define(name, []types.Type{param}, result, fn)
}

// Binary adds a two-parameter overload.
func (b *Builder) Binary(name string, left, right, result types.Type, fn Func) *Builder {
	return b.Define(name, []types.Type{left, right}, result, fn)
}

// Ternary adds a three-parameter overload.
func (b *Builder) Ternary(name string, a, c, d, result types.Type, fn Func) *Builder {
	return b.Define(name, []types.Type{a, c, d}, result, fn)
}

// Variadic adds an overload whose last parameter repeats.
func (b *Builder) Variadic(name string, params []types.Type, result types.Type, fn Func) *Builder {
	b.add(&Overload{Name: name, Params: params, Result: result, Variadic: true, fn: fn})
	return b
}

// Reserved declares a signature with no kernel.
func (b *Builder) Reserved(name string, result types.Type, params ...types.Type) *Builder {
	b.add(&Overload{Name: name, Params: params, Result: result, Reserved: true})
	return b
}

func (b *Builder) add(o *Overload) {
	key := strings.ToLower(o.Name)
	if _, ok := b.r.names[key]; !ok {
		b.r.names[key] = o.Name
	}
	o.Name = b.r.names[key]
	b.r.byName[key] = append(b.r.byName[key], o)
}

// Build returns the Registry. The Builder must not be used afterwards.
func (b *Builder) Build() *Registry {
	r := b.r
	b.r = nil
	return r
}

// WithDecimalRounding returns a copy of r whose NUMERIC division uses rnd.
// All other overloads are shared with r.
func (r *Registry) WithDecimalRounding(rnd op.Rounding) *Registry {
	out := &Registry{
		byName: make(map[string][]*Overload, len(r.byName)),
		names:  r.names,
	}
	for key, ovs := range r.byName {
		out.byName[key] = ovs
	}

	divs := slices.Clone(r.byName["div"])
	for i, o := range divs {
		if o.Reserved || len(o.Params) != 2 || o.Params[0] != types.Numeric || o.Params[1] != types.Numeric {
			continue
		}
		div := *o
		div.fn = binary(func(a, b op.Numeric) op.Numeric { return op.DivNumericWith(a, b, rnd) })
		divs[i] = &div
	}
	if divs != nil {
		out.byName["div"] = divs
	}
	return out
}

// Lookup returns the overloads of an operator in declaration order.
// Names are case-insensitive.
func (r *Registry) Lookup(name string) []*Overload {
	return slices.Clone(r.byName[strings.ToLower(name)])
}

// Operators returns the declared operator names, sorted.
func (r *Registry) Operators() []string {
	names := make([]string, 0, len(r.names))
	for _, n := range r.names {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// List returns every overload, sorted by operator name and then in
// declaration order.
func (r *Registry) List() []*Overload {
	var all []*Overload
	for _, name := range r.Operators() {
		all = append(all, r.byName[strings.ToLower(name)]...)
	}
	return all
}

// Resolve picks the overload of op for the given argument types. An exact
// match wins; failing that, untyped NULL arguments bind to any parameter.
// Zero or several matches give a *ResolveError.
func (r *Registry) Resolve(op string, args ...types.Type) (*Overload, error) {
	cands, ok := r.byName[strings.ToLower(op)]
	if !ok {
		return nil, &ResolveError{Op: op, Args: args}
	}
	name := r.names[strings.ToLower(op)]

	for _, loose := range []bool{false, true} {
		var matches []*Overload
		for _, o := range cands {
			if matchAll(o, args, loose) {
				matches = append(matches, o)
			}
		}
		switch len(matches) {
		case 0:
			continue
		case 1:
			return matches[0], nil
		default:
			return nil, &ResolveError{Op: name, Args: args, Candidates: matches, Ambiguous: true}
		}
	}
	return nil, &ResolveError{Op: name, Args: args, Candidates: slices.Clone(cands)}
}

func matchAll(o *Overload, args []types.Type, loose bool) bool {
	if !o.Arity(len(args)) {
		return false
	}
	for i, t := range args {
		if !o.accepts(i, t, loose) {
			return false
		}
	}
	return true
}

// Eval resolves op from the runtime types of args and calls it with host
// faults mapped to conditions.
func (r *Registry) Eval(op string, args ...value.Value) (value.Value, error) {
	ts := make([]types.Type, len(args))
	for i, a := range args {
		ts[i] = a.Type()
	}
	o, err := r.Resolve(op, ts...)
	if err != nil {
		return value.Null, err
	}
	return o.CallGuarded(args...)
}

// Default returns the built-in registry, built on first use.
var Default = sync.OnceValue(builtin)

// Resolve resolves against the default registry.
func Resolve(op string, args ...types.Type) (*Overload, error) {
	return Default().Resolve(op, args...)
}

// Eval evaluates against the default registry.
func Eval(op string, args ...value.Value) (value.Value, error) {
	return Default().Eval(op, args...)
}
