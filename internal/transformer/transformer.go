// Package transformer defines table-level transforms and the ordered chain
// that runs them. A Transformer never mutates its input table; it returns a
// new one.
package transformer

import (
	"fmt"
	"time"

	"travel-etl/internal/table"
)

// Transformer turns one table into another.
type Transformer interface {
	// Name identifies the transform in errors, logs and metrics.
	Name() string
	Apply(in *table.Table) (*table.Table, error)
}

// Chain is an ordered list of transformers.
type Chain []Transformer

// StepHook observes each transformer once it has run. out is nil when err is
// set.
type StepHook func(name string, out *table.Table, err error, d time.Duration)

// Apply runs every transformer in order and stops at the first error, which is
// wrapped with the failing transformer's name.
func (c Chain) Apply(in *table.Table) (*table.Table, error) {
	return c.ApplyHook(in, nil)
}

// ApplyHook is Apply with a per-transformer callback.
func (c Chain) ApplyHook(in *table.Table, hook StepHook) (*table.Table, error) {
	out := in
	for _, t := range c {
		start := time.Now()
		next, err := t.Apply(out)
		if hook != nil {
			hook(t.Name(), next, err, time.Since(start))
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", t.Name(), err)
		}
		out = next
	}
	return out, nil
}

// Names lists the transformer names in order.
func (c Chain) Names() []string {
	out := make([]string, len(c))
	for i, t := range c {
		out[i] = t.Name()
	}
	return out
}

// Func adapts a plain function to Transformer.
type Func struct {
	Label string
	Fn    func(*table.Table) (*table.Table, error)
}

func (f Func) Name() string { return f.Label }

func (f Func) Apply(in *table.Table) (*table.Table, error) { return f.Fn(in) }
