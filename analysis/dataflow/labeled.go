package dataflow

import (
	"strings"

	"github.com/cs-au-dk/flow/analysis/cfg"
	"github.com/cs-au-dk/flow/analysis/lattice"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// LabeledResult maps edge labels to abstract values. Labels without a value
// are answered as follows: Normal falls back to the join of every value
// present, and any other label falls back to the default.
//
// Results are immutable: Put and WithDefault return updated copies.
type LabeledResult[E lattice.Element[E]] struct {
	values map[cfg.Label]E
	def    E
	hasDef bool
}

// Uniform creates a result where every label carries v.
func Uniform[E lattice.Element[E]](v E) LabeledResult[E] {
	return LabeledResult[E]{
		values: map[cfg.Label]E{cfg.Normal: v},
		def:    v,
		hasDef: true,
	}
}

// Branches creates a result distinguishing the True and False continuations
// of a condition.
func Branches[E lattice.Element[E]](t, f E) LabeledResult[E] {
	return LabeledResult[E]{
		values: map[cfg.Label]E{cfg.True: t, cfg.False: f},
	}
}

// Get returns the value for the given label.
func (r LabeledResult[E]) Get(label cfg.Label) E {
	if v, ok := r.values[label]; ok {
		return v
	}
	if label == cfg.Normal && len(r.values) > 0 {
		return r.Merged()
	}
	return r.def
}

// Lookup returns the value explicitly stored for the label, if any.
func (r LabeledResult[E]) Lookup(label cfg.Label) (E, bool) {
	v, ok := r.values[label]
	return v, ok
}

// Put returns a copy of the result with v stored for the label.
func (r LabeledResult[E]) Put(label cfg.Label, v E) LabeledResult[E] {
	values := make(map[cfg.Label]E, len(r.values)+1)
	for l, w := range r.values {
		values[l] = w
	}
	values[label] = v
	return LabeledResult[E]{values, r.def, r.hasDef}
}

// WithDefault returns a copy of the result answering d for absent labels.
func (r LabeledResult[E]) WithDefault(d E) LabeledResult[E] {
	return LabeledResult[E]{r.values, d, true}
}

// Default returns the value of absent labels. Without a configured default,
// this is the zero value of E. Results handed out by the engine always carry
// a default.
func (r LabeledResult[E]) Default() E {
	return r.def
}

func (r LabeledResult[E]) HasDefault() bool {
	return r.hasDef
}

// Labels returns the labels with a stored value, in label order.
func (r LabeledResult[E]) Labels() []cfg.Label {
	labels := maps.Keys(r.values)
	slices.Sort(labels)
	return labels
}

func (r LabeledResult[E]) Len() int {
	return len(r.values)
}

// Merged joins the values of all labels. A result without values answers its
// default.
func (r LabeledResult[E]) Merged() E {
	labels := r.Labels()
	if len(labels) == 0 {
		return r.def
	}

	res := r.values[labels[0]]
	for _, l := range labels[1:] {
		res = res.Join(r.values[l])
	}
	return res
}

// Join combines two results label-wise. A label stored in only one of the
// results is joined with the answer of the other one for that label.
func (r LabeledResult[E]) Join(o LabeledResult[E]) LabeledResult[E] {
	res := LabeledResult[E]{values: make(map[cfg.Label]E, len(r.values))}

	for _, l := range r.Labels() {
		res.values[l] = r.values[l].Join(o.Get(l))
	}
	for _, l := range o.Labels() {
		if _, done := res.values[l]; !done {
			res.values[l] = r.Get(l).Join(o.values[l])
		}
	}

	switch {
	case r.hasDef && o.hasDef:
		res.def, res.hasDef = r.def.Join(o.def), true
	case r.hasDef:
		res.def, res.hasDef = r.def, true
	case o.hasDef:
		res.def, res.hasDef = o.def, true
	}
	return res
}

// AtLeastAsPrecise compares two results under the label-wise order, including
// their defaults.
func (r LabeledResult[E]) AtLeastAsPrecise(o LabeledResult[E]) bool {
	for _, l := range append(r.Labels(), o.Labels()...) {
		if !r.Get(l).AtLeastAsPrecise(o.Get(l)) {
			return false
		}
	}
	if r.hasDef && o.hasDef {
		return r.def.AtLeastAsPrecise(o.def)
	}
	return true
}

func (r LabeledResult[E]) String() string {
	labels := r.Labels()
	parts := make([]string, 0, len(labels)+1)
	for _, l := range labels {
		parts = append(parts, colorize.Label(l)+": "+r.values[l].String())
	}
	if r.hasDef {
		parts = append(parts, colorize.Label("default")+": "+r.def.String())
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}
