package collection

import (
	roaring "github.com/RoaringBitmap/roaring/v2"
)

// Clause is a single metadata equality predicate: field must equal one
// of Values (an IN clause collapses to a single-value Clause). A
// Filter is the conjunction of its clauses; each clause's allowed
// values are disjunctive.
type Clause struct {
	Field  string
	Values []string
}

// Filter is a compiled metadata predicate: a bitmap of encoded
// dimensions per clause (spec §4.6 "Metadata filtering": "a filter
// compiles against the collection's metadata schema into a set of
// allowed encoded-dimension bitmasks; a candidate passes if its node's
// encoded dims intersect the allow-set"). A node must intersect every
// clause's allow-set to pass the filter as a whole; a clause whose
// allow-set is empty because none of its values are known to the
// schema makes the whole filter unsatisfiable.
type Filter struct {
	clauses []*roaring.Bitmap
}

// CompileFilter builds a Filter from clauses against schema. Unknown
// (field, value) pairs contribute nothing to a clause's allow-set
// rather than erroring — the resulting empty-bitmap clause can never
// intersect any node, so the filter degenerates to "matches nothing"
// per spec's "unsatisfiable filters yield empty results without
// traversal".
func CompileFilter(schema *Schema, clauses []Clause) *Filter {
	f := &Filter{clauses: make([]*roaring.Bitmap, 0, len(clauses))}
	for _, c := range clauses {
		allow := roaring.New()
		for _, v := range c.Values {
			if dim, ok := schema.lookup(c.Field, v); ok {
				allow.Add(dim)
			}
		}
		f.clauses = append(f.clauses, allow)
	}
	return f
}

// Unsatisfiable reports whether any clause's allow-set is empty,
// meaning the filter as a whole can never match any node. Callers
// check this before traversal to short-circuit to an empty result set
// without walking the index.
func (f *Filter) Unsatisfiable() bool {
	for _, c := range f.clauses {
		if c.IsEmpty() {
			return true
		}
	}
	return false
}

// Matches reports whether a node whose metadata encodes to dims
// satisfies every clause of the filter. A nil Filter (no predicate)
// always matches.
func (f *Filter) Matches(dims []uint32) bool {
	if f == nil {
		return true
	}
	if len(f.clauses) == 0 {
		return true
	}
	node := roaring.New()
	node.AddMany(dims)
	for _, allow := range f.clauses {
		if !node.Intersects(allow) {
			return false
		}
	}
	return true
}
