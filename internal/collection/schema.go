// Package collection holds the Collection type, its metadata schema,
// and the config structs that parameterize index creation. A
// Collection is the top-level namespace (spec §3 "Collection"):
// dense/sparse vector options, an optional metadata schema, and the
// indexes built over it.
package collection

import (
	"fmt"
	"sync"

	coreerrors "github.com/Aman-CERP/vectorcore/internal/errors"
)

// Schema assigns a stable encoded-dimension id to every distinct
// (field, value) pair a collection's metadata has been asked to index
// (spec §4.6 "Metadata filtering": "a filter compiles against the
// collection's metadata schema into a set of allowed encoded-dimension
// bitmasks"). Ids are assigned on first use and never reused.
type Schema struct {
	mu   sync.Mutex
	dims map[string]uint32
	next uint32
}

// NewSchema returns an empty metadata schema.
func NewSchema() *Schema {
	return &Schema{dims: make(map[string]uint32)}
}

func fieldKey(field, value string) string {
	return field + "=" + value
}

// dimFor returns the encoded dimension for (field, value), assigning a
// new one if this is the first time it's been seen.
func (s *Schema) dimFor(field, value string) uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := fieldKey(field, value)
	if id, ok := s.dims[key]; ok {
		return id
	}
	id := s.next
	s.next++
	s.dims[key] = id
	return id
}

// lookup returns the encoded dimension for (field, value) without
// assigning a new one, used when compiling filters: an unknown
// (field, value) pair can never match anything, so the filter should
// not mint a fresh, never-indexed dimension for it.
func (s *Schema) lookup(field, value string) (uint32, bool) {
	if s == nil {
		return 0, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.dims[fieldKey(field, value)]
	return id, ok
}

// EncodeDims returns the set of encoded dimensions for a node's
// metadata fields, registering any (field, value) pairs not seen
// before.
func (s *Schema) EncodeDims(fields map[string]string) []uint32 {
	dims := make([]uint32, 0, len(fields))
	for field, value := range fields {
		dims = append(dims, s.dimFor(field, value))
	}
	return dims
}

// Validate checks fields against schema constraints (currently: values
// must be non-empty). Returns an InvalidParams error naming the first
// offending field.
func (s *Schema) Validate(fields map[string]string) error {
	for field, value := range fields {
		if value == "" {
			return coreerrors.InvalidParams(fmt.Sprintf("metadata field %q has empty value", field), nil)
		}
	}
	return nil
}
