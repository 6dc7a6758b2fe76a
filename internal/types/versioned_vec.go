package types

// DocTF is a (document id, term frequency) posting, the only element
// type the reference implementation sorts within a version segment.
type DocTF struct {
	DocID DocID
	TF    float32
}

// VersionedVec is a singly-linked, per-version segmented list (spec §9
// "Versioned vec"; grounded on tf_idf_index.rs's VersionedVec<T> and
// serializer/versioned_vec.rs). Each segment belongs to exactly one
// version; Push appends to the current-version segment or chains a new
// one when the caller's version differs from the head's.
type VersionedVec[T any] struct {
	Version VersionHash
	List    []T
	Next    *VersionedVec[T]
}

// NewVersionedVec starts an empty segment for version.
func NewVersionedVec[T any](version VersionHash) *VersionedVec[T] {
	return &VersionedVec[T]{Version: version}
}

// Push appends value to the segment matching version, creating a new
// chained segment if the current head belongs to an earlier version.
func (v *VersionedVec[T]) Push(version VersionHash, value T) {
	if v.Version == version {
		v.List = append(v.List, value)
		return
	}
	if v.Next != nil {
		v.Next.Push(version, value)
		return
	}
	v.Next = NewVersionedVec[T](version)
	v.Next.Push(version, value)
}

// Len returns the total element count across the whole chain.
func (v *VersionedVec[T]) Len() int {
	n := len(v.List)
	if v.Next != nil {
		n += v.Next.Len()
	}
	return n
}

// Iterate calls yield for every element across the chain in segment
// order (current segment, then Next), stopping early if yield returns
// false.
func (v *VersionedVec[T]) Iterate(yield func(T) bool) {
	for _, item := range v.List {
		if !yield(item) {
			return
		}
	}
	if v.Next != nil {
		v.Next.Iterate(yield)
	}
}

// PushSorted inserts (docID, tf) into the segment matching version,
// insertion-sorted ascending by DocID within that segment (spec §4.8:
// "kept in ascending document order within a version segment"). Only
// meaningful for VersionedVec[DocTF], so it is a free function rather
// than a generic method specialized on T.
func PushSorted(v *VersionedVec[DocTF], version VersionHash, value DocTF) {
	if v.Version == version {
		i := len(v.List)
		for i > 0 && v.List[i-1].DocID > value.DocID {
			i--
		}
		v.List = append(v.List, DocTF{})
		copy(v.List[i+1:], v.List[i:])
		v.List[i] = value
		return
	}
	if v.Next != nil {
		PushSorted(v.Next, version, value)
		return
	}
	v.Next = NewVersionedVec[DocTF](version)
	PushSorted(v.Next, version, value)
}
