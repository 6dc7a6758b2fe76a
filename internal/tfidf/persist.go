package tfidf

import (
	"encoding/binary"
	"math"
	"sort"

	"github.com/Aman-CERP/vectorcore/internal/bufio2"
	"github.com/Aman-CERP/vectorcore/internal/catalog"
)

// AttachStore wires the buffer manager Flush appends whole-trie
// snapshots to. A nil store (the default) leaves the trie in-memory
// only. See sparse/persist.go for the matching rationale: this is a
// whole-snapshot-per-Flush simplification of the fixed node-slot
// on-disk layout, with reload-from-disk not implemented.
func (idx *Index) AttachStore(mgr *bufio2.Manager) {
	idx.store = mgr
}

// SetCatalog wires the catalog that calibration persists
// average_document_length into and Flush persists highest_internal_id
// (the doc-id counter) into.
func (idx *Index) SetCatalog(cat catalog.Catalog) {
	idx.cat = cat
}

// serializeTrie walks root depth-first and returns one binary snapshot
// of every term carrying postings, each leaf's terms in SequenceIdx
// order:
//
//	[termCount u32]
//	per term: [storageDim u16][quotient u16][sequenceIdx u16][pad u16]
//	  [segCount u32]
//	    per segment: [version u32][postingCount u32]
//	      per posting: [docID u32][tf f32]
func serializeTrie(root *node) []byte {
	var terms [][]byte
	var walk func(n *node, dim uint16, level int)
	walk = func(n *node, dim uint16, level int) {
		if level == trieDepth {
			n.mu.RLock()
			quotients := make([]uint16, 0, len(n.terms))
			for quotient := range n.terms {
				quotients = append(quotients, quotient)
			}
			sort.Slice(quotients, func(i, j int) bool {
				a, b := n.terms[quotients[i]], n.terms[quotients[j]]
				if a.SequenceIdx != b.SequenceIdx {
					return a.SequenceIdx < b.SequenceIdx
				}
				return quotients[i] < quotients[j]
			})
			for _, quotient := range quotients {
				terms = append(terms, serializeTerm(dim, quotient, n.terms[quotient]))
			}
			n.mu.RUnlock()
			return
		}
		for i, child := range n.children {
			if child == nil {
				continue
			}
			walk(child, (dim<<4)|uint16(i), level+1)
		}
	}
	walk(root, 0, 0)

	out := make([]byte, 4, 4+len(terms)*24)
	binary.LittleEndian.PutUint32(out, uint32(len(terms)))
	for _, t := range terms {
		out = append(out, t...)
	}
	return out
}

func serializeTerm(storageDim, quotient uint16, ti *TermInfo) []byte {
	ti.mu.Lock()
	defer ti.mu.Unlock()

	head := make([]byte, 8)
	binary.LittleEndian.PutUint16(head[0:2], storageDim)
	binary.LittleEndian.PutUint16(head[2:4], quotient)
	binary.LittleEndian.PutUint16(head[4:6], ti.SequenceIdx)
	out := head

	segCount := uint32(0)
	for seg := ti.Documents; seg != nil; seg = seg.Next {
		segCount++
	}
	segCountBuf := make([]byte, 4)
	binary.LittleEndian.PutUint32(segCountBuf, segCount)
	out = append(out, segCountBuf...)

	for seg := ti.Documents; seg != nil; seg = seg.Next {
		segHeader := make([]byte, 8)
		binary.LittleEndian.PutUint32(segHeader[0:4], uint32(seg.Version))
		binary.LittleEndian.PutUint32(segHeader[4:8], uint32(len(seg.List)))
		out = append(out, segHeader...)
		for _, posting := range seg.List {
			postingBuf := make([]byte, 8)
			binary.LittleEndian.PutUint32(postingBuf[0:4], uint32(posting.DocID))
			binary.LittleEndian.PutUint32(postingBuf[4:8], math.Float32bits(posting.TF))
			out = append(out, postingBuf...)
		}
	}
	return out
}
