package sparse

import (
	"encoding/binary"

	"github.com/Aman-CERP/vectorcore/internal/bufio2"
	"github.com/Aman-CERP/vectorcore/internal/catalog"
)

// AttachStore wires the buffer manager Flush appends whole-trie
// snapshots to. A nil store (the default) leaves the trie in-memory
// only.
//
// This does not implement the per-node slot layout described for the
// inverted index's on-disk form (a fixed-size node header followed by
// a 16-entry child offset table and a posting-chunk table). Instead
// Flush appends one self-contained snapshot of the whole trie as a
// single record: a DFS walk re-derives each leaf's dimension from its
// nibble path and writes every (key, version, page) in its posting
// chain. Reload-from-disk is not implemented, matching the proximity
// graph's disclosed node-persistence simplification.
func (idx *Index) AttachStore(mgr *bufio2.Manager) {
	idx.store = mgr
}

// SetCatalog wires the catalog that calibration persists
// values_upper_bound into and Flush persists highest_internal_id (the
// doc-id counter) into.
func (idx *Index) SetCatalog(cat catalog.Catalog) {
	idx.cat = cat
}

// serializeTrie walks root depth-first and returns one binary snapshot
// of every leaf that carries postings:
//
//	[leafCount u32]
//	per leaf: [dim u32][keyCount u32]
//	  per key: [key u8][segCount u32]
//	    per segment: [version u32][pageCount u32]
//	      per page: [idCount u32][id u32]...
func serializeTrie(root *node) []byte {
	var leaves [][]byte
	var walk func(n *node, dim uint32, level int)
	walk = func(n *node, dim uint32, level int) {
		if level == trieDepth {
			if buf := serializeLeaf(dim, n); buf != nil {
				leaves = append(leaves, buf)
			}
			return
		}
		for i, child := range n.children {
			if child == nil {
				continue
			}
			walk(child, (dim<<4)|uint32(i), level+1)
		}
	}
	walk(root, 0, 0)

	out := make([]byte, 4, 4+len(leaves)*32)
	binary.LittleEndian.PutUint32(out, uint32(len(leaves)))
	for _, l := range leaves {
		out = append(out, l...)
	}
	return out
}

func serializeLeaf(dim uint32, n *node) []byte {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if len(n.postings) == 0 {
		return nil
	}
	head := make([]byte, 8)
	binary.LittleEndian.PutUint32(head[0:4], dim)
	binary.LittleEndian.PutUint32(head[4:8], uint32(len(n.postings)))
	out := head

	for key, chain := range n.postings {
		segCount := uint32(0)
		for seg := chain; seg != nil; seg = seg.Next {
			segCount++
		}
		keyHeader := make([]byte, 5)
		keyHeader[0] = key
		binary.LittleEndian.PutUint32(keyHeader[1:5], segCount)
		out = append(out, keyHeader...)

		for seg := chain; seg != nil; seg = seg.Next {
			segHeader := make([]byte, 8)
			binary.LittleEndian.PutUint32(segHeader[0:4], uint32(seg.Version))
			binary.LittleEndian.PutUint32(segHeader[4:8], uint32(len(seg.Pool.Pages)))
			out = append(out, segHeader...)
			for _, page := range seg.Pool.Pages {
				pageHeader := make([]byte, 4)
				binary.LittleEndian.PutUint32(pageHeader, uint32(len(page.Data)))
				out = append(out, pageHeader...)
				for _, id := range page.Data {
					idBuf := make([]byte, 4)
					binary.LittleEndian.PutUint32(idBuf, id)
					out = append(out, idBuf...)
				}
			}
		}
	}
	return out
}
