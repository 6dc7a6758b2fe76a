package types

// Page is a fixed-capacity, append-only array of vector ids (spec §3
// "Pagepool"; grounded on storage/page.rs's Page<const LEN: usize>).
// Go lacks const-generic array lengths, so capacity is a per-Pagepool
// runtime parameter instead of a type parameter.
type Page struct {
	Data []uint32
	// SerializedAt is the file offset this page was last written at, or
	// NullOffset if never serialized.
	SerializedAt FileOffset
}

// Full reports whether the page has reached its configured capacity.
func (p *Page) Full(capacity int) bool {
	return len(p.Data) >= capacity
}

// Pagepool is a list of fixed-size pages backing a posting list.
// Appends are O(1) amortized: push to the last page until full, then
// start a new one. There is no deduplication (spec §4.7: a transaction
// assigns at most one value per (dim, id), so no collision can occur).
type Pagepool struct {
	PageCapacity int
	Pages        []*Page
}

// NewPagepool creates an empty pool with the given fixed page capacity.
func NewPagepool(pageCapacity int) *Pagepool {
	return &Pagepool{PageCapacity: pageCapacity}
}

// Push appends id to the pool, allocating a new page when the last one
// is full or the pool is empty.
func (pp *Pagepool) Push(id uint32) {
	if n := len(pp.Pages); n > 0 && !pp.Pages[n-1].Full(pp.PageCapacity) {
		last := pp.Pages[n-1]
		last.Data = append(last.Data, id)
		last.SerializedAt = NullOffset
		return
	}
	pp.Pages = append(pp.Pages, &Page{Data: []uint32{id}, SerializedAt: NullOffset})
}

// Len returns the total number of ids across all pages.
func (pp *Pagepool) Len() int {
	n := 0
	for _, p := range pp.Pages {
		n += len(p.Data)
	}
	return n
}

// Iterate calls yield for every id in insertion order, stopping early if
// yield returns false.
func (pp *Pagepool) Iterate(yield func(uint32) bool) {
	for _, p := range pp.Pages {
		for _, id := range p.Data {
			if !yield(id) {
				return
			}
		}
	}
}

// Contains reports whether id is present anywhere in the pool.
func (pp *Pagepool) Contains(id uint32) bool {
	found := false
	pp.Iterate(func(v uint32) bool {
		if v == id {
			found = true
			return false
		}
		return true
	})
	return found
}

// VersionedPagepool chains a Pagepool per version, newest segment first
// being the head of the caller's linked structure (spec §3: "Versioned
// variants form a singly-linked chain sorted newest-first").
type VersionedPagepool struct {
	Version VersionHash
	Pool    *Pagepool
	Next    *VersionedPagepool
}

// NewVersionedPagepool starts a chain head for version at pageCapacity.
func NewVersionedPagepool(version VersionHash, pageCapacity int) *VersionedPagepool {
	return &VersionedPagepool{Version: version, Pool: NewPagepool(pageCapacity)}
}

// Push appends id under version, creating a new head segment ahead of
// the current one when version differs from vp.Version (newest-first).
// Returns the (possibly new) head of the chain.
func (vp *VersionedPagepool) Push(version VersionHash, id uint32) *VersionedPagepool {
	if vp == nil {
		head := NewVersionedPagepool(version, defaultPageCapacity)
		head.Pool.Push(id)
		return head
	}
	if vp.Version == version {
		vp.Pool.Push(id)
		return vp
	}
	head := NewVersionedPagepool(version, vp.Pool.PageCapacity)
	head.Pool.Push(id)
	head.Next = vp
	return head
}

const defaultPageCapacity = 64
