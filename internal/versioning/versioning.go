// Package versioning allocates monotone version ids per branch and
// tracks each branch's current tip, persisting both to a Catalog
// (spec §4.3). Versions are never reassigned: a version id handed out
// by AddNextVersion is permanently consumed, even if the transaction
// that requested it later fails to commit.
package versioning

import (
	"sync"

	"github.com/Aman-CERP/vectorcore/internal/catalog"
	coreerrors "github.com/Aman-CERP/vectorcore/internal/errors"
)

// Tracker allocates and records versions for a single collection. One
// Tracker instance per collection; callers serialize access to
// AddNextVersion externally via the transaction coordinator's
// at-most-one-writer lock, but Tracker also guards its own state so a
// misuse doesn't corrupt in-memory bookkeeping.
type Tracker struct {
	mu  sync.Mutex
	cat catalog.Catalog
}

// NewTracker returns a Tracker backed by cat.
func NewTracker(cat catalog.Catalog) *Tracker {
	return &Tracker{cat: cat}
}

// AddNextVersion atomically allocates the next version on branch and
// persists the parent pointer (spec §4.3: "atomically produces the
// next id on a branch and persists the parent pointer to the KV
// catalog"). The returned parent is the branch's previous tip, or 0
// with hadParent=false if this is the branch's first version.
func (t *Tracker) AddNextVersion(branch string) (newVersion, parent uint32, hadParent bool, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	err = t.cat.Update(func(tx catalog.Tx) error {
		tipBytes, gerr := tx.Get(catalog.BranchTipKey(branch))
		if gerr != nil {
			return gerr
		}
		if v, ok := catalog.GetU32(tipBytes); ok {
			parent = v
			hadParent = true
			newVersion = v + 1
		} else {
			newVersion = 1
		}
		if perr := tx.Put(catalog.BranchParentKey(branch, newVersion), catalog.PutU32(parent)); perr != nil {
			return perr
		}
		return tx.Put(catalog.BranchTipKey(branch), catalog.PutU32(newVersion))
	})
	if err != nil {
		return 0, 0, false, coreerrors.DatabaseError("allocate version", err)
	}
	return newVersion, parent, hadParent, nil
}

// UpdateCurrentVersion records v as the collection-wide current
// version (spec §4.3: "records the tip"). This is the durable recovery
// anchor: on restart, the last value written here is the tip used,
// regardless of any higher version id left behind by a crashed
// transaction.
func (t *Tracker) UpdateCurrentVersion(v uint32) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.cat.Put([]byte(catalog.KeyCurrentVersion), catalog.PutU32(v)); err != nil {
		return coreerrors.DatabaseError("update current version", err)
	}
	return nil
}

// CurrentVersion returns the last durably recorded current version, or
// 0 if none has ever been set.
func (t *Tracker) CurrentVersion() (uint32, error) {
	data, err := t.cat.Get([]byte(catalog.KeyCurrentVersion))
	if err != nil {
		return 0, coreerrors.DatabaseError("read current version", err)
	}
	v, _ := catalog.GetU32(data)
	return v, nil
}

// Parent returns the parent version of v on branch, as recorded by
// AddNextVersion.
func (t *Tracker) Parent(branch string, v uint32) (parent uint32, ok bool, err error) {
	data, err := t.cat.Get(catalog.BranchParentKey(branch, v))
	if err != nil {
		return 0, false, coreerrors.DatabaseError("read parent version", err)
	}
	if data == nil {
		return 0, false, nil
	}
	parent, ok = catalog.GetU32(data)
	return parent, ok, nil
}

// BranchTip returns branch's last allocated version, or 0 if the
// branch has never had a version allocated.
func (t *Tracker) BranchTip(branch string) (uint32, error) {
	data, err := t.cat.Get(catalog.BranchTipKey(branch))
	if err != nil {
		return 0, coreerrors.DatabaseError("read branch tip", err)
	}
	v, _ := catalog.GetU32(data)
	return v, nil
}
