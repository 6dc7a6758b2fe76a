package catalog

import (
	"errors"

	coreerrors "github.com/Aman-CERP/vectorcore/internal/errors"
	bolt "go.etcd.io/bbolt"
)

var metaBucket = []byte("meta")

// BoltCatalog is the bbolt-backed Catalog reference implementation
// (spec §6 leaves the concrete store external; this is the default
// used for tests and single-process deployments).
type BoltCatalog struct {
	db *bolt.DB
}

// OpenBolt opens (creating if absent) a bbolt-backed catalog at path.
func OpenBolt(path string) (*BoltCatalog, error) {
	db, err := bolt.Open(path, 0o644, nil)
	if err != nil {
		return nil, coreerrors.DatabaseError("open catalog", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(metaBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, coreerrors.DatabaseError("create meta bucket", err)
	}
	return &BoltCatalog{db: db}, nil
}

func (c *BoltCatalog) Get(key []byte) ([]byte, error) {
	var out []byte
	err := c.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(metaBucket).Get(key)
		if v != nil {
			out = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, coreerrors.DatabaseError("catalog get", err)
	}
	return out, nil
}

func (c *BoltCatalog) Put(key, value []byte) error {
	err := c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(metaBucket).Put(key, value)
	})
	if err != nil {
		return coreerrors.DatabaseError("catalog put", err)
	}
	return nil
}

func (c *BoltCatalog) Delete(key []byte) error {
	err := c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(metaBucket).Delete(key)
	})
	if err != nil {
		return coreerrors.DatabaseError("catalog delete", err)
	}
	return nil
}

func (c *BoltCatalog) Update(fn func(tx Tx) error) error {
	err := c.db.Update(func(btx *bolt.Tx) error {
		return fn(&boltTx{bucket: btx.Bucket(metaBucket)})
	})
	if err != nil && !errors.Is(err, bolt.ErrTxClosed) {
		return coreerrors.DatabaseError("catalog update", err)
	}
	return err
}

func (c *BoltCatalog) Close() error {
	if err := c.db.Close(); err != nil {
		return coreerrors.DatabaseError("catalog close", err)
	}
	return nil
}

type boltTx struct {
	bucket *bolt.Bucket
}

func (t *boltTx) Get(key []byte) ([]byte, error) {
	v := t.bucket.Get(key)
	if v == nil {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (t *boltTx) Put(key, value []byte) error {
	return t.bucket.Put(key, value)
}

func (t *boltTx) Delete(key []byte) error {
	return t.bucket.Delete(key)
}
