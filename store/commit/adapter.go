/*
Package commit provides a durable CommitKVStore backed by an IAVL tree.

Every wallet mutation is staged in a cache-wrap and flushed into the
working tree; Commit then persists the working tree as the next
version. After a crash, LoadLatestVersion recovers the last version
that was fully saved.
*/
package commit

import (
	"github.com/tendermint/iavl"
	dbm "github.com/tendermint/tendermint/libs/db"

	"github.com/iov-one/multisig"
	"github.com/iov-one/multisig/store"
)

// DefaultCacheSize is the number of tree nodes kept in memory.
const DefaultCacheSize = 10000

// Store manages an iavl committed state.
type Store struct {
	tree *iavl.MutableTree
}

var _ multisig.CommitKVStore = (*Store)(nil)

// NewStore creates a versioned store on top of the given backing
// database.
func NewStore(db dbm.DB, cacheSize int) *Store {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	tree := iavl.NewMutableTree(db, cacheSize)
	return &Store{tree: tree}
}

// MemStore returns a commit store without disk backing, useful for
// tests.
func MemStore() *Store {
	return NewStore(dbm.NewMemDB(), DefaultCacheSize)
}

// LoadLatestVersion loads the latest persisted version. If there was a
// crash during the last commit, it is guaranteed to return a stable
// state, even if older.
func (s *Store) LoadLatestVersion() error {
	_, err := s.tree.Load()
	return err
}

// Commit saves the working tree as the next version to disk.
func (s *Store) Commit() (multisig.CommitID, error) {
	hash, version, err := s.tree.SaveVersion()
	if err != nil {
		return multisig.CommitID{}, err
	}
	return multisig.CommitID{
		Version: version,
		Hash:    hash,
	}, nil
}

// LatestVersion returns info on the latest version saved to disk.
func (s *Store) LatestVersion() multisig.CommitID {
	return multisig.CommitID{
		Version: s.tree.Version(),
		Hash:    s.tree.Hash(),
	}
}

// Get returns nil iff key doesn't exist. Panics on nil key.
func (s *Store) Get(key []byte) ([]byte, error) {
	_, value := s.tree.Get(key)
	return value, nil
}

// Has checks if a key exists. Panics on nil key.
func (s *Store) Has(key []byte) (bool, error) {
	return s.tree.Has(key), nil
}

// Set writes to the working tree. Changes are durable after Commit.
func (s *Store) Set(key, value []byte) error {
	s.tree.Set(key, value)
	return nil
}

// Delete removes the key from the working tree.
func (s *Store) Delete(key []byte) error {
	s.tree.Remove(key)
	return nil
}

// Iterator over a domain of keys in ascending order. End is exclusive.
// The result set is preloaded, so writes during iteration are safe.
func (s *Store) Iterator(start, end []byte) (multisig.Iterator, error) {
	return s.iterate(start, end, true), nil
}

// ReverseIterator over a domain of keys in descending order. End is
// exclusive.
func (s *Store) ReverseIterator(start, end []byte) (multisig.Iterator, error) {
	return s.iterate(start, end, false), nil
}

func (s *Store) iterate(start, end []byte, ascending bool) multisig.Iterator {
	var models []store.Model
	s.tree.IterateRange(start, end, ascending, func(key, value []byte) bool {
		models = append(models, store.Model{
			Key:   append([]byte(nil), key...),
			Value: append([]byte(nil), value...),
		})
		return false
	})
	return store.NewSliceIterator(models)
}

// NewBatch returns a batch that can write to this tree later.
func (s *Store) NewBatch() multisig.Batch {
	return store.NewNonAtomicBatch(s)
}

// CacheWrap gives us a savepoint to stage a whole operation.
func (s *Store) CacheWrap() multisig.KVCacheWrap {
	return store.NewBTreeCacheWrap(s, s.NewBatch(), nil)
}
