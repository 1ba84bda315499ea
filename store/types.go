package store

import "github.com/iov-one/multisig"

// Move references for all storage types into this package
// for shorter names everywhere.

type ReadOnlyKVStore = multisig.ReadOnlyKVStore
type KVStore = multisig.KVStore
type SetDeleter = multisig.SetDeleter
type Batch = multisig.Batch
type Iterator = multisig.Iterator
type CacheableKVStore = multisig.CacheableKVStore
type KVCacheWrap = multisig.KVCacheWrap
type CommitKVStore = multisig.CommitKVStore
type CommitID = multisig.CommitID
