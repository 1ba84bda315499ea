package wallet

import (
	"sync"

	"github.com/iov-one/multisig"
	"github.com/iov-one/multisig/errors"
)

// Wallet is the aggregate holding all engine state. All public
// operations are serialized by its lock and staged in a cache-wrap, so
// each one runs to completion or fails atomically with no partial
// state observable from outside.
//
// The lock is released for the duration of the external call boundary.
// While that call runs, the staged state is exposed as the wallet view,
// so a reentrant call observes the executed flag already set and is
// rejected by the not-executed guard instead of blocking.
type Wallet struct {
	mu       sync.Mutex
	db       multisig.CacheableKVStore
	emitter  Emitter
	executor Executor
	self     multisig.Address

	// executing is the staged state of an operation currently inside
	// the external call boundary, nil otherwise. Guarded by mu.
	executing multisig.CacheableKVStore
}

// New initializes wallet state in the given store. It fails with
// ErrState if the store already holds a wallet. A nil emitter drops
// all events, a nil executor accepts all calls.
func New(db multisig.CacheableKVStore, conf Config, emitter Emitter, executor Executor) (*Wallet, error) {
	if err := conf.Validate(); err != nil {
		return nil, errors.Wrap(err, "config")
	}
	raw, err := db.Get(stateKey)
	if err != nil {
		return nil, errors.Wrap(err, "state lookup")
	}
	if len(raw) != 0 {
		return nil, errors.Wrap(errors.ErrState, "wallet already initialized")
	}

	self := conf.Address
	if len(self) == 0 {
		self = conf.identity()
	}

	w := &Wallet{
		db:       db,
		emitter:  emitter,
		executor: executor,
		self:     self,
	}
	if w.emitter == nil {
		w.emitter = NopEmitter{}
	}
	if w.executor == nil {
		w.executor = NopExecutor{}
	}

	cache := db.CacheWrap()
	st := &walletState{
		Admin:     conf.Admin.Clone(),
		Threshold: conf.Threshold,
		Self:      self.Clone(),
	}
	for pos, owner := range conf.Owners {
		st.Owners = append(st.Owners, owner.Clone())
		if err := cache.Set(memberKey(owner), encodePosition(uint32(pos))); err != nil {
			cache.Discard()
			return nil, err
		}
	}
	if err := saveState(cache, st); err != nil {
		cache.Discard()
		return nil, err
	}
	if err := cache.Write(); err != nil {
		return nil, err
	}
	return w, nil
}

// Open attaches to wallet state previously initialized in the store.
// It fails with ErrNotFound on a fresh store.
func Open(db multisig.CacheableKVStore, emitter Emitter, executor Executor) (*Wallet, error) {
	st, err := loadState(db)
	if err != nil {
		return nil, err
	}
	w := &Wallet{
		db:       db,
		emitter:  emitter,
		executor: executor,
		self:     st.Self,
	}
	if w.emitter == nil {
		w.emitter = NopEmitter{}
	}
	if w.executor == nil {
		w.executor = NopExecutor{}
	}
	return w, nil
}

// Address returns the wallet's own identity, mixed into every
// transaction digest.
func (w *Wallet) Address() multisig.Address {
	return w.self.Clone()
}

// run stages op in a cache-wrap. On success the wrap is written and
// collected events are emitted; on failure everything is discarded.
//
// A call arriving while another operation is inside the external call
// boundary never blocks: its guards are evaluated against the staged
// state, where the executed flag is already set, and any mutation it
// would make is discarded with ErrState.
func (w *Wallet) run(op func(db multisig.CacheableKVStore) ([]Event, error)) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.executing != nil {
		nested := w.executing.CacheWrap()
		defer nested.Discard()
		if _, err := op(stagedView{nested}); err != nil {
			return err
		}
		return errors.Wrap(errors.ErrState, "execution in progress")
	}

	cache := w.db.CacheWrap()
	events, err := op(cache)
	if err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return err
	}
	for _, ev := range events {
		w.emitter.Emit(ev)
	}
	return nil
}

// stagedView wraps the store handed to an operation that runs while the
// external call boundary is active, so the operation can tell it must
// not start another external call.
type stagedView struct {
	multisig.KVCacheWrap
}

// view is the read source for accessors: the staged state while the
// external call boundary is running, the committed store otherwise.
// The caller must hold the lock.
func (w *Wallet) view() multisig.ReadOnlyKVStore {
	if w.executing != nil {
		return w.executing
	}
	return w.db
}

// invokeExecutor runs the external call boundary with the lock released
// and the staged state published as the wallet view. Reentrant calls
// therefore terminate with an error instead of deadlocking.
func (w *Wallet) invokeExecutor(staged multisig.CacheableKVStore, destination multisig.Address, value uint64, payload []byte) error {
	w.executing = staged
	w.mu.Unlock()
	err := w.executor.Execute(destination, value, payload)
	w.mu.Lock()
	w.executing = nil
	return err
}

func loadState(db multisig.ReadOnlyKVStore) (*walletState, error) {
	raw, err := db.Get(stateKey)
	if err != nil {
		return nil, errors.Wrap(err, "state lookup")
	}
	if len(raw) == 0 {
		return nil, errors.Wrap(errors.ErrNotFound, "wallet state")
	}
	var st walletState
	if err := cdc.UnmarshalBinaryBare(raw, &st); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return &st, nil
}

func saveState(db multisig.SetDeleter, st *walletState) error {
	raw, err := cdc.MarshalBinaryBare(st)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return db.Set(stateKey, raw)
}

// adminGate fails unless the caller is the privileged administrator.
func adminGate(st *walletState, caller multisig.Address) error {
	if !st.Admin.Equals(caller) {
		return errors.Wrap(errors.ErrUnauthorized, "not the administrator")
	}
	return nil
}

// ownerGate fails unless the caller is a current owner.
func ownerGate(db multisig.ReadOnlyKVStore, caller multisig.Address) error {
	member, err := db.Has(memberKey(caller))
	if err != nil {
		return errors.Wrap(err, "membership lookup")
	}
	if !member {
		return errors.Wrap(errors.ErrUnauthorized, "not a wallet owner")
	}
	return nil
}

// IsOwner reports current membership of the identity.
func (w *Wallet) IsOwner(id multisig.Address) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.view().Has(memberKey(id))
}

// Admin returns the privileged administrator identity.
func (w *Wallet) Admin() (multisig.Address, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	st, err := loadState(w.view())
	if err != nil {
		return nil, err
	}
	return st.Admin.Clone(), nil
}

// Owners returns a copy of the current owner set. The order is an
// implementation detail: removal swaps the last entry into the freed
// slot, so consumers must not rely on it.
func (w *Wallet) Owners() ([]multisig.Address, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	st, err := loadState(w.view())
	if err != nil {
		return nil, err
	}
	owners := make([]multisig.Address, 0, len(st.Owners))
	for _, owner := range st.Owners {
		owners = append(owners, owner.Clone())
	}
	return owners, nil
}

// Threshold returns the approval threshold fixed at construction.
func (w *Wallet) Threshold() (uint32, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	st, err := loadState(w.view())
	if err != nil {
		return 0, err
	}
	return st.Threshold, nil
}

// Balance returns the deposited funds not yet spent by executions.
func (w *Wallet) Balance() (uint64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return loadBalance(w.view())
}

func loadBalance(db multisig.ReadOnlyKVStore) (uint64, error) {
	raw, err := db.Get(balanceKey)
	if err != nil {
		return 0, errors.Wrap(err, "balance lookup")
	}
	return decodeSequence(raw), nil
}

// Deposit accepts an incoming value transfer with no payload. Anyone
// may deposit, not only owners.
func (w *Wallet) Deposit(from multisig.Address, amount uint64) error {
	return w.run(func(db multisig.CacheableKVStore) ([]Event, error) {
		if err := from.Validate(); err != nil {
			return nil, errors.Wrap(err, "from")
		}
		if amount == 0 {
			return nil, errors.Wrap(errors.ErrEmpty, "amount")
		}
		balance, err := loadBalance(db)
		if err != nil {
			return nil, err
		}
		total := balance + amount
		if total < balance {
			return nil, errors.Wrap(errors.ErrOverflow, "balance")
		}
		if err := db.Set(balanceKey, encodeSequence(total)); err != nil {
			return nil, err
		}
		return []Event{Deposit{From: from.Clone(), Amount: amount, Balance: total}}, nil
	})
}
