package wallet

import (
	"github.com/iov-one/multisig"
	"github.com/iov-one/multisig/errors"
)

// AddOwner inserts a new identity into the owner set. Restricted to
// the administrator.
func (w *Wallet) AddOwner(caller, id multisig.Address) error {
	return w.run(func(db multisig.CacheableKVStore) ([]Event, error) {
		st, err := loadState(db)
		if err != nil {
			return nil, err
		}
		if err := adminGate(st, caller); err != nil {
			return nil, err
		}
		if err := id.Validate(); err != nil {
			return nil, errors.Wrap(err, "owner")
		}
		if id.Equals(st.Admin) {
			return nil, errors.Wrap(errors.ErrInput, "owner is the administrator")
		}
		member, err := db.Has(memberKey(id))
		if err != nil {
			return nil, errors.Wrap(err, "membership lookup")
		}
		if member {
			return nil, errors.Wrapf(ErrOwnerExists, "%s", id)
		}
		if len(st.Owners) >= maxOwnersAllowed {
			return nil, errors.Wrap(errors.ErrInput, "too many owners")
		}

		pos := uint32(len(st.Owners))
		st.Owners = append(st.Owners, id.Clone())
		if err := db.Set(memberKey(id), encodePosition(pos)); err != nil {
			return nil, err
		}
		if err := saveState(db, st); err != nil {
			return nil, err
		}
		return []Event{OwnerAddition{Owner: id.Clone()}}, nil
	})
}

// RemoveOwner drops an identity from the owner set by swapping the
// last entry into its slot, so the list order is not preserved.
// Restricted to the administrator.
//
// The threshold is not re-validated here: removing owners can leave
// the wallet permanently unable to reach quorum.
func (w *Wallet) RemoveOwner(caller, id multisig.Address) error {
	return w.run(func(db multisig.CacheableKVStore) ([]Event, error) {
		st, err := loadState(db)
		if err != nil {
			return nil, err
		}
		if err := adminGate(st, caller); err != nil {
			return nil, err
		}
		raw, err := db.Get(memberKey(id))
		if err != nil {
			return nil, errors.Wrap(err, "membership lookup")
		}
		if len(raw) == 0 {
			return nil, errors.Wrapf(ErrOwnerNotFound, "%s", id)
		}
		pos := decodePosition(raw)

		last := uint32(len(st.Owners) - 1)
		if pos != last {
			moved := st.Owners[last]
			st.Owners[pos] = moved
			if err := db.Set(memberKey(moved), encodePosition(pos)); err != nil {
				return nil, err
			}
		}
		st.Owners = st.Owners[:last]
		if err := db.Delete(memberKey(id)); err != nil {
			return nil, err
		}
		if err := saveState(db, st); err != nil {
			return nil, err
		}
		return []Event{OwnerRemoval{Owner: id.Clone()}}, nil
	})
}

// ReplaceOwner swaps one identity for another in a single atomic step:
// either both membership flips happen or neither. Restricted to the
// administrator.
func (w *Wallet) ReplaceOwner(caller, oldOwner, newOwner multisig.Address) error {
	return w.run(func(db multisig.CacheableKVStore) ([]Event, error) {
		st, err := loadState(db)
		if err != nil {
			return nil, err
		}
		if err := adminGate(st, caller); err != nil {
			return nil, err
		}
		raw, err := db.Get(memberKey(oldOwner))
		if err != nil {
			return nil, errors.Wrap(err, "membership lookup")
		}
		if len(raw) == 0 {
			return nil, errors.Wrapf(ErrOwnerNotFound, "%s", oldOwner)
		}
		if err := newOwner.Validate(); err != nil {
			return nil, errors.Wrap(err, "new owner")
		}
		if newOwner.Equals(st.Admin) {
			return nil, errors.Wrap(errors.ErrInput, "new owner is the administrator")
		}
		member, err := db.Has(memberKey(newOwner))
		if err != nil {
			return nil, errors.Wrap(err, "membership lookup")
		}
		if member {
			return nil, errors.Wrapf(ErrOwnerExists, "%s", newOwner)
		}

		pos := decodePosition(raw)
		st.Owners[pos] = newOwner.Clone()
		if err := db.Delete(memberKey(oldOwner)); err != nil {
			return nil, err
		}
		if err := db.Set(memberKey(newOwner), encodePosition(pos)); err != nil {
			return nil, err
		}
		if err := saveState(db, st); err != nil {
			return nil, err
		}
		return []Event{
			OwnerRemoval{Owner: oldOwner.Clone()},
			OwnerAddition{Owner: newOwner.Clone()},
		}, nil
	})
}
