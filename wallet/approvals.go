package wallet

import (
	"github.com/iov-one/multisig"
	"github.com/iov-one/multisig/errors"
)

// approvalMark is the stored value of a set approval bit. Absence of
// the record means not approved.
var approvalMark = []byte{1}

// ApproveTransaction puts the caller's approval on record and bumps
// the transaction's approval count. Restricted to current owners; each
// owner can approve a transaction only once.
func (w *Wallet) ApproveTransaction(caller multisig.Address, index uint64) error {
	return w.run(func(db multisig.CacheableKVStore) ([]Event, error) {
		if err := ownerGate(db, caller); err != nil {
			return nil, err
		}
		tx, err := loadTx(db, index)
		if err != nil {
			return nil, err
		}
		if tx.Executed {
			return nil, errors.Wrapf(ErrTxExecuted, "index %d", index)
		}
		approved, err := db.Has(approvalKey(index, caller))
		if err != nil {
			return nil, errors.Wrap(err, "approval lookup")
		}
		if approved {
			return nil, errors.Wrapf(ErrTxApproved, "index %d", index)
		}

		if err := db.Set(approvalKey(index, caller), approvalMark); err != nil {
			return nil, err
		}
		tx.Approvals++
		if err := saveTx(db, index, tx); err != nil {
			return nil, err
		}
		return []Event{TransactionApproval{Index: index, Owner: caller.Clone()}}, nil
	})
}

// RevokeApproval withdraws an approval previously given by the caller
// and lowers the transaction's approval count. Valid only before
// execution.
func (w *Wallet) RevokeApproval(caller multisig.Address, index uint64) error {
	return w.run(func(db multisig.CacheableKVStore) ([]Event, error) {
		if err := ownerGate(db, caller); err != nil {
			return nil, err
		}
		tx, err := loadTx(db, index)
		if err != nil {
			return nil, err
		}
		if tx.Executed {
			return nil, errors.Wrapf(ErrTxExecuted, "index %d", index)
		}
		approved, err := db.Has(approvalKey(index, caller))
		if err != nil {
			return nil, errors.Wrap(err, "approval lookup")
		}
		if !approved {
			return nil, errors.Wrapf(ErrTxNotApproved, "index %d", index)
		}

		if err := db.Delete(approvalKey(index, caller)); err != nil {
			return nil, err
		}
		tx.Approvals--
		if err := saveTx(db, index, tx); err != nil {
			return nil, err
		}
		return []Event{Revocation{Index: index, Owner: caller.Clone()}}, nil
	})
}

// Confirmed reports whether the owner has an approval on record for
// the transaction. The record survives owner removal; membership is
// re-checked separately at execution time.
func (w *Wallet) Confirmed(index uint64, owner multisig.Address) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := loadTx(w.view(), index); err != nil {
		return false, err
	}
	return w.view().Has(approvalKey(index, owner))
}
