package wallet

import (
	"encoding/binary"

	"github.com/iov-one/multisig"
	"github.com/iov-one/multisig/crypto"
	"github.com/iov-one/multisig/errors"
)

// ExecuteTransaction authorizes exactly one execution of the ledger
// entry and forwards it to the external call boundary. Restricted to
// current owners.
//
// Two independent gates must pass: at least threshold approvals on
// record, and at least threshold supplied signatures that recover to
// identities which are both current owners and approvers of this
// transaction. The executed flag is set before the destination call so
// a reentrant observer sees the entry as spent; if the call fails the
// whole operation is discarded, the flag included.
func (w *Wallet) ExecuteTransaction(caller multisig.Address, index uint64, sigs []crypto.Signature) error {
	return w.run(func(db multisig.CacheableKVStore) ([]Event, error) {
		if err := ownerGate(db, caller); err != nil {
			return nil, err
		}
		st, err := loadState(db)
		if err != nil {
			return nil, err
		}
		tx, err := loadTx(db, index)
		if err != nil {
			return nil, err
		}
		if tx.Executed {
			return nil, errors.Wrapf(ErrTxExecuted, "index %d", index)
		}
		if tx.Approvals < st.Threshold {
			return nil, errors.Wrapf(ErrInsufficientApprovals,
				"%d of %d", tx.Approvals, st.Threshold)
		}
		if uint32(len(sigs)) < st.Threshold {
			return nil, errors.Wrapf(ErrInsufficientSignatures,
				"%d of %d", len(sigs), st.Threshold)
		}

		digest := transactionDigest(st.Self, index, tx)

		// Walk the bundle in the supplied order. Only a signer equal to
		// the immediately preceding recovered identity is rejected; a
		// bundle like [A, B, A] passes this check.
		var prev multisig.Address
		var valid uint32
		for i, sig := range sigs {
			signer, err := crypto.RecoverAddress(digest, sig)
			if err != nil {
				return nil, errors.Wrapf(err, "signature #%d", i)
			}
			if prev != nil && signer.Equals(prev) {
				return nil, errors.Wrapf(ErrSigManipulation, "signature #%d", i)
			}
			prev = signer

			member, err := db.Has(memberKey(signer))
			if err != nil {
				return nil, errors.Wrap(err, "membership lookup")
			}
			if !member {
				continue
			}
			approved, err := db.Has(approvalKey(index, signer))
			if err != nil {
				return nil, errors.Wrap(err, "approval lookup")
			}
			if approved {
				valid++
			}
		}
		if valid < st.Threshold {
			return nil, errors.Wrapf(ErrInsufficientValidSignatures,
				"%d of %d", valid, st.Threshold)
		}

		// Mark spent before the external call to close the reentrancy
		// window, then pay out of the deposited balance.
		tx.Executed = true
		if err := saveTx(db, index, tx); err != nil {
			return nil, err
		}
		if tx.Value > 0 {
			balance, err := loadBalance(db)
			if err != nil {
				return nil, err
			}
			if tx.Value > balance {
				return nil, errors.Wrapf(ErrExecutionFailed,
					"insufficient funds: have %d, need %d", balance, tx.Value)
			}
			if err := db.Set(balanceKey, encodeSequence(balance-tx.Value)); err != nil {
				return nil, err
			}
		}
		if _, busy := db.(stagedView); busy {
			// This call arrived while another execution sits in the
			// external call boundary; starting a second one from here
			// is not allowed.
			return nil, errors.Wrap(errors.ErrState, "execution in progress")
		}
		if err := w.invokeExecutor(db, tx.Destination, tx.Value, tx.Payload); err != nil {
			return nil, errors.Wrap(ErrExecutionFailed, err.Error())
		}

		ev := TransactionExecuted{
			Index:       index,
			Destination: tx.Destination.Clone(),
			Value:       tx.Value,
			Payload:     append([]byte(nil), tx.Payload...),
		}
		return []Event{ev}, nil
	})
}

// TransactionDigest returns the canonical digest owners sign to
// authorize the ledger entry.
func (w *Wallet) TransactionDigest(index uint64) ([]byte, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	st, err := loadState(w.view())
	if err != nil {
		return nil, err
	}
	tx, err := loadTx(w.view(), index)
	if err != nil {
		return nil, err
	}
	return transactionDigest(st.Self, index, tx), nil
}

// transactionDigest is the keccak256 hash over the packed encoding of
// (wallet identity, index, value, payload, destination). The field
// order and packing must stay stable for signature compatibility.
func transactionDigest(self multisig.Address, index uint64, tx *Transaction) []byte {
	var idx, val [8]byte
	binary.BigEndian.PutUint64(idx[:], index)
	binary.BigEndian.PutUint64(val[:], tx.Value)
	return crypto.Keccak256(self, idx[:], val[:], tx.Payload, tx.Destination)
}
