package wallet

import (
	"github.com/iov-one/multisig"
	"github.com/iov-one/multisig/errors"
)

// SubmitTransaction allocates the next ledger index for the proposed
// action and returns it. Restricted to current owners.
func (w *Wallet) SubmitTransaction(caller, destination multisig.Address, value uint64, payload []byte) (uint64, error) {
	var index uint64
	err := w.run(func(db multisig.CacheableKVStore) ([]Event, error) {
		if err := ownerGate(db, caller); err != nil {
			return nil, err
		}
		tx := &Transaction{
			Destination: destination.Clone(),
			Value:       value,
		}
		if payload != nil {
			tx.Payload = append([]byte(nil), payload...)
		}
		if err := tx.Validate(); err != nil {
			return nil, err
		}

		raw, err := db.Get(seqKey)
		if err != nil {
			return nil, errors.Wrap(err, "sequence lookup")
		}
		index = decodeSequence(raw)
		if err := db.Set(seqKey, encodeSequence(index+1)); err != nil {
			return nil, err
		}
		if err := saveTx(db, index, tx); err != nil {
			return nil, err
		}
		ev := TransactionSubmitted{
			Index:       index,
			Submitter:   caller.Clone(),
			Destination: tx.Destination.Clone(),
			Value:       tx.Value,
			Payload:     append([]byte(nil), tx.Payload...),
		}
		return []Event{ev}, nil
	})
	return index, err
}

// GetTransaction returns a copy of the ledger entry. Only indexes
// strictly below TransactionCount are valid.
func (w *Wallet) GetTransaction(index uint64) (*Transaction, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return loadTx(w.view(), index)
}

// TransactionCount returns the number of allocated ledger entries.
func (w *Wallet) TransactionCount() (uint64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	raw, err := w.view().Get(seqKey)
	if err != nil {
		return 0, errors.Wrap(err, "sequence lookup")
	}
	return decodeSequence(raw), nil
}

func loadTx(db multisig.ReadOnlyKVStore, index uint64) (*Transaction, error) {
	raw, err := db.Get(txKey(index))
	if err != nil {
		return nil, errors.Wrap(err, "transaction lookup")
	}
	if len(raw) == 0 {
		return nil, errors.Wrapf(ErrInvalidTx, "index %d", index)
	}
	var tx Transaction
	if err := cdc.UnmarshalBinaryBare(raw, &tx); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return &tx, nil
}

func saveTx(db multisig.SetDeleter, index uint64, tx *Transaction) error {
	raw, err := cdc.MarshalBinaryBare(tx)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return db.Set(txKey(index), raw)
}
