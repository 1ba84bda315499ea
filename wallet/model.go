package wallet

import (
	"encoding/binary"

	"github.com/iov-one/multisig"
	"github.com/iov-one/multisig/errors"
)

// maxOwnersAllowed bounds the committee size. To avoid burning CPU,
// this is the maximum number of owners allowed in a single wallet.
const maxOwnersAllowed = 100

// Transaction is a proposed action, owned exclusively by the ledger.
// It is created on submit, never deleted and its Executed flag flips
// false to true exactly once.
type Transaction struct {
	Destination multisig.Address
	Value       uint64
	Payload     []byte
	Executed    bool
	Approvals   uint32
}

// Validate enforces destination correctness on a new submission.
func (tx *Transaction) Validate() error {
	if err := tx.Destination.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	return nil
}

// Clone returns a copy that shares no memory with the original.
func (tx *Transaction) Clone() *Transaction {
	cpy := &Transaction{
		Destination: tx.Destination.Clone(),
		Value:       tx.Value,
		Executed:    tx.Executed,
		Approvals:   tx.Approvals,
	}
	if tx.Payload != nil {
		cpy.Payload = append([]byte(nil), tx.Payload...)
	}
	return cpy
}

// walletState is the persisted aggregate root: the administrator, the
// dense owner list and the threshold fixed at construction.
type walletState struct {
	Admin     multisig.Address
	Owners    []multisig.Address
	Threshold uint32
	Self      multisig.Address
}

// Config describes a wallet to be initialized.
type Config struct {
	// Admin is the single privileged identity that may mutate the owner
	// set. It is distinct from the wallet owners.
	Admin multisig.Address

	// Owners is the initial committee.
	Owners []multisig.Address

	// Threshold is the number of independent authorizations required
	// before execution. Immutable for the lifetime of the wallet.
	Threshold uint32

	// Address is the wallet's own identity, mixed into every
	// transaction digest. Derived from the initial configuration when
	// empty.
	Address multisig.Address
}

// Validate enforces owner and threshold boundaries.
func (c Config) Validate() error {
	if err := c.Admin.Validate(); err != nil {
		return errors.Wrap(err, "admin")
	}
	switch n := len(c.Owners); {
	case n == 0:
		return errors.Wrap(errors.ErrEmpty, "no owners")
	case n > maxOwnersAllowed:
		return errors.Wrap(errors.ErrInput, "too many owners")
	}
	seen := make(map[string]struct{}, len(c.Owners))
	for i, owner := range c.Owners {
		if err := owner.Validate(); err != nil {
			return errors.Wrapf(err, "owner #%d", i)
		}
		if owner.Equals(c.Admin) {
			return errors.Wrapf(errors.ErrInput, "owner #%d is the administrator", i)
		}
		if _, ok := seen[string(owner)]; ok {
			return errors.Wrapf(errors.ErrDuplicate, "owner #%d", i)
		}
		seen[string(owner)] = struct{}{}
	}
	if c.Threshold < 1 {
		return errors.Wrap(errors.ErrInput, "threshold must be greater than 0")
	}
	if int(c.Threshold) > len(c.Owners) {
		return errors.Wrap(errors.ErrInput, "threshold greater than the number of owners")
	}
	if len(c.Address) != 0 {
		if err := c.Address.Validate(); err != nil {
			return errors.Wrap(err, "address")
		}
	}
	return nil
}

// identity derives a deterministic wallet address from the initial
// configuration, used when none was supplied.
func (c Config) identity() multisig.Address {
	data := []byte("wallet/create/")
	data = append(data, c.Admin...)
	for _, owner := range c.Owners {
		data = append(data, owner...)
	}
	var t [4]byte
	binary.BigEndian.PutUint32(t[:], c.Threshold)
	data = append(data, t[:]...)
	return multisig.NewAddress(data)
}
