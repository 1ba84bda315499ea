package wallet

import "github.com/iov-one/multisig/errors"

// Error codes reserved for this package: 1030-1049.
var (
	// ErrOwnerExists is returned when adding an identity that is already
	// a member of the owner set.
	ErrOwnerExists = errors.Register(1030, "owner already exists")

	// ErrOwnerNotFound is returned when the referenced identity is not a
	// member of the owner set.
	ErrOwnerNotFound = errors.Register(1031, "owner does not exist")

	// ErrInvalidTx is returned for a transaction index outside the
	// allocated range.
	ErrInvalidTx = errors.Register(1032, "invalid transaction")

	// ErrTxExecuted is returned when mutating a transaction that was
	// already executed. Executed is terminal.
	ErrTxExecuted = errors.Register(1033, "transaction already executed")

	// ErrTxApproved is returned when the caller already has an approval
	// on record for this transaction.
	ErrTxApproved = errors.Register(1034, "transaction already approved")

	// ErrTxNotApproved is returned when revoking an approval the caller
	// never gave.
	ErrTxNotApproved = errors.Register(1035, "transaction not approved")

	// ErrInsufficientApprovals is returned when fewer approvals are on
	// record than the threshold requires.
	ErrInsufficientApprovals = errors.Register(1036, "insufficient approvals")

	// ErrInsufficientSignatures is returned when fewer signatures are
	// supplied than the threshold requires.
	ErrInsufficientSignatures = errors.Register(1037, "insufficient signature count")

	// ErrSigManipulation is returned when two adjacent signatures in the
	// bundle recover to the same identity.
	ErrSigManipulation = errors.Register(1038, "signature manipulation detected")

	// ErrInsufficientValidSignatures is returned when fewer supplied
	// signatures than the threshold recover to approving owners.
	ErrInsufficientValidSignatures = errors.Register(1039, "insufficient valid signature count")

	// ErrExecutionFailed is returned when the destination call reports
	// failure. The whole operation is rolled back, including the
	// executed flag.
	ErrExecutionFailed = errors.Register(1040, "execution failed")
)
