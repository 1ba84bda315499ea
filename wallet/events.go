package wallet

import "github.com/iov-one/multisig"

// Event is a notification about a committed state change. Events are
// delivered only after the operation that produced them was written,
// so observers never see effects of a rolled back operation.
type Event interface {
	event()
}

// OwnerAddition is emitted when an identity joins the owner set.
type OwnerAddition struct {
	Owner multisig.Address
}

// OwnerRemoval is emitted when an identity leaves the owner set.
type OwnerRemoval struct {
	Owner multisig.Address
}

// TransactionSubmitted carries the full initial snapshot of a new
// ledger entry.
type TransactionSubmitted struct {
	Index       uint64
	Submitter   multisig.Address
	Destination multisig.Address
	Value       uint64
	Payload     []byte
}

// TransactionApproval is emitted when an owner puts an approval on
// record.
type TransactionApproval struct {
	Index uint64
	Owner multisig.Address
}

// Revocation is emitted when an owner withdraws an approval.
type Revocation struct {
	Index uint64
	Owner multisig.Address
}

// TransactionExecuted is emitted after the destination call succeeded
// and the entry was marked executed.
type TransactionExecuted struct {
	Index       uint64
	Destination multisig.Address
	Value       uint64
	Payload     []byte
}

// Deposit is emitted for an incoming value transfer with no payload.
type Deposit struct {
	From    multisig.Address
	Amount  uint64
	Balance uint64
}

func (OwnerAddition) event()        {}
func (OwnerRemoval) event()         {}
func (TransactionSubmitted) event() {}
func (TransactionApproval) event()  {}
func (Revocation) event()           {}
func (TransactionExecuted) event()  {}
func (Deposit) event()              {}

// Emitter receives events for external observers.
type Emitter interface {
	Emit(Event)
}

// NopEmitter drops all events.
type NopEmitter struct{}

var _ Emitter = NopEmitter{}

func (NopEmitter) Emit(Event) {}

// Executor is the external call boundary. The engine marks a
// transaction executed before invoking it and commits only when it
// returns nil; on error every state change of the operation, the
// executed flag included, is discarded.
//
// Implementations may call back into the wallet. While the call runs,
// reads observe the staged state with the executed flag already set, a
// reentrant execution of the same entry fails on the not-executed
// guard and any other mutation is rejected with ErrState.
type Executor interface {
	Execute(destination multisig.Address, value uint64, payload []byte) error
}

// NopExecutor accepts every call. Useful when the wallet is used for
// bookkeeping only.
type NopExecutor struct{}

var _ Executor = NopExecutor{}

func (NopExecutor) Execute(multisig.Address, uint64, []byte) error { return nil }
