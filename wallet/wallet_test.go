package wallet_test

import (
	"testing"

	"github.com/iov-one/multisig"
	"github.com/iov-one/multisig/errors"
	"github.com/iov-one/multisig/store"
	"github.com/iov-one/multisig/wallet"
	"github.com/iov-one/multisig/wallettest"
	"github.com/iov-one/multisig/wallettest/assert"
)

// newWallet builds a fresh 3-owner wallet and returns it together
// with the participating identities.
func newWallet(t testing.TB, threshold uint32, emitter wallet.Emitter, executor wallet.Executor) (*wallet.Wallet, multisig.Address, []multisig.Address) {
	t.Helper()

	admin := wallettest.NewAddress()
	owners := []multisig.Address{
		wallettest.NewAddress(),
		wallettest.NewAddress(),
		wallettest.NewAddress(),
	}
	w, err := wallet.New(store.MemStore(), wallet.Config{
		Admin:     admin,
		Owners:    owners,
		Threshold: threshold,
	}, emitter, executor)
	if err != nil {
		t.Fatalf("cannot create wallet: %+v", err)
	}
	return w, admin, owners
}

func TestConfigValidation(t *testing.T) {
	admin := wallettest.NewAddress()
	alice := wallettest.NewAddress()
	bob := wallettest.NewAddress()

	cases := map[string]struct {
		conf    wallet.Config
		wantErr *errors.Error
	}{
		"valid minimal": {
			conf: wallet.Config{
				Admin:     admin,
				Owners:    []multisig.Address{alice},
				Threshold: 1,
			},
		},
		"no owners": {
			conf: wallet.Config{
				Admin:     admin,
				Threshold: 1,
			},
			wantErr: errors.ErrEmpty,
		},
		"zero threshold": {
			conf: wallet.Config{
				Admin:     admin,
				Owners:    []multisig.Address{alice},
				Threshold: 0,
			},
			wantErr: errors.ErrInput,
		},
		"threshold above owner count": {
			conf: wallet.Config{
				Admin:     admin,
				Owners:    []multisig.Address{alice, bob},
				Threshold: 3,
			},
			wantErr: errors.ErrInput,
		},
		"duplicate owner": {
			conf: wallet.Config{
				Admin:     admin,
				Owners:    []multisig.Address{alice, alice},
				Threshold: 1,
			},
			wantErr: errors.ErrDuplicate,
		},
		"admin cannot be an owner": {
			conf: wallet.Config{
				Admin:     admin,
				Owners:    []multisig.Address{admin, alice},
				Threshold: 1,
			},
			wantErr: errors.ErrInput,
		},
		"broken admin address": {
			conf: wallet.Config{
				Admin:     multisig.Address("too-short"),
				Owners:    []multisig.Address{alice},
				Threshold: 1,
			},
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			_, err := wallet.New(store.MemStore(), tc.conf, nil, nil)
			if tc.wantErr == nil {
				assert.Nil(t, err)
			} else {
				assert.IsErr(t, tc.wantErr, err)
			}
		})
	}
}

func TestCannotInitializeTwice(t *testing.T) {
	db := store.MemStore()
	conf := wallet.Config{
		Admin:     wallettest.NewAddress(),
		Owners:    []multisig.Address{wallettest.NewAddress()},
		Threshold: 1,
	}
	if _, err := wallet.New(db, conf, nil, nil); err != nil {
		t.Fatalf("first initialization: %+v", err)
	}
	_, err := wallet.New(db, conf, nil, nil)
	assert.IsErr(t, errors.ErrState, err)
}

func TestOpenPersistedWallet(t *testing.T) {
	db := store.MemStore()
	admin := wallettest.NewAddress()
	owners := []multisig.Address{wallettest.NewAddress(), wallettest.NewAddress()}

	created, err := wallet.New(db, wallet.Config{
		Admin:     admin,
		Owners:    owners,
		Threshold: 2,
	}, nil, nil)
	assert.Nil(t, err)

	w, err := wallet.Open(db, nil, nil)
	assert.Nil(t, err)

	threshold, err := w.Threshold()
	assert.Nil(t, err)
	assert.Equal(t, uint32(2), threshold)

	gotAdmin, err := w.Admin()
	assert.Nil(t, err)
	assert.Equal(t, admin, gotAdmin)

	assert.Equal(t, created.Address(), w.Address())

	for _, owner := range owners {
		ok, err := w.IsOwner(owner)
		assert.Nil(t, err)
		assert.Equal(t, true, ok)
	}
}

func TestOpenFreshStore(t *testing.T) {
	_, err := wallet.Open(store.MemStore(), nil, nil)
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestSubmitRestrictedToOwners(t *testing.T) {
	w, admin, owners := newWallet(t, 2, nil, nil)
	dest := wallettest.NewAddress()

	if _, err := w.SubmitTransaction(owners[0], dest, 7, []byte("ship it")); err != nil {
		t.Fatalf("owner submission: %+v", err)
	}

	// the administrator is not a wallet owner
	_, err := w.SubmitTransaction(admin, dest, 7, nil)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	_, err = w.SubmitTransaction(wallettest.NewAddress(), dest, 7, nil)
	assert.IsErr(t, errors.ErrUnauthorized, err)
}

func TestTransactionIndexBounds(t *testing.T) {
	w, _, owners := newWallet(t, 2, nil, nil)

	index, err := w.SubmitTransaction(owners[0], wallettest.NewAddress(), 0, nil)
	assert.Nil(t, err)
	assert.Equal(t, uint64(0), index)

	count, err := w.TransactionCount()
	assert.Nil(t, err)
	assert.Equal(t, uint64(1), count)

	if _, err := w.GetTransaction(index); err != nil {
		t.Fatalf("allocated index must be readable: %+v", err)
	}
	// index == length is outside the allocated range
	_, err = w.GetTransaction(count)
	assert.IsErr(t, wallet.ErrInvalidTx, err)
}

func TestSubmittedSnapshot(t *testing.T) {
	var emitter wallettest.Emitter
	w, _, owners := newWallet(t, 2, &emitter, nil)
	dest := wallettest.NewAddress()

	index, err := w.SubmitTransaction(owners[1], dest, 42, []byte("payload"))
	assert.Nil(t, err)

	tx, err := w.GetTransaction(index)
	assert.Nil(t, err)
	assert.Equal(t, dest, tx.Destination)
	assert.Equal(t, uint64(42), tx.Value)
	assert.Equal(t, []byte("payload"), tx.Payload)
	assert.Equal(t, false, tx.Executed)
	assert.Equal(t, uint32(0), tx.Approvals)

	assert.Equal(t, 1, len(emitter.Events))
	ev, ok := emitter.Events[0].(wallet.TransactionSubmitted)
	if !ok {
		t.Fatalf("want a submission event, got %T", emitter.Events[0])
	}
	assert.Equal(t, index, ev.Index)
	assert.Equal(t, owners[1], ev.Submitter)
	assert.Equal(t, uint64(42), ev.Value)
}

func TestApproveIdempotenceGuard(t *testing.T) {
	w, _, owners := newWallet(t, 2, nil, nil)
	index, err := w.SubmitTransaction(owners[0], wallettest.NewAddress(), 0, nil)
	assert.Nil(t, err)

	assert.Nil(t, w.ApproveTransaction(owners[0], index))

	// second approval by the same owner must fail and leave no trace
	err = w.ApproveTransaction(owners[0], index)
	assert.IsErr(t, wallet.ErrTxApproved, err)

	tx, err := w.GetTransaction(index)
	assert.Nil(t, err)
	assert.Equal(t, uint32(1), tx.Approvals)
}

func TestApproveRevokeRoundTrip(t *testing.T) {
	w, _, owners := newWallet(t, 2, nil, nil)
	index, err := w.SubmitTransaction(owners[0], wallettest.NewAddress(), 0, nil)
	assert.Nil(t, err)

	assert.Nil(t, w.ApproveTransaction(owners[1], index))
	ok, err := w.Confirmed(index, owners[1])
	assert.Nil(t, err)
	assert.Equal(t, true, ok)

	assert.Nil(t, w.RevokeApproval(owners[1], index))
	ok, err = w.Confirmed(index, owners[1])
	assert.Nil(t, err)
	assert.Equal(t, false, ok)

	tx, err := w.GetTransaction(index)
	assert.Nil(t, err)
	assert.Equal(t, uint32(0), tx.Approvals)

	// a second revocation has nothing to withdraw
	err = w.RevokeApproval(owners[1], index)
	assert.IsErr(t, wallet.ErrTxNotApproved, err)
}

// TestApprovalCountConsistency checks that the approvals counter always
// equals the number of set approval bits, whatever the call sequence.
func TestApprovalCountConsistency(t *testing.T) {
	w, _, owners := newWallet(t, 2, nil, nil)
	index, err := w.SubmitTransaction(owners[0], wallettest.NewAddress(), 0, nil)
	assert.Nil(t, err)

	steps := []struct {
		approve bool
		owner   int
		fails   bool
	}{
		{approve: true, owner: 0},
		{approve: true, owner: 1},
		{approve: true, owner: 0, fails: true},
		{approve: false, owner: 0},
		{approve: false, owner: 0, fails: true},
		{approve: true, owner: 2},
		{approve: true, owner: 0},
		{approve: false, owner: 1},
	}
	for i, step := range steps {
		var err error
		if step.approve {
			err = w.ApproveTransaction(owners[step.owner], index)
		} else {
			err = w.RevokeApproval(owners[step.owner], index)
		}
		if step.fails {
			if err == nil {
				t.Fatalf("step %d must fail", i)
			}
		} else if err != nil {
			t.Fatalf("step %d: %+v", i, err)
		}

		tx, err := w.GetTransaction(index)
		assert.Nil(t, err)
		var bits uint32
		for _, owner := range owners {
			ok, err := w.Confirmed(index, owner)
			assert.Nil(t, err)
			if ok {
				bits++
			}
		}
		assert.Equal(t, bits, tx.Approvals)
	}
}

func TestApprovalGuards(t *testing.T) {
	w, admin, owners := newWallet(t, 2, nil, nil)
	index, err := w.SubmitTransaction(owners[0], wallettest.NewAddress(), 0, nil)
	assert.Nil(t, err)

	err = w.ApproveTransaction(admin, index)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	err = w.ApproveTransaction(owners[0], index+1)
	assert.IsErr(t, wallet.ErrInvalidTx, err)

	err = w.RevokeApproval(wallettest.NewAddress(), index)
	assert.IsErr(t, errors.ErrUnauthorized, err)
}

func TestDeposit(t *testing.T) {
	var emitter wallettest.Emitter
	w, _, _ := newWallet(t, 2, &emitter, nil)
	anyone := wallettest.NewAddress()

	err := w.Deposit(anyone, 0)
	assert.IsErr(t, errors.ErrEmpty, err)

	assert.Nil(t, w.Deposit(anyone, 100))
	assert.Nil(t, w.Deposit(anyone, 11))

	balance, err := w.Balance()
	assert.Nil(t, err)
	assert.Equal(t, uint64(111), balance)

	assert.Equal(t, 2, len(emitter.Events))
	ev, ok := emitter.Events[1].(wallet.Deposit)
	if !ok {
		t.Fatalf("want a deposit event, got %T", emitter.Events[1])
	}
	assert.Equal(t, uint64(11), ev.Amount)
	assert.Equal(t, uint64(111), ev.Balance)
}

func TestFailedOperationLeavesNoTrace(t *testing.T) {
	var emitter wallettest.Emitter
	w, _, owners := newWallet(t, 2, &emitter, nil)

	index, err := w.SubmitTransaction(owners[0], wallettest.NewAddress(), 0, nil)
	assert.Nil(t, err)
	assert.Nil(t, w.ApproveTransaction(owners[0], index))
	emitted := len(emitter.Events)

	// the duplicate approval fails after the guard chain already read
	// state; nothing may be left behind
	err = w.ApproveTransaction(owners[0], index)
	assert.IsErr(t, wallet.ErrTxApproved, err)

	tx, err := w.GetTransaction(index)
	assert.Nil(t, err)
	assert.Equal(t, uint32(1), tx.Approvals)
	assert.Equal(t, emitted, len(emitter.Events))
}
