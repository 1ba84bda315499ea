// Package wallettest provides helpers for testing code built around
// the wallet engine: deterministic identities, real signing keys, a
// recording emitter and a scripted executor.
package wallettest

import (
	"encoding/binary"
	"sync/atomic"
	"testing"

	"github.com/iov-one/multisig"
	"github.com/iov-one/multisig/crypto"
	"github.com/iov-one/multisig/wallet"
)

var addressCounter uint64

// NewAddress returns a new unique address. Generated addresses are
// deterministic within a process run.
func NewAddress() multisig.Address {
	n := atomic.AddUint64(&addressCounter, 1)
	addr := make(multisig.Address, multisig.AddressLength)
	binary.BigEndian.PutUint64(addr[multisig.AddressLength-8:], n)
	return addr
}

// NewKey returns a fresh signing key, failing the test on generator
// errors.
func NewKey(t testing.TB) *crypto.PrivateKey {
	t.Helper()
	key, err := crypto.GenPrivateKey()
	if err != nil {
		t.Fatalf("cannot generate key: %s", err)
	}
	return key
}

// ParseAddress takes an address in a human readable format and returns
// its binary representation, failing the test on bad input.
func ParseAddress(t testing.TB, encodedAddress string) multisig.Address {
	t.Helper()
	addr, err := multisig.ParseAddress(encodedAddress)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encodedAddress, err)
	}
	return addr
}

// Sign signs the digest with every given key in order and returns the
// resulting bundle.
func Sign(t testing.TB, digest []byte, keys ...*crypto.PrivateKey) []crypto.Signature {
	t.Helper()
	sigs := make([]crypto.Signature, 0, len(keys))
	for _, key := range keys {
		sig, err := key.Sign(digest)
		if err != nil {
			t.Fatalf("cannot sign: %s", err)
		}
		sigs = append(sigs, sig)
	}
	return sigs
}

// Emitter records every emitted event for later inspection.
type Emitter struct {
	Events []wallet.Event
}

var _ wallet.Emitter = (*Emitter)(nil)

func (e *Emitter) Emit(ev wallet.Event) {
	e.Events = append(e.Events, ev)
}

// Call records one invocation of the external call boundary.
type Call struct {
	Destination multisig.Address
	Value       uint64
	Payload     []byte
}

// ExecutorFunc adapts a plain function to the wallet.Executor
// interface, for tests that need call-time behavior.
type ExecutorFunc func(destination multisig.Address, value uint64, payload []byte) error

var _ wallet.Executor = (ExecutorFunc)(nil)

func (f ExecutorFunc) Execute(destination multisig.Address, value uint64, payload []byte) error {
	return f(destination, value, payload)
}

// Executor is a scripted external call boundary. It records every call
// and returns Err, so tests can exercise both outcomes of the
// execution gate.
type Executor struct {
	Err   error
	Calls []Call
}

var _ wallet.Executor = (*Executor)(nil)

func (x *Executor) Execute(destination multisig.Address, value uint64, payload []byte) error {
	x.Calls = append(x.Calls, Call{
		Destination: destination,
		Value:       value,
		Payload:     payload,
	})
	return x.Err
}
