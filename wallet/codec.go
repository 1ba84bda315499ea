package wallet

import (
	"encoding/binary"

	amino "github.com/tendermint/go-amino"

	"github.com/iov-one/multisig"
)

// cdc serializes all persisted records. Plain structs only, so no
// concrete type registration is needed.
var cdc = amino.NewCodec()

// Storage layout. Bookkeeping records use the _ prefix so they sort
// apart from the addressable ranges.
var (
	// stateKey holds the owner set, threshold and wallet identity.
	stateKey = []byte("_w.state")

	// seqKey is the auto-increment counter for transaction indexes.
	seqKey = []byte("_s.tx:id")

	// balanceKey holds the deposited wallet balance.
	balanceKey = []byte("_w.balance")
)

const (
	txPrefix       = "tx:"
	memberPrefix   = "own:"
	approvalPrefix = "apr:"
)

// txKey addresses the transaction record for the given index.
func txKey(index uint64) []byte {
	key := make([]byte, len(txPrefix)+8)
	copy(key, txPrefix)
	binary.BigEndian.PutUint64(key[len(txPrefix):], index)
	return key
}

// memberKey addresses the membership record of an owner. The value is
// the owner's position in the dense list, so removal can swap in O(1).
func memberKey(owner multisig.Address) []byte {
	return append([]byte(memberPrefix), owner...)
}

// approvalKey addresses the approval bit of (transaction, owner).
func approvalKey(index uint64, owner multisig.Address) []byte {
	key := make([]byte, len(approvalPrefix)+8, len(approvalPrefix)+8+len(owner))
	copy(key, approvalPrefix)
	binary.BigEndian.PutUint64(key[len(approvalPrefix):], index)
	return append(key, owner...)
}

// encodeSequence stores an int as 8 bytes, so that bytes.Compare on
// encoded values matches numeric order.
func encodeSequence(val uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, val)
	return bz
}

func decodeSequence(bz []byte) uint64 {
	if len(bz) == 0 {
		return 0
	}
	return binary.BigEndian.Uint64(bz)
}

// encodePosition stores a list position as 4 bytes.
func encodePosition(pos uint32) []byte {
	bz := make([]byte, 4)
	binary.BigEndian.PutUint32(bz, pos)
	return bz
}

func decodePosition(bz []byte) uint32 {
	return binary.BigEndian.Uint32(bz)
}
