package multisig

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/iov-one/multisig/errors"
)

func TestAddressValidate(t *testing.T) {
	cases := map[string]struct {
		addr    Address
		wantErr *errors.Error
	}{
		"valid":     {addr: make(Address, AddressLength)},
		"nil":       {addr: nil, wantErr: errors.ErrInput},
		"too short": {addr: make(Address, AddressLength-1), wantErr: errors.ErrInput},
		"too long":  {addr: make(Address, AddressLength+1), wantErr: errors.ErrInput},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.addr.Validate()
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %+v", err)
				}
			} else if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}
}

func TestAddressStringRoundTrip(t *testing.T) {
	addr := NewAddress([]byte("round trip"))

	enc := addr.String()
	if !strings.HasPrefix(enc, "msig1") {
		t.Fatalf("unexpected representation: %q", enc)
	}
	got, err := ParseAddress(enc)
	if err != nil {
		t.Fatalf("cannot parse %q: %+v", enc, err)
	}
	if !got.Equals(addr) {
		t.Fatalf("round trip changed the address: %s != %s", got, addr)
	}
}

func TestParseAddressHex(t *testing.T) {
	addr := NewAddress([]byte("hex form"))

	hexed, err := json.Marshal(addr)
	if err != nil {
		t.Fatalf("cannot marshal: %+v", err)
	}
	var raw string
	if err := json.Unmarshal(hexed, &raw); err != nil {
		t.Fatalf("cannot unmarshal: %+v", err)
	}
	got, err := ParseAddress(raw)
	if err != nil {
		t.Fatalf("cannot parse %q: %+v", raw, err)
	}
	if !got.Equals(addr) {
		t.Fatal("hex round trip changed the address")
	}
}

func TestParseAddressRejectsGarbage(t *testing.T) {
	for _, enc := range []string{
		"",
		"not hex at all",
		"abcd",            // too short
		"msig1qqqqqqqqqq", // broken checksum
	} {
		if _, err := ParseAddress(enc); !errors.ErrInput.Is(err) {
			t.Errorf("%q: unexpected error: %+v", enc, err)
		}
	}
}

func TestAddressJSON(t *testing.T) {
	addr := NewAddress([]byte("json"))

	raw, err := json.Marshal(addr)
	if err != nil {
		t.Fatalf("cannot marshal: %+v", err)
	}
	var got Address
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("cannot unmarshal: %+v", err)
	}
	if !got.Equals(addr) {
		t.Fatalf("json round trip changed the address: %q", raw)
	}

	var empty Address
	if err := json.Unmarshal([]byte(`""`), &empty); err != nil {
		t.Fatalf("cannot unmarshal an empty address: %+v", err)
	}
	if empty != nil {
		t.Fatal("an empty encoding must produce a nil address")
	}
}

func TestAddressClone(t *testing.T) {
	addr := NewAddress([]byte("clone"))
	cpy := addr.Clone()
	cpy[0]++
	if addr.Equals(cpy) {
		t.Fatal("clone must not share memory")
	}
	if Address(nil).Clone() != nil {
		t.Fatal("nil clone must stay nil")
	}
}
