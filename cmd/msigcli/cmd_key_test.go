package main

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iov-one/multisig"
	"github.com/iov-one/multisig/crypto"
)

func TestKeygenAndKeyaddr(t *testing.T) {
	dir, err := ioutil.TempDir("", "msigcli")
	if err != nil {
		t.Fatalf("cannot create temporary directory: %s", err)
	}
	defer os.RemoveAll(dir)
	keyPath := filepath.Join(dir, "priv.key")

	var out bytes.Buffer
	if err := cmdKeygen(nil, &out, []string{"-key", keyPath}); err != nil {
		t.Fatalf("cannot generate a key: %s", err)
	}

	// generated key file must be a valid secp256k1 private key
	raw, err := ioutil.ReadFile(keyPath)
	if err != nil {
		t.Fatalf("cannot read the key file: %s", err)
	}
	key, err := crypto.PrivateKeyFromBytes(raw)
	if err != nil {
		t.Fatalf("key file content is not a valid key: %s", err)
	}

	out.Reset()
	if err := cmdKeyaddr(nil, &out, []string{"-key", keyPath}); err != nil {
		t.Fatalf("cannot print the key address: %s", err)
	}
	addr, err := multisig.ParseAddress(strings.TrimSpace(out.String()))
	if err != nil {
		t.Fatalf("keyaddr did not print a valid address: %s", err)
	}
	if !addr.Equals(key.Address()) {
		t.Fatal("printed address does not belong to the generated key")
	}
}

func TestKeygenRefusesToOverwrite(t *testing.T) {
	dir, err := ioutil.TempDir("", "msigcli")
	if err != nil {
		t.Fatalf("cannot create temporary directory: %s", err)
	}
	defer os.RemoveAll(dir)
	keyPath := filepath.Join(dir, "priv.key")

	if err := cmdKeygen(nil, ioutil.Discard, []string{"-key", keyPath}); err != nil {
		t.Fatalf("cannot generate a key: %s", err)
	}
	if err := cmdKeygen(nil, ioutil.Discard, []string{"-key", keyPath}); err == nil {
		t.Fatal("an existing key file must not be overwritten")
	}
}
