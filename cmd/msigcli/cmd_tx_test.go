package main

import (
	"bytes"
	"encoding/hex"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iov-one/multisig/crypto"
)

func TestSignPipeline(t *testing.T) {
	dir, err := ioutil.TempDir("", "msigcli")
	if err != nil {
		t.Fatalf("cannot create temporary directory: %s", err)
	}
	defer os.RemoveAll(dir)
	keyPath := filepath.Join(dir, "priv.key")
	if err := cmdKeygen(nil, ioutil.Discard, []string{"-key", keyPath}); err != nil {
		t.Fatalf("cannot generate a key: %s", err)
	}
	key, err := readKey(keyPath)
	if err != nil {
		t.Fatalf("cannot load the key back: %s", err)
	}

	digest := crypto.Keccak256([]byte("pipeline"))
	input := strings.NewReader(hex.EncodeToString(digest) + "\n")

	var out bytes.Buffer
	if err := cmdSign(input, &out, []string{"-key", keyPath}); err != nil {
		t.Fatalf("cannot sign: %s", err)
	}

	sigs, err := readSignatures(&out)
	if err != nil {
		t.Fatalf("cannot parse the produced signature: %s", err)
	}
	if len(sigs) != 1 {
		t.Fatalf("want one signature, got %d", len(sigs))
	}
	signer, err := crypto.RecoverAddress(digest, sigs[0])
	if err != nil {
		t.Fatalf("cannot recover the signer: %s", err)
	}
	if !signer.Equals(key.Address()) {
		t.Fatal("signature does not recover to the signing key")
	}
}

func TestReadSignatures(t *testing.T) {
	key, err := crypto.GenPrivateKey()
	if err != nil {
		t.Fatalf("cannot generate a key: %s", err)
	}
	sig, err := key.Sign(crypto.Keccak256([]byte("bundle")))
	if err != nil {
		t.Fatalf("cannot sign: %s", err)
	}
	enc := hex.EncodeToString(sig.Bytes())

	// blank lines are skipped, every signature is on its own line
	input := strings.NewReader("\n" + enc + "\n\n" + enc + "\n")
	sigs, err := readSignatures(input)
	if err != nil {
		t.Fatalf("cannot parse: %s", err)
	}
	if len(sigs) != 2 {
		t.Fatalf("want two signatures, got %d", len(sigs))
	}

	if _, err := readSignatures(strings.NewReader("not hex\n")); err == nil {
		t.Fatal("garbage input must be rejected")
	}
	if _, err := readSignatures(strings.NewReader("abcd\n")); err == nil {
		t.Fatal("a truncated signature must be rejected")
	}
}
