package main

import (
	"bufio"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"strings"

	"github.com/iov-one/multisig/crypto"
	"github.com/iov-one/multisig/wallet"
)

func cmdSubmit(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Propose a new transaction. Restricted to wallet owners.

On success the index of the created ledger entry is printed. The index
is needed to approve, sign and execute the transaction.
`)
		fl.PrintDefaults()
	}
	var (
		dbFl      = flDB(fl)
		keyFl     = fl.String("key", env("MSIGCLI_PRIV_KEY", os.Getenv("HOME")+"/.msig.priv.key"), "Path to the submitter private key file.")
		destFl    = flAddress(fl, "destination", "", "Address the transaction is directed to.")
		valueFl   = fl.Uint64("value", 0, "Amount transferred to the destination on execution.")
		payloadFl = fl.String("payload", "", "Hex encoded payload delivered to the destination.")
	)
	fl.Parse(args)

	payload, err := hex.DecodeString(*payloadFl)
	if err != nil {
		flagDie("payload is not valid hex: %s", err)
	}
	key, err := readKey(*keyFl)
	if err != nil {
		return err
	}
	return withWallet(*dbFl, func(w *wallet.Wallet) error {
		index, err := w.SubmitTransaction(key.Address(), *destFl, *valueFl, payload)
		if err != nil {
			return err
		}
		fmt.Fprintln(output, index)
		return nil
	})
}

func cmdApprove(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Record an approval for a pending transaction. Restricted to wallet
owners, one approval per owner.
`)
		fl.PrintDefaults()
	}
	var (
		dbFl    = flDB(fl)
		keyFl   = fl.String("key", env("MSIGCLI_PRIV_KEY", os.Getenv("HOME")+"/.msig.priv.key"), "Path to the approver private key file.")
		indexFl = fl.Uint64("index", 0, "Index of the ledger entry to approve.")
	)
	fl.Parse(args)

	key, err := readKey(*keyFl)
	if err != nil {
		return err
	}
	return withWallet(*dbFl, func(w *wallet.Wallet) error {
		return w.ApproveTransaction(key.Address(), *indexFl)
	})
}

func cmdRevoke(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Withdraw a previously recorded approval. Only possible while the
transaction is still pending.
`)
		fl.PrintDefaults()
	}
	var (
		dbFl    = flDB(fl)
		keyFl   = fl.String("key", env("MSIGCLI_PRIV_KEY", os.Getenv("HOME")+"/.msig.priv.key"), "Path to the approver private key file.")
		indexFl = fl.Uint64("index", 0, "Index of the ledger entry to revoke the approval from.")
	)
	fl.Parse(args)

	key, err := readKey(*keyFl)
	if err != nil {
		return err
	}
	return withWallet(*dbFl, func(w *wallet.Wallet) error {
		return w.RevokeApproval(key.Address(), *indexFl)
	})
}

func cmdDigest(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print out the hex encoded digest that owners must sign to authorize the
execution of a ledger entry. Pipe it into the sign command:

  $ msigcli digest -index 2 | msigcli sign
`)
		fl.PrintDefaults()
	}
	var (
		dbFl    = flDB(fl)
		indexFl = fl.Uint64("index", 0, "Index of the ledger entry.")
	)
	fl.Parse(args)

	st, err := openStore(*dbFl)
	if err != nil {
		return err
	}
	w, err := wallet.Open(st, nil, nil)
	if err != nil {
		return fmt.Errorf("cannot open wallet: %s", err)
	}
	digest, err := w.TransactionDigest(*indexFl)
	if err != nil {
		return err
	}
	fmt.Fprintln(output, hex.EncodeToString(digest))
	return nil
}

func cmdSign(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Sign a digest read from standard input and print out the hex encoded
signature. Signatures from several owners can be collected into a file
and passed to the execute command.
`)
		fl.PrintDefaults()
	}
	var (
		keyFl = fl.String("key", env("MSIGCLI_PRIV_KEY", os.Getenv("HOME")+"/.msig.priv.key"), "Path to the signer private key file.")
	)
	fl.Parse(args)

	key, err := readKey(*keyFl)
	if err != nil {
		return err
	}
	raw, err := ioutil.ReadAll(input)
	if err != nil {
		return fmt.Errorf("cannot read digest: %s", err)
	}
	digest, err := hex.DecodeString(strings.TrimSpace(string(raw)))
	if err != nil {
		return fmt.Errorf("digest is not valid hex: %s", err)
	}
	sig, err := key.Sign(digest)
	if err != nil {
		return fmt.Errorf("cannot sign: %s", err)
	}
	fmt.Fprintln(output, hex.EncodeToString(sig.Bytes()))
	return nil
}

func cmdExecute(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Execute an approved transaction. Restricted to wallet owners.

Hex encoded signatures are read from standard input, one per line, as
produced by the sign command:

  $ cat signatures.txt | msigcli execute -index 2
`)
		fl.PrintDefaults()
	}
	var (
		dbFl    = flDB(fl)
		keyFl   = fl.String("key", env("MSIGCLI_PRIV_KEY", os.Getenv("HOME")+"/.msig.priv.key"), "Path to the executor private key file.")
		indexFl = fl.Uint64("index", 0, "Index of the ledger entry to execute.")
	)
	fl.Parse(args)

	sigs, err := readSignatures(input)
	if err != nil {
		return err
	}
	key, err := readKey(*keyFl)
	if err != nil {
		return err
	}
	return withWallet(*dbFl, func(w *wallet.Wallet) error {
		return w.ExecuteTransaction(key.Address(), *indexFl, sigs)
	})
}

// readSignatures parses hex encoded signatures, one per line. Blank
// lines are skipped.
func readSignatures(input io.Reader) ([]crypto.Signature, error) {
	var sigs []crypto.Signature
	scanner := bufio.NewScanner(input)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		raw, err := hex.DecodeString(line)
		if err != nil {
			return nil, fmt.Errorf("signature %d is not valid hex: %s", len(sigs), err)
		}
		sig, err := crypto.ParseSignature(raw)
		if err != nil {
			return nil, fmt.Errorf("signature %d: %s", len(sigs), err)
		}
		sigs = append(sigs, sig)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read signatures: %s", err)
	}
	return sigs, nil
}
