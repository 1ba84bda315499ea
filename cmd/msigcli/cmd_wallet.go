package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	dbm "github.com/tendermint/tendermint/libs/db"

	"github.com/iov-one/multisig"
	"github.com/iov-one/multisig/store/commit"
	"github.com/iov-one/multisig/wallet"
)

// flDB registers the database directory flag shared by all commands
// operating on the wallet state.
func flDB(fl *flag.FlagSet) *string {
	return fl.String("db", env("MSIGCLI_DB", os.Getenv("HOME")+"/.msig.db"),
		"Path to the wallet database directory. You can use MSIGCLI_DB environment variable to set it.")
}

// openStore opens the persistent wallet store and loads its latest
// committed version.
func openStore(dbPath string) (*commit.Store, error) {
	db, err := dbm.NewGoLevelDB("wallet", dbPath)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %s", err)
	}
	st := commit.NewStore(db, commit.DefaultCacheSize)
	if err := st.LoadLatestVersion(); err != nil {
		return nil, fmt.Errorf("cannot load latest state: %s", err)
	}
	return st, nil
}

// withWallet runs fn on the persisted wallet and commits a new version
// on success.
func withWallet(dbPath string, fn func(w *wallet.Wallet) error) error {
	st, err := openStore(dbPath)
	if err != nil {
		return err
	}
	w, err := wallet.Open(st, nil, nil)
	if err != nil {
		return fmt.Errorf("cannot open wallet: %s", err)
	}
	if err := fn(w); err != nil {
		return err
	}
	if _, err := st.Commit(); err != nil {
		return fmt.Errorf("cannot commit: %s", err)
	}
	return nil
}

func cmdInit(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Initialize a new wallet in the database directory.

The wallet is configured with an administrator, an initial owner set
and an approval threshold. This command fails if the database already
contains a wallet.
`)
		fl.PrintDefaults()
	}
	var (
		dbFl        = flDB(fl)
		adminFl     = flAddress(fl, "admin", "", "Address of the wallet administrator.")
		ownersFl    = flAddressList(fl, "owners", "Comma separated list of the initial owner addresses.")
		thresholdFl = fl.Uint("threshold", 0, "Number of approvals required to execute a transaction. Must be greater than 0.")
	)
	fl.Parse(args)

	if *thresholdFl == 0 {
		flagDie("threshold cannot be zero")
	}
	if len(*ownersFl) == 0 {
		flagDie("at least one owner is required")
	}

	st, err := openStore(*dbFl)
	if err != nil {
		return err
	}
	w, err := wallet.New(st, wallet.Config{
		Admin:     *adminFl,
		Owners:    *ownersFl,
		Threshold: uint32(*thresholdFl),
	}, nil, nil)
	if err != nil {
		return fmt.Errorf("cannot create wallet: %s", err)
	}
	if _, err := st.Commit(); err != nil {
		return fmt.Errorf("cannot commit: %s", err)
	}
	fmt.Fprintln(output, w.Address())
	return nil
}

func cmdAddOwner(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Register a new owner. Restricted to the wallet administrator.
`)
		fl.PrintDefaults()
	}
	var (
		dbFl    = flDB(fl)
		keyFl   = fl.String("key", env("MSIGCLI_PRIV_KEY", os.Getenv("HOME")+"/.msig.priv.key"), "Path to the administrator private key file.")
		ownerFl = flAddress(fl, "owner", "", "Address of the owner to register.")
	)
	fl.Parse(args)

	key, err := readKey(*keyFl)
	if err != nil {
		return err
	}
	return withWallet(*dbFl, func(w *wallet.Wallet) error {
		return w.AddOwner(key.Address(), *ownerFl)
	})
}

func cmdRemoveOwner(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Remove an owner from the wallet. Restricted to the wallet
administrator.

The approval threshold is left untouched, even if it ends up above the
remaining owner count.
`)
		fl.PrintDefaults()
	}
	var (
		dbFl    = flDB(fl)
		keyFl   = fl.String("key", env("MSIGCLI_PRIV_KEY", os.Getenv("HOME")+"/.msig.priv.key"), "Path to the administrator private key file.")
		ownerFl = flAddress(fl, "owner", "", "Address of the owner to remove.")
	)
	fl.Parse(args)

	key, err := readKey(*keyFl)
	if err != nil {
		return err
	}
	return withWallet(*dbFl, func(w *wallet.Wallet) error {
		return w.RemoveOwner(key.Address(), *ownerFl)
	})
}

func cmdReplaceOwner(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Atomically swap one owner for another. Restricted to the wallet
administrator.
`)
		fl.PrintDefaults()
	}
	var (
		dbFl  = flDB(fl)
		keyFl = fl.String("key", env("MSIGCLI_PRIV_KEY", os.Getenv("HOME")+"/.msig.priv.key"), "Path to the administrator private key file.")
		oldFl = flAddress(fl, "old", "", "Address of the owner to retire.")
		newFl = flAddress(fl, "new", "", "Address of the owner to register instead.")
	)
	fl.Parse(args)

	key, err := readKey(*keyFl)
	if err != nil {
		return err
	}
	return withWallet(*dbFl, func(w *wallet.Wallet) error {
		return w.ReplaceOwner(key.Address(), *oldFl, *newFl)
	})
}

func cmdDeposit(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Credit the wallet balance. Anyone can deposit.
`)
		fl.PrintDefaults()
	}
	var (
		dbFl     = flDB(fl)
		keyFl    = fl.String("key", env("MSIGCLI_PRIV_KEY", os.Getenv("HOME")+"/.msig.priv.key"), "Path to the depositor private key file.")
		amountFl = fl.Uint64("amount", 0, "Amount to deposit. Must be greater than 0.")
	)
	fl.Parse(args)

	if *amountFl == 0 {
		flagDie("amount cannot be zero")
	}
	key, err := readKey(*keyFl)
	if err != nil {
		return err
	}
	return withWallet(*dbFl, func(w *wallet.Wallet) error {
		return w.Deposit(key.Address(), *amountFl)
	})
}

func cmdShow(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print out the wallet configuration and, if an index is given, a single
ledger entry.
`)
		fl.PrintDefaults()
	}
	var (
		dbFl    = flDB(fl)
		indexFl = fl.Int64("index", -1, "If non negative, print this ledger entry instead of the wallet summary.")
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

	if *indexFl >= 0 {
		tx, err := w.GetTransaction(uint64(*indexFl))
		if err != nil {
			return err
		}
		pretty, err := json.MarshalIndent(tx, "", "\t")
		if err != nil {
			return fmt.Errorf("cannot serialize: %s", err)
		}
		_, err = fmt.Fprintln(output, string(pretty))
		return err
	}

	admin, err := w.Admin()
	if err != nil {
		return err
	}
	owners, err := w.Owners()
	if err != nil {
		return err
	}
	threshold, err := w.Threshold()
	if err != nil {
		return err
	}
	balance, err := w.Balance()
	if err != nil {
		return err
	}
	count, err := w.TransactionCount()
	if err != nil {
		return err
	}
	summary := struct {
		Address      multisig.Address
		Admin        multisig.Address
		Owners       []multisig.Address
		Threshold    uint32
		Balance      uint64
		Transactions uint64
	}{
		Address:      w.Address(),
		Admin:        admin,
		Owners:       owners,
		Threshold:    threshold,
		Balance:      balance,
		Transactions: count,
	}
	pretty, err := json.MarshalIndent(summary, "", "\t")
	if err != nil {
		return fmt.Errorf("cannot serialize: %s", err)
	}
	_, err = fmt.Fprintln(output, string(pretty))
	return err
}
