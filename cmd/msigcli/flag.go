package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/iov-one/multisig"
)

// flAddress returns a value that is being initialized with given
// default value and optionally overwritten by a command line argument
// if provided. This function follows Go's flag package convention.
// If given value cannot be deserialized to required type, process is
// terminated.
func flAddress(fl *flag.FlagSet, name, defaultVal, usage string) *multisig.Address {
	var a flagAddress
	if defaultVal != "" {
		addr, err := multisig.ParseAddress(defaultVal)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cannot parse %q address flag value. %s", name, err)
			os.Exit(2)
		}
		a = flagAddress(addr)
	}
	fl.Var(&a, name, usage)
	return (*multisig.Address)(&a)
}

type flagAddress multisig.Address

func (a flagAddress) String() string {
	return multisig.Address(a).String()
}

func (a *flagAddress) Set(raw string) error {
	addr, err := multisig.ParseAddress(raw)
	if err != nil {
		return err
	}
	*a = flagAddress(addr)
	return nil
}

// flAddressList parses a comma separated list of addresses.
func flAddressList(fl *flag.FlagSet, name, usage string) *[]multisig.Address {
	var al addressList
	fl.Var(&al, name, usage)
	return (*[]multisig.Address)(&al)
}

type addressList []multisig.Address

func (al addressList) String() string {
	encoded := make([]string, 0, len(al))
	for _, a := range al {
		encoded = append(encoded, a.String())
	}
	return strings.Join(encoded, ",")
}

func (al *addressList) Set(raw string) error {
	var addrs []multisig.Address
	for _, chunk := range strings.Split(raw, ",") {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		addr, err := multisig.ParseAddress(chunk)
		if err != nil {
			return fmt.Errorf("cannot parse %q: %s", chunk, err)
		}
		addrs = append(addrs, addr)
	}
	*al = addrs
	return nil
}

// flagDie writes a message to stderr and terminates the process. It
// should be used to signal an invalid flag combination.
func flagDie(description string, args ...interface{}) {
	s := fmt.Sprintf(description, args...)
	fmt.Fprintln(os.Stderr, s)
	os.Exit(2)
}
