/*
Package errors implements the coded errors used across the wallet
engine.

The idea is to reuse as many root errors from this package as possible
and register custom package errors only when necessary. Every failure a
caller can observe wraps exactly one registered root, so client code and
tests can assert on the specific violated condition with ErrXyz.Is(err)
instead of string matching.

There is also support for stack traces. Ensure you create the error
using ErrXyz.New("...") or errors.Wrap(err, "...") at the point of
creation so a stack trace is attached. If you wrap multiple times, only
the first wrap records the trace.

Once you have an error, you can use fmt.Printf verbs to get more
context:
	%s is just the error message
	%+v is the full stack trace
	%v appends a compressed [filename:line] where the error was created
*/
package errors
