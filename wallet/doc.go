/*
Package wallet implements the threshold-authorization engine.

A fixed committee of owners must supply at least a threshold of
independent authorizations before an action (a call to a destination
with a value and payload) is permitted to execute. The engine keeps
four pieces of state behind a KVStore: the owner set with its immutable
threshold, an append-only transaction ledger, per-transaction approval
records and the wallet balance.

Execution is dual-gated: on-record approvals and externally supplied
signatures over the transaction's canonical digest are checked
independently, and both must reach the threshold. Every operation is
staged in a cache-wrap and written as a whole or not at all, so no
caller ever observes a half-applied mutation.
*/
package wallet
