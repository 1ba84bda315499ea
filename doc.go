/*
Package multisig declares the types shared by every part of the
threshold-authorization engine.

Address is the opaque identity of owners, administrators and call
destinations. The KVStore family of interfaces is the storage contract
between the wallet engine and its backing stores. Implementations live
in the store packages, the engine itself in the wallet package and the
signature primitives in the crypto package.
*/
package multisig
