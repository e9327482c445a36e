/*

Package swap defines interfaces used throughout the ledger, such as: storage,
accounts, programs and the runtime services a program may call. It also
contains helpers to work with context and rent.
Look into this package to get an brief overview of design decisions made
around interfaces and extension building blocks.

Programs live under x/. The runtime package executes signed transactions
against a store, and the client package builds those transactions.

*/
package swap
