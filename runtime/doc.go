/*
Package runtime executes signed transactions against an account store.

A Ledger owns a store, a set of registered programs and the transaction
history needed for replay protection. Every transaction runs on a cache wrap
of the store and is written back only if all its instructions succeeded, so a
failed transaction leaves no trace.

While a program runs, the ledger enforces the account rules the programs rely
on: read only accounts stay unchanged, only the owning program may change data
or debit lamports, and lamports are neither created nor destroyed. Programs
may call each other through swap.Invoker. A call may grant signer privilege
to a program derived address of the calling program.
*/
package runtime
