/*

Package escrow implements a two party token swap.

> An escrow is a financial arrangement where a third party holds and regulates
> payment of the funds required for two parties involved in a given transaction.

Here the third party is this program. The initializer moves the tokens they
offer into a temporary token account, hands ownership of that account to an
address derived from the program id and records the amount they want in
return. Any taker presenting that amount of the other token receives the
offered tokens in the same transaction. The temporary account and the escrow
record are closed by the exchange and their rent goes back to the initializer.

There is no cancel instruction. An escrow that is never taken stays open.

*/
package escrow
