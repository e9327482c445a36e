/*
Package client drives the escrow program from outside of the ledger.

An initializer locks the tokens it offers in a temporary token account and
records the deal with InitEscrow. A taker that agrees with the recorded terms
settles the deal with Exchange. All calls go through a Conn, which is either
an in process ledger (LocalConn) or a cluster reached over JSON-RPC
(RPCConn).
*/
package client
