/*
Package system implements the system program: the only program allowed to
allocate accounts, assign them to an owner program and move native lamports
out of accounts holding no data.

Instructions are built and decoded with
github.com/gagliardetto/solana-go/programs/system, so the same instruction
can be submitted to a real cluster as well as to the local runtime.
*/
package system
