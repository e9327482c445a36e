/*
Package token implements the asset transfer program the escrow builds on:
mints, holding accounts owned by a wallet or by a program derived address,
transfers, authority changes and closing of empty holding accounts.

Instruction data and account layouts are those of the cluster token program
and are encoded with github.com/gagliardetto/solana-go/programs/token. This
package adds the processor and the stricter validation a program applies to
untrusted data: the exact account length, known flag and option values and
no trailing instruction bytes.
*/
package token
