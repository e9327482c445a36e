/*
Package swap passes request scoped data through context.Context between the
runtime and the programs it calls. Each extension may add its own keys to
enrich the context with specific data.

There should exist two functions for every XYZ of type T that we want to
support in Context:

  WithXYZ(Context, T) Context
  GetXYZ(Context) (val T, ok bool)
*/
package swap

import (
	"context"
	"regexp"

	"github.com/gagliardetto/solana-go"
	"github.com/tendermint/tendermint/libs/log"
)

var (
	// DefaultLogger is used for all context that have not set anything
	// themselves.
	DefaultLogger = log.NewNopLogger()

	// IsValidChainID is the RegExp to ensure valid chain IDs
	IsValidChainID = regexp.MustCompile(`^[a-zA-Z0-9_\-]{6,20}$`).MatchString
)

type contextKey int

const (
	contextKeyLogger contextKey = iota
	contextKeySlot
	contextKeySignature
	contextKeyProgram
)

// WithLogger sets the logger for this context.
func WithLogger(ctx context.Context, logger log.Logger) context.Context {
	return context.WithValue(ctx, contextKeyLogger, logger)
}

// WithLogInfo accepts keyvalue pairs, and returns another context like this,
// after passing all the keyvals to the Logger.
func WithLogInfo(ctx context.Context, keyvals ...interface{}) context.Context {
	logger := GetLogger(ctx).With(keyvals...)
	return WithLogger(ctx, logger)
}

// GetLogger returns the currently set logger, or DefaultLogger if none was
// set.
func GetLogger(ctx context.Context) log.Logger {
	val, ok := ctx.Value(contextKeyLogger).(log.Logger)
	if !ok {
		return DefaultLogger
	}
	return val
}

// WithSlot sets the slot in which the current transaction is executed.
func WithSlot(ctx context.Context, slot uint64) context.Context {
	return context.WithValue(ctx, contextKeySlot, slot)
}

// GetSlot returns the slot in which the current transaction is executed.
func GetSlot(ctx context.Context) (uint64, bool) {
	val, ok := ctx.Value(contextKeySlot).(uint64)
	return val, ok
}

// WithSignature sets the first signature of the transaction being executed.
func WithSignature(ctx context.Context, sig solana.Signature) context.Context {
	return context.WithValue(ctx, contextKeySignature, sig)
}

// GetSignature returns the first signature of the transaction being
// executed.
func GetSignature(ctx context.Context) (solana.Signature, bool) {
	val, ok := ctx.Value(contextKeySignature).(solana.Signature)
	return val, ok
}

// WithProgram sets the address of the program that is currently executing.
func WithProgram(ctx context.Context, programID solana.PublicKey) context.Context {
	return context.WithValue(ctx, contextKeyProgram, programID)
}

// GetProgram returns the address of the program that is currently
// executing.
func GetProgram(ctx context.Context) (solana.PublicKey, bool) {
	val, ok := ctx.Value(contextKeyProgram).(solana.PublicKey)
	return val, ok
}
