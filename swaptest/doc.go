/*
Package swaptest provides fixtures for tests that need keys, signed
transactions or a ready to use ledger with all programs registered.
*/
package swaptest
