// Package testutil contains helpers used across tests to reduce boilerplate
// when describing signatures and asserting on emitted log events. They are
// not intended for production usage.
package testutil
