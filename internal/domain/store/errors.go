package store

import "errors"

// Sentinel errors for transactions.
var (
	ErrTxOpen = errors.New("transaction already open")
	ErrTxDone = errors.New("transaction already finished")
)
