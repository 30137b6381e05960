package model

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for domain operations
var (
	ErrNoTransactions = goerr.New("no transactions found for the selected criteria")
)

// Error tags used to classify failures at the boundaries
var (
	ErrTagInvalidArgument = goerr.NewTag("invalid_argument")
	ErrTagUpstream        = goerr.NewTag("upstream")
	ErrTagDecode          = goerr.NewTag("decode")
)
