package exception

import "github.com/yanun0323/errors"

// Symbol registry errors
var (
	ErrEmptySymbol     = errors.New("registry: empty symbol")
	ErrDuplicateSymbol = errors.New("registry: duplicate symbol")
	ErrEmptySymbolSet  = errors.New("registry: empty symbol set")
)

// Ledger errors. These are invariant violations, never business rejections.
var (
	ErrInvalidExposureLimit   = errors.New("ledger: exposure limit must be > 0")
	ErrLedgerUnknownSymbol    = errors.New("ledger: symbol not tracked")
	ErrLedgerUnknownSide      = errors.New("ledger: unknown side")
	ErrLedgerNegativeNotional = errors.New("ledger: negative order notional")
)
