package domain

import (
	"errors"
	"strings"
)

var (
	// ErrInternalServerError will throw if any the Internal Server Error happen
	ErrInternalServerError = errors.New("Internal Server Error")
	// ErrNotFound will throw if the requested item is not exists
	ErrNotFound = errors.New("Your requested Item is not found")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput = errors.New("Given Param is not valid")

	ErrInvalidAddress              = errors.New("Invalid address")
	ErrInvalidChainId              = errors.New("invalid chain id")
	ErrInvalidNumberFormat         = errors.New("invalid number format")
	ErrInvalidJsonFormat           = errors.New("invalid JSON format")
	ErrErc721InterfaceUnsupported  = errors.New("erc721 interface unsupported")
	ErrSupplyIntrospectionMissing  = errors.New("contract exposes neither totalSupply nor nextTokenIdToMint")
	ErrUnknownCollection           = errors.New("unknown collection")
	ErrPriceUnavailable            = errors.New("price unavailable from all sources")
)

// Write-failure classification. Wallet/contract write errors are matched
// against known substrings and mapped onto these so callers can show a
// specific message instead of a generic failure.
var (
	ErrTxRejected               = errors.New("transaction rejected by user")
	ErrInsufficientFunds        = errors.New("insufficient funds")
	ErrBelowMinimumStake        = errors.New("below minimum stake amount")
	ErrInsufficientStakedAmount = errors.New("insufficient staked balance")
	ErrNothingToClaim           = errors.New("no rewards to claim")
)

// ClassifyWriteError maps a raw wallet or contract revert error onto one of
// the typed errors above. Unknown errors pass through untouched.
func ClassifyWriteError(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "user rejected"):
		return ErrTxRejected
	case strings.Contains(msg, "Must stake at least minStake"):
		return ErrBelowMinimumStake
	case strings.Contains(msg, "Insufficient staked balance"):
		return ErrInsufficientStakedAmount
	case strings.Contains(msg, "No rewards to claim"):
		return ErrNothingToClaim
	case strings.Contains(msg, "insufficient"):
		return ErrInsufficientFunds
	}
	return err
}
