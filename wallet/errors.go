package wallet

import (
	"strings"

	errorsmod "cosmossdk.io/errors"
)

const codespace = "wallet"

// Every failure surfaced to callers is one of these sentinels. Transport and
// generic service rejections are absorbed and retried internally up to the
// send deadline; insufficient funds and configuration errors propagate
// immediately.
var (
	ErrTransport         = errorsmod.Register(codespace, 2, "transport failure")
	ErrRejected          = errorsmod.Register(codespace, 3, "service rejected request")
	ErrInsufficientFunds = errorsmod.Register(codespace, 4, "insufficient funds")
	ErrTimeout           = errorsmod.Register(codespace, 5, "network timeout")
	ErrConfiguration     = errorsmod.Register(codespace, 6, "missing configuration")
)

// The merchant API reports failures as free-form message strings, not codes.
// Messages that begin with one of these mean the wallet cannot cover the
// payment; everything else is treated as transient.
var insufficientFundsPatterns = []string{
	"Insufficient Funds Available",
	"No free outputs to spend",
}

func isInsufficientFunds(msg string) bool {
	for _, p := range insufficientFundsPatterns {
		if strings.HasPrefix(msg, p) {
			return true
		}
	}
	return false
}
