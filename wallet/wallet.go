package wallet

import (
	"context"

	"cosmossdk.io/math"
	"go.uber.org/zap"

	"github.com/kioskpay/wallet-client/config"
)

// Wallet is the client for a single merchant wallet account: it can send a
// payment and reconcile its outcome, and compute the account's spendable
// balance. Each call is independent; the Wallet holds no mutable state.
type Wallet struct {
	logger  *zap.Logger
	sender  *sendCoordinator
	balance *balanceCalculator
}

func New(cfg config.Config, logger *zap.Logger) (*Wallet, error) {
	client, err := newLedgerClient(cfg.Endpoint, cfg.Wallet)
	if err != nil {
		return nil, err
	}

	rec := newReconciler(client, cfg.Send, logger)

	return &Wallet{
		logger:  logger,
		sender:  newSendCoordinator(client, rec, cfg.Send, logger),
		balance: newBalanceCalculator(client, logger),
	}, nil
}

// SendCoins pays the given amount of satoshis to the address and returns the
// id of the transaction that carried the payment. On ErrTimeout the payment
// may still have gone through, or may yet go through: the caller must not
// assume non-effect.
func (w *Wallet) SendCoins(ctx context.Context, toAddress string, satoshis int64) (string, error) {
	return w.sender.sendCoins(ctx, toAddress, math.NewInt(satoshis))
}

// Balance returns the account's spendable balance, excluding deposits that
// have not reached one confirmation.
func (w *Wallet) Balance(ctx context.Context) (BalanceSnapshot, error) {
	return w.balance.balance(ctx)
}
