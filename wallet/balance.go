package wallet

import (
	"context"
	"sync"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	"go.uber.org/zap"
)

// BalanceSnapshot is the account balance derived from two confirmation
// thresholds. Spendable excludes deposits that have zero confirmations but
// includes the account's own unconfirmed outgoing spends. Amounts are
// satoshis; computed fresh on every query, never cached.
type BalanceSnapshot struct {
	TotalReceivedUnconfirmed math.Int
	TotalReceivedConfirmed   math.Int
	Spendable                math.Int
}

type balanceCalculator struct {
	client *ledgerClient
	logger *zap.Logger
}

func newBalanceCalculator(client *ledgerClient, logger *zap.Logger) *balanceCalculator {
	return &balanceCalculator{
		client: client,
		logger: logger.With(zap.String("module", "balance-calculator")),
	}
}

// balance fetches the account balance at zero and at one confirmation
// concurrently and joins the results. If either fetch fails, transport-wise
// or with a service-level error, the whole computation fails: no partial
// balance is ever returned.
func (b *balanceCalculator) balance(ctx context.Context) (BalanceSnapshot, error) {
	confirmations := []int{0, 1}
	results := make([]*balanceResponse, len(confirmations))

	var wg sync.WaitGroup
	errChan := make(chan error, len(confirmations))

	for i, conf := range confirmations {
		wg.Add(1)
		go func(i, conf int) {
			defer wg.Done()
			resp, err := b.client.addressBalance(ctx, conf)
			if err != nil {
				errChan <- err
				return
			}
			if resp.Error != "" {
				errChan <- errorsmod.Wrap(ErrRejected, resp.Error)
				return
			}
			results[i] = resp
		}(i, conf)
	}

	wg.Wait()
	close(errChan)

	if len(errChan) > 0 {
		return BalanceSnapshot{}, <-errChan
	}

	receivedUnconfirmed := math.NewInt(results[0].TotalReceived)
	receivedConfirmed := math.NewInt(results[1].TotalReceived)

	unconfirmedDeposits := receivedUnconfirmed.Sub(receivedConfirmed)
	spendable := math.NewInt(results[0].Balance).Sub(unconfirmedDeposits)

	return BalanceSnapshot{
		TotalReceivedUnconfirmed: receivedUnconfirmed,
		TotalReceivedConfirmed:   receivedConfirmed,
		Spendable:                spendable,
	}, nil
}
