package wallet

import (
	"context"
	"time"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kioskpay/wallet-client/config"
)

// sendCoordinator drives one payment from baseline capture through
// submission to confirmation. The remote API's failure responses are not
// trustworthy signals of non-effect: a submission that errors out may still
// have moved money, so every failed or ambiguous submission is followed by
// reconciliation against the pre-send baseline rather than a blind retry.
type sendCoordinator struct {
	client        *ledgerClient
	reconciler    *reconciler
	logger        *zap.Logger
	timeout       time.Duration
	confirmWindow time.Duration
}

func newSendCoordinator(
	client *ledgerClient,
	reconciler *reconciler,
	cfg config.SendConfig,
	logger *zap.Logger,
) *sendCoordinator {
	return &sendCoordinator{
		client:        client,
		reconciler:    reconciler,
		logger:        logger.With(zap.String("module", "send-coordinator")),
		timeout:       cfg.Timeout,
		confirmWindow: cfg.ConfirmWindow,
	}
}

// sendCoins submits a payment and returns the id of the transaction that
// carried it out. Baseline capture, submissions and reconciliation polls all
// share one wall-clock budget; once it runs out the attempt fails with
// ErrTimeout and the caller owns any higher-level retry decision.
func (s *sendCoordinator) sendCoins(ctx context.Context, toAddress string, amount math.Int) (string, error) {
	o := order{toAddress: toAddress, amount: amount}

	logger := s.logger.With(
		zap.String("attempt", uuid.New().String()[0:8]),
		zap.String("to", toAddress),
		zap.String("amount", amount.String()),
	)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	baseline, err := s.reconciler.captureBaseline(ctx, o)
	if err != nil {
		return "", err
	}
	logger.Debug("baseline captured", zap.Int("matching_transactions", len(baseline)))

	for {
		resp, err := s.client.submitPayment(ctx, o)
		switch {
		case err != nil:
			logger.Warn("payment submission failed, reconciling", zap.Error(err))
		case resp.Error != "":
			if isInsufficientFunds(resp.Error) {
				return "", errorsmod.Wrap(ErrInsufficientFunds, resp.Error)
			}
			logger.Warn("service rejected payment, reconciling", zap.String("reason", resp.Error))
		default:
			if resp.TxHash != "" {
				logger.Info("payment confirmed by submission response", zap.String("tx_id", resp.TxHash))
				return resp.TxHash, nil
			}
			logger.Warn("submission response carried no transaction id, reconciling")
		}

		roundCtx, cancelRound := context.WithTimeout(ctx, s.confirmWindow)
		fresh, err := s.reconciler.fetchNewTxIDs(ctx, roundCtx, baseline, o)
		cancelRound()
		if err != nil {
			return "", errorsmod.Wrap(err, "caller may retry, but a duplicate payment cannot be ruled out")
		}
		if len(fresh) > 0 {
			id := fresh.sorted()[0]
			logger.Info("payment confirmed by reconciliation",
				zap.String("tx_id", id), zap.Int("new_transactions", len(fresh)))
			return id, nil
		}

		// Resubmitting the same payment. Duplicate suppression rests on the
		// exact destination+amount diff against the baseline and on whatever
		// idempotency the remote service provides within the window; the
		// latter is outside this client's control.
		logger.Warn("confirmation window elapsed with no matching transaction, resubmitting")
	}
}
