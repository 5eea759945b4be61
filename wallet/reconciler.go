package wallet

import (
	"context"
	"time"

	errorsmod "cosmossdk.io/errors"
	"go.uber.org/zap"

	"github.com/kioskpay/wallet-client/config"
)

// reconciler discovers whether a submitted payment actually landed by
// polling the account's transaction history and diffing the matching ids
// against a baseline captured before submission. The remote ledger is
// append-only for the account, so anything in current-minus-baseline is a
// transaction created during this attempt.
type reconciler struct {
	client       *ledgerClient
	logger       *zap.Logger
	pollInterval time.Duration
	pageLimit    int
}

func newReconciler(client *ledgerClient, cfg config.SendConfig, logger *zap.Logger) *reconciler {
	return &reconciler{
		client:       client,
		logger:       logger.With(zap.String("module", "reconciler")),
		pollInterval: cfg.PollInterval,
		pageLimit:    cfg.PageLimit,
	}
}

// matchingTxIDs fetches one page of recent transactions and returns the ids
// matching the order right now. A service-level error message counts as a
// failed fetch.
func (r *reconciler) matchingTxIDs(ctx context.Context, o order) (txIDSet, error) {
	resp, err := r.client.listTransactions(ctx, r.pageLimit)
	if err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, errorsmod.Wrap(ErrRejected, resp.Error)
	}
	return matchTransactions(o, resp.Transactions), nil
}

// captureBaseline records which matching transaction ids already exist
// before any money moves. Fetch failures are retried at the poll interval;
// if no fetch succeeds before the attempt deadline the whole send fails
// with a timeout, without ever submitting a payment.
func (r *reconciler) captureBaseline(ctx context.Context, o order) (txIDSet, error) {
	for {
		ids, err := r.matchingTxIDs(ctx, o)
		if err == nil {
			return ids, nil
		}
		r.logger.Warn("failed to capture baseline, retrying", zap.Error(err))

		select {
		case <-ctx.Done():
			return nil, errorsmod.Wrap(ErrTimeout, "deadline elapsed before baseline could be captured")
		case <-time.After(r.pollInterval):
		}
	}
}

// fetchNewTxIDs polls until a matching transaction not in the baseline
// appears. It returns the non-empty diff as soon as one is seen. Fetch
// failures during a poll are logged and treated as "nothing new yet", never
// as proof the payment did not happen. When roundCtx closes with the
// attempt deadline still open it returns an empty set and no error, so the
// caller may resubmit; when the attempt deadline closes it returns
// ErrTimeout.
func (r *reconciler) fetchNewTxIDs(ctx, roundCtx context.Context, baseline txIDSet, o order) (txIDSet, error) {
	for {
		current, err := r.matchingTxIDs(roundCtx, o)
		switch {
		case err != nil:
			r.logger.Warn("reconciliation poll failed, assuming no new transactions yet", zap.Error(err))
		default:
			for id := range baseline {
				if !current.has(id) {
					// the account history is supposed to be append-only
					r.logger.Warn("baseline transaction missing from current history",
						zap.String("tx_id", id))
				}
			}
			if fresh := current.diff(baseline); len(fresh) > 0 {
				return fresh, nil
			}
		}

		select {
		case <-ctx.Done():
			return nil, errorsmod.Wrap(ErrTimeout, "deadline elapsed with no matching transaction")
		case <-roundCtx.Done():
			if ctx.Err() != nil {
				return nil, errorsmod.Wrap(ErrTimeout, "deadline elapsed with no matching transaction")
			}
			return txIDSet{}, nil
		case <-time.After(r.pollInterval):
		}
	}
}
