package wallet

import "cosmossdk.io/math"

// matchTransactions returns the ids of every transaction with at least one
// output paying exactly the order's amount to the order's address. The
// service may split a payment into a qualifying output plus change outputs;
// only the exact-match output identifies it, so there is no tolerance and no
// aggregation of partial amounts across outputs. Duplicate ids in the input
// collapse to one entry.
func matchTransactions(o order, txs []remoteTransaction) txIDSet {
	matched := make(txIDSet)
	for _, tx := range txs {
		for _, out := range tx.Outputs {
			if out.Address == o.toAddress && o.amount.Equal(math.NewInt(out.Amount)) {
				matched.add(tx.TxHash)
				break
			}
		}
	}
	return matched
}
