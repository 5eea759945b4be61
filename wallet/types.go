package wallet

import (
	"sort"

	"cosmossdk.io/math"
)

// order is one requested payment: a destination address and an exact amount
// in satoshis. Immutable for the lifetime of a send attempt.
type order struct {
	toAddress string
	amount    math.Int
}

// remoteTransaction is one entry of the account's transaction history as
// reported by the merchant API.
type remoteTransaction struct {
	TxHash  string     `json:"tx_hash"`
	Outputs []txOutput `json:"outputs"`
}

type txOutput struct {
	Address string `json:"address"`
	Amount  int64  `json:"amount"`
}

// txIDSet holds transaction ids, used both as the pre-send baseline and as
// the current view on each reconciliation poll.
type txIDSet map[string]struct{}

func (s txIDSet) add(id string) {
	s[id] = struct{}{}
}

func (s txIDSet) has(id string) bool {
	_, ok := s[id]
	return ok
}

// diff returns the ids in s that are not in baseline.
func (s txIDSet) diff(baseline txIDSet) txIDSet {
	fresh := make(txIDSet)
	for id := range s {
		if !baseline.has(id) {
			fresh.add(id)
		}
	}
	return fresh
}

// sorted returns the ids in lexical order, so picking "the first" new
// transaction is deterministic.
func (s txIDSet) sorted() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
