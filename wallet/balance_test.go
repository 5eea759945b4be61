package wallet

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func Test_balanceCalculator_balance(t *testing.T) {
	// spendable = balance(0-conf) - (received(0-conf) - received(1-conf))
	mock := &mockLedger{
		balance: func(confirmations string) (*balanceResponse, error) {
			if confirmations == "" { // zero confirmations
				return &balanceResponse{TotalReceived: 350000000, Balance: 400000000}, nil
			}
			return &balanceResponse{TotalReceived: 250000000, Balance: 400000000}, nil
		},
	}
	b := newBalanceCalculator(newMockedClient(mock), zap.NewNop())

	snapshot, err := b.balance(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "300000000", snapshot.Spendable.String())
	assert.Equal(t, "350000000", snapshot.TotalReceivedUnconfirmed.String())
	assert.Equal(t, "250000000", snapshot.TotalReceivedConfirmed.String())
}

func Test_balanceCalculator_balance_unconfirmedSpendIncluded(t *testing.T) {
	// the account's own unconfirmed outgoing spend lowers balance(0) but not
	// total_received, so it stays reflected in the spendable amount
	mock := &mockLedger{
		balance: func(confirmations string) (*balanceResponse, error) {
			if confirmations == "" {
				return &balanceResponse{TotalReceived: 250000000, Balance: 150000000}, nil
			}
			return &balanceResponse{TotalReceived: 250000000, Balance: 250000000}, nil
		},
	}
	b := newBalanceCalculator(newMockedClient(mock), zap.NewNop())

	snapshot, err := b.balance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "150000000", snapshot.Spendable.String())
}

func Test_balanceCalculator_balance_eitherFetchFailing(t *testing.T) {
	tests := []struct {
		name    string
		balance func(confirmations string) (*balanceResponse, error)
		wantErr error
	}{
		{
			name: "zero-conf fetch fails",
			balance: func(confirmations string) (*balanceResponse, error) {
				if confirmations == "" {
					return nil, fmt.Errorf("connection refused")
				}
				return &balanceResponse{TotalReceived: 250000000, Balance: 400000000}, nil
			},
			wantErr: ErrTransport,
		}, {
			name: "one-conf fetch fails",
			balance: func(confirmations string) (*balanceResponse, error) {
				if confirmations == "1" {
					return nil, fmt.Errorf("connection refused")
				}
				return &balanceResponse{TotalReceived: 350000000, Balance: 400000000}, nil
			},
			wantErr: ErrTransport,
		}, {
			name: "service-level error",
			balance: func(confirmations string) (*balanceResponse, error) {
				return &balanceResponse{Error: "Unknown address"}, nil
			},
			wantErr: ErrRejected,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockLedger{balance: tt.balance}
			b := newBalanceCalculator(newMockedClient(mock), zap.NewNop())

			// no partial balance: the whole computation fails
			_, err := b.balance(context.Background())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
