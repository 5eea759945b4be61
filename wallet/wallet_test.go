package wallet

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kioskpay/wallet-client/config"
)

func TestWallet_New_missingCredentials(t *testing.T) {
	_, err := New(config.Config{
		Endpoint: "https://example.com/merchant/",
	}, zap.NewNop())
	assert.ErrorIs(t, err, ErrConfiguration)
}

// TestWallet_endToEnd runs the client against a fake merchant API over real
// HTTP: the payment endpoint always fails with a server error, but the
// transfer lands anyway and must be discovered by reconciliation.
func TestWallet_endToEnd(t *testing.T) {
	var (
		mu       sync.Mutex
		landed   bool
		payCalls int
	)

	mux := http.NewServeMux()
	base := "/merchant/" + testGUID

	mux.HandleFunc(base+paymentPath, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		if r.URL.Query().Get("password") != testPassword {
			fmt.Fprint(w, `{"error": "Password incorrect"}`)
			return
		}
		payCalls++
		landed = true
		http.Error(w, "gateway timeout", http.StatusGatewayTimeout)
	})

	mux.HandleFunc(base+listTransactionsPath, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		if !landed {
			fmt.Fprint(w, `{"transactions": []}`)
			return
		}
		fmt.Fprintf(w, `{"transactions": [
			{"tx_hash": "txe2e", "outputs": [
				{"address": %q, "amount": 400000},
				{"address": %q, "amount": 500000}
			]}
		]}`, testFromAddr, testToAddress)
	})

	mux.HandleFunc(base+addressBalancePath, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("confirmations") == "1" {
			fmt.Fprint(w, `{"total_received": 250000000, "balance": 400000000}`)
			return
		}
		fmt.Fprint(w, `{"total_received": 350000000, "balance": 400000000}`)
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	w, err := New(config.Config{
		Endpoint: srv.URL + "/merchant/",
		Wallet: config.WalletConfig{
			GUID:        testGUID,
			Password:    testPassword,
			FromAddress: testFromAddr,
		},
		Send: config.SendConfig{
			Timeout:       2 * time.Second,
			PollInterval:  20 * time.Millisecond,
			ConfirmWindow: time.Second,
			PageLimit:     50,
		},
	}, zap.NewNop())
	require.NoError(t, err)

	txID, err := w.SendCoins(context.Background(), testToAddress, 500000)
	require.NoError(t, err)
	assert.Equal(t, "txe2e", txID)

	mu.Lock()
	assert.Equal(t, 1, payCalls)
	mu.Unlock()

	snapshot, err := w.Balance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "300000000", snapshot.Spendable.String())
}
