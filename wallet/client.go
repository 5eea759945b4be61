package wallet

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	errorsmod "cosmossdk.io/errors"

	"github.com/kioskpay/wallet-client/config"
	"github.com/kioskpay/wallet-client/version"
)

// ledgerClient issues authenticated requests against the remote merchant
// wallet API. It never retries and never interprets service-level error
// messages: a response body carrying an "error" field is handed back to the
// caller as data, so upstream code can tell "transport succeeded, service
// rejected" apart from "transport failed".
type ledgerClient struct {
	client      *http.Client
	endpoint    string
	guid        string
	password    string
	fromAddress string

	post postFn
}

type postFn func(ctx context.Context, url string) ([]byte, error)

type paymentResponse struct {
	TxHash string `json:"tx_hash"`
	Error  string `json:"error"`
}

type transactionsResponse struct {
	Transactions []remoteTransaction `json:"transactions"`
	Error        string              `json:"error"`
}

type balanceResponse struct {
	TotalReceived int64  `json:"total_received"`
	Balance       int64  `json:"balance"`
	Error         string `json:"error"`
}

const (
	paymentPath          = "/payment"
	listTransactionsPath = "/list_transactions"
	addressBalancePath   = "/address_balance"
)

func newLedgerClient(endpoint string, cfg config.WalletConfig) (*ledgerClient, error) {
	if cfg.GUID == "" || cfg.Password == "" || cfg.FromAddress == "" {
		return nil, errorsmod.Wrap(ErrConfiguration,
			"must provide guid, password and source address to use the merchant API")
	}
	c := &ledgerClient{
		client: &http.Client{
			Timeout: 25 * time.Second,
		},
		endpoint:    endpoint,
		guid:        cfg.GUID,
		password:    cfg.Password,
		fromAddress: cfg.FromAddress,
	}
	c.post = c.postHttp
	return c, nil
}

// authURL builds the request URL with the shared credentials merged into the
// query, the way the merchant API expects them on every call.
func (c *ledgerClient) authURL(path string, params url.Values) string {
	if params == nil {
		params = url.Values{}
	}
	params.Set("password", c.password)
	params.Set("from", c.fromAddress)
	return c.endpoint + c.guid + path + "?" + params.Encode()
}

func (c *ledgerClient) submitPayment(ctx context.Context, o order) (*paymentResponse, error) {
	params := url.Values{}
	params.Set("to", o.toAddress)
	params.Set("amount", o.amount.String())

	var resp paymentResponse
	if err := c.request(ctx, paymentPath, params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *ledgerClient) listTransactions(ctx context.Context, limit int) (*transactionsResponse, error) {
	params := url.Values{}
	params.Set("address", c.fromAddress)
	params.Set("limit", strconv.Itoa(limit))

	var resp transactionsResponse
	if err := c.request(ctx, listTransactionsPath, params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *ledgerClient) addressBalance(ctx context.Context, confirmations int) (*balanceResponse, error) {
	params := url.Values{}
	params.Set("address", c.fromAddress)
	// the API treats a missing confirmations param as zero
	if confirmations > 0 {
		params.Set("confirmations", strconv.Itoa(confirmations))
	}

	var resp balanceResponse
	if err := c.request(ctx, addressBalancePath, params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *ledgerClient) request(ctx context.Context, path string, params url.Values, out any) error {
	body, err := c.post(ctx, c.authURL(path, params))
	if err != nil {
		return errorsmod.Wrapf(ErrTransport, "%s: %v", path, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return errorsmod.Wrapf(ErrTransport, "failed to decode %s response: %v", path, err)
	}
	return nil
}

func (c *ledgerClient) postHttp(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "kioskpay-wallet-client/"+version.BuildVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to post to merchant API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("merchant API returned %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}
