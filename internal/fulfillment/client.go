// Package fulfillment speaks the third-party vendor API: one endpoint to
// place an engagement order, one to check the account balance.
package fulfillment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const balanceCacheTTL = 30 * time.Second

type Client struct {
	baseURL string
	apiID   string
	apiKey  string
	client  *http.Client

	balanceMutex   sync.Mutex
	cachedBalance  int64
	balanceFetched time.Time
}

// DispatchResult is the normalized outcome of an order POST. Transport and
// parse failures land here as OK=false with the error text as the message,
// never as a Go error: the caller treats every failure the same way and
// skips the sheet write.
type DispatchResult struct {
	OK      bool
	OrderID string
	Message string
}

// apiResponse is the vendor's envelope. On success data is an object, on
// failure it is a bare message string, so it stays raw until the status
// flag is known.
type apiResponse struct {
	Status bool            `json:"status"`
	Data   json.RawMessage `json:"data"`
}

func NewClient(baseURL, apiID, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiID:   apiID,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// PlaceOrder submits one fulfillment order. No retries and no idempotency
// key: a retried dispatch after a transient failure can double-submit, so
// retrying is left to the operator with that risk surfaced.
func (c *Client) PlaceOrder(ctx context.Context, serviceID int, target string, quantity int64) DispatchResult {
	form := url.Values{
		"api_id":   {c.apiID},
		"api_key":  {c.apiKey},
		"service":  {strconv.Itoa(serviceID)},
		"target":   {target},
		"quantity": {strconv.FormatInt(quantity, 10)},
	}

	log.Debug().
		Int("service", serviceID).
		Str("target", target).
		Int64("quantity", quantity).
		Msg("Dispatching order to vendor")

	resp, err := c.postForm(ctx, "/api/order", form)
	if err != nil {
		log.Warn().Err(err).Int("service", serviceID).Msg("Vendor dispatch failed")
		return DispatchResult{OK: false, Message: err.Error()}
	}

	if !resp.Status {
		message := decodeMessage(resp.Data)
		log.Warn().Str("message", message).Int("service", serviceID).Msg("Vendor rejected order")
		return DispatchResult{OK: false, Message: message}
	}

	var data struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil || data.ID == "" {
		// Success flag with an unreadable payload still means the vendor
		// accepted the order; report it without an id rather than failing.
		log.Warn().Err(err).Msg("Vendor success response missing order id")
		return DispatchResult{OK: true}
	}

	log.Info().
		Str("order_id", data.ID).
		Int("service", serviceID).
		Int64("quantity", quantity).
		Msg("Vendor accepted order")

	return DispatchResult{OK: true, OrderID: data.ID}
}

// Balance fetches the vendor account balance, truncated to whole rupiah.
// Any failure (network, HTTP, parse, missing field) yields 0, which the
// dashboard reads as "insufficient". Responses are cached briefly so a
// busy operator doesn't hammer the profile endpoint.
func (c *Client) Balance(ctx context.Context) int64 {
	c.balanceMutex.Lock()
	defer c.balanceMutex.Unlock()

	if time.Since(c.balanceFetched) < balanceCacheTTL {
		return c.cachedBalance
	}

	balance := c.fetchBalance(ctx)
	c.cachedBalance = balance
	c.balanceFetched = time.Now()
	return balance
}

func (c *Client) fetchBalance(ctx context.Context) int64 {
	form := url.Values{
		"api_id":  {c.apiID},
		"api_key": {c.apiKey},
	}

	resp, err := c.postForm(ctx, "/api/profile", form)
	if err != nil {
		log.Warn().Err(err).Msg("Vendor balance check failed")
		return 0
	}
	if !resp.Status {
		log.Warn().Str("message", decodeMessage(resp.Data)).Msg("Vendor balance check rejected")
		return 0
	}

	var data struct {
		Balance string `json:"balance"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		log.Warn().Err(err).Msg("Failed to decode vendor balance")
		return 0
	}

	balance, err := strconv.ParseFloat(strings.TrimSpace(data.Balance), 64)
	if err != nil {
		log.Warn().Str("balance", data.Balance).Msg("Vendor balance is not numeric")
		return 0
	}

	log.Debug().Int64("balance", int64(balance)).Msg("Fetched vendor balance")
	return int64(balance)
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values) (*apiResponse, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("vendor API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode vendor response: %w", err)
	}

	return &apiResp, nil
}

func decodeMessage(data json.RawMessage) string {
	var message string
	if err := json.Unmarshal(data, &message); err == nil {
		return message
	}
	return string(data)
}
