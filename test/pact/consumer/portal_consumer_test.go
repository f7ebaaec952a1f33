//go:build pact
// +build pact

package consumer_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	pacttest "github.com/Apurer/dropship-order-service/test/pact"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"
)

type orderSummary struct {
	OrderID     int64  `json:"order_id"`
	OrderSerial string `json:"order_serial"`
	Status      string `json:"status"`
}

type orderList struct {
	TotalCount int64          `json:"total_count"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	Orders     []orderSummary `json:"orders"`
}

type orderDetail struct {
	OrderID  int64 `json:"order_id"`
	BuyerID  int64 `json:"buyer_id"`
	Products []struct {
		ProductID int64 `json:"product_id"`
		Quantity  int   `json:"quantity"`
	} `json:"products"`
}

type walletEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

type walletBalance struct {
	CustomerID        int64   `json:"customer_id"`
	CurrenciesBalance float64 `json:"currencies_balance"`
}

type walletUpdate struct {
	OldBalance float64 `json:"old_balance"`
	NewBalance float64 `json:"new_balance"`
}

type apiError struct {
	status int
	body   string
}

func (e apiError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.status, e.body)
}

func TestDropshipPortalContract(t *testing.T) {
	t.Helper()
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")
	problemContentType := matchers.S("application/problem+json")
	auth := matchers.S(pacttest.BearerHeader())
	lineItem := matchers.Map{
		"product_id":  matchers.Like(3010),
		"quantity":    matchers.Like(2),
		"price":       matchers.Like(4.5),
		"final_price": matchers.Like(9.0),
		"model":       matchers.Like("MDL-1"),
		"po_id":       matchers.Like("PO-301"),
	}

	pact.AddInteraction().
		Given(pacttest.StateOrdersBaseline).
		UponReceiving("a request for the first page of all orders").
		WithRequest("GET", "/orders/get-all-orders", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Authorization", auth)
			b.Query("page", matchers.S("1"))
			b.Query("page_size", matchers.S("20"))
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"total_count": matchers.Like(1),
				"page":        matchers.Like(1),
				"page_size":   matchers.Like(20),
				"orders": matchers.EachLike(matchers.Map{
					"order_id":       matchers.Like(pacttest.ExistingOrderID),
					"order_serial":   matchers.Like("SN-301"),
					"date_purchased": matchers.Like("2024-06-12T10:00:00Z"),
					"status":         matchers.Like("OS"),
					"total_quantity": matchers.Like(2),
					"products":       matchers.EachLike(lineItem, 1),
				}, 1),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateOrderExists).
		UponReceiving("a request for an owned order").
		WithRequest("GET", fmt.Sprintf("/orders/order/%d", pacttest.ExistingOrderID), func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Authorization", auth)
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"order_id":      matchers.Like(pacttest.ExistingOrderID),
				"order_serial":  matchers.Like("SN-301"),
				"buyer_id":      matchers.Like(pacttest.CustomerID),
				"seller_id":     matchers.Like(1),
				"status":        matchers.Like("OS"),
				"china_process": matchers.Like("CP"),
				"products":      matchers.EachLike(lineItem, 1),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateOrderMissing).
		UponReceiving("a request for a missing order").
		WithRequest("GET", fmt.Sprintf("/orders/order/%d", pacttest.MissingOrderID), func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Authorization", auth)
		}).
		WillRespondWith(http.StatusNotFound, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", problemContentType)
			b.JSONBody(matchers.Map{
				"type":   matchers.S("/problems/not-found"),
				"title":  matchers.S("Resource Not Found"),
				"status": matchers.Like(http.StatusNotFound),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateOrdersBaseline).
		UponReceiving("an unauthenticated order listing").
		WithRequest("GET", "/orders/get-unpaid-orders").
		WillRespondWith(http.StatusUnauthorized, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", problemContentType)
			b.JSONBody(matchers.Map{
				"type":   matchers.S("/problems/unauthorized"),
				"status": matchers.Like(http.StatusUnauthorized),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateWalletFunded).
		UponReceiving("a request for the wallet balance").
		WithRequest("GET", "/wallet/balance", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Authorization", auth)
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"success": matchers.Like(true),
				"data": matchers.Map{
					"customer_id":        matchers.Like(pacttest.CustomerID),
					"currencies_balance": matchers.Like(50.0),
				},
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateWalletFunded).
		UponReceiving("a wallet debit").
		WithRequest("POST", "/wallet/update", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Authorization", auth)
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(matchers.Map{
				"amount":           matchers.Like(10.0),
				"transaction_type": matchers.Term("subtract", "add|subtract"),
				"description":      matchers.Like("order 301 shipping"),
			})
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"success": matchers.Like(true),
				"message": matchers.S("Wallet balance subtracted successfully"),
				"data": matchers.Map{
					"customer_id":    matchers.Like(pacttest.CustomerID),
					"old_balance":    matchers.Like(50.0),
					"new_balance":    matchers.Like(40.0),
					"transaction_id": matchers.Like(1),
				},
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateWalletEmpty).
		UponReceiving("a wallet debit larger than the balance").
		WithRequest("POST", "/wallet/update", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Authorization", auth)
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(matchers.Map{
				"amount":           matchers.Like(10.0),
				"transaction_type": matchers.S("subtract"),
			})
		}).
		WillRespondWith(http.StatusBadRequest, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", problemContentType)
			b.JSONBody(matchers.Map{
				"type":   matchers.S("/problems/insufficient-balance"),
				"status": matchers.Like(http.StatusBadRequest),
			})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client := newPortalClient(config)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var list orderList
		if err := client.do(ctx, http.MethodGet, "/orders/get-all-orders?page=1&page_size=20", true, nil, &list); err != nil {
			return fmt.Errorf("list orders: %w", err)
		}
		if len(list.Orders) == 0 {
			return fmt.Errorf("expected at least one order")
		}

		var detail orderDetail
		if err := client.do(ctx, http.MethodGet, fmt.Sprintf("/orders/order/%d", pacttest.ExistingOrderID), true, nil, &detail); err != nil {
			return fmt.Errorf("get order: %w", err)
		}
		if detail.OrderID != pacttest.ExistingOrderID || len(detail.Products) == 0 {
			return fmt.Errorf("unexpected order detail %+v", detail)
		}

		if err := expectStatus(client.do(ctx, http.MethodGet, fmt.Sprintf("/orders/order/%d", pacttest.MissingOrderID), true, nil, nil), http.StatusNotFound); err != nil {
			return err
		}
		if err := expectStatus(client.do(ctx, http.MethodGet, "/orders/get-unpaid-orders", false, nil, nil), http.StatusUnauthorized); err != nil {
			return err
		}

		var envelope walletEnvelope
		if err := client.do(ctx, http.MethodGet, "/wallet/balance", true, nil, &envelope); err != nil {
			return fmt.Errorf("get balance: %w", err)
		}
		var balance walletBalance
		if err := json.Unmarshal(envelope.Data, &balance); err != nil {
			return err
		}
		if balance.CustomerID != pacttest.CustomerID {
			return fmt.Errorf("unexpected balance %+v", balance)
		}

		debit := map[string]any{"amount": 10.0, "transaction_type": "subtract", "description": "order 301 shipping"}
		if err := client.do(ctx, http.MethodPost, "/wallet/update", true, debit, &envelope); err != nil {
			return fmt.Errorf("debit wallet: %w", err)
		}
		var update walletUpdate
		if err := json.Unmarshal(envelope.Data, &update); err != nil {
			return err
		}
		if update.NewBalance >= update.OldBalance {
			return fmt.Errorf("expected a debit, got %+v", update)
		}

		overdraw := map[string]any{"amount": 10.0, "transaction_type": "subtract"}
		return expectStatus(client.do(ctx, http.MethodPost, "/wallet/update", true, overdraw, nil), http.StatusBadRequest)
	})
	require.NoError(t, err)
}

func expectStatus(err error, status int) error {
	apiErr, ok := err.(apiError)
	if !ok {
		return fmt.Errorf("expected status %d, got %v", status, err)
	}
	if apiErr.status != status {
		return fmt.Errorf("expected status %d, got %d", status, apiErr.status)
	}
	return nil
}

type portalClient struct {
	baseURL    string
	httpClient *http.Client
}

func newPortalClient(config pactconsumer.MockServerConfig) *portalClient {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	transport := &http.Transport{TLSClientConfig: config.TLSConfig}
	return &portalClient{
		baseURL:    fmt.Sprintf("http://%s:%d", host, config.Port),
		httpClient: &http.Client{Transport: transport, Timeout: 10 * time.Second},
	}
}

func (c *portalClient) do(ctx context.Context, method, path string, authenticated bool, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authenticated {
		req.Header.Set("Authorization", pacttest.BearerHeader())
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		raw, _ := io.ReadAll(res.Body)
		return apiError{status: res.StatusCode, body: string(raw)}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}
