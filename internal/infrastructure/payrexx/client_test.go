package payrexx

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/payrexx-gateway/internal/application"
	"github.com/payrexx-gateway/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(serverURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    serverURL,
		instance:   "demo-shop",
		apiKey:     "test-api-key",
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func TestSignature(t *testing.T) {
	// HMAC-SHA256("", "key"), base64-encoded.
	assert.Equal(t, "XV0TlWPJW1lnub2ajJsjOp3ttFByeUzSMtwbdIMmB9A=", Signature(nil, "key"))

	withBody := Signature([]byte(`{"amount":4990}`), "key")
	assert.NotEqual(t, Signature(nil, "key"), withBody)
	assert.Equal(t, withBody, Signature([]byte(`{"amount":4990}`), "key"))
}

func TestHTTPClient_CreateGateway(t *testing.T) {
	var gotBody createGatewayRequest
	var gotQuery map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/Gateway/", r.URL.Path)

		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &gotBody))
		gotQuery = map[string]string{
			"instance":     r.URL.Query().Get("instance"),
			"ApiSignature": r.URL.Query().Get("ApiSignature"),
		}
		assert.Equal(t, Signature(body, "test-api-key"), gotQuery["ApiSignature"])

		writeEnvelope(w, gatewayModel{
			ID:          321,
			Status:      "waiting",
			ReferenceID: "10042",
			Link:        "https://demo.payrexx.com/?payment=321",
			Amount:      4990,
			Currency:    "CHF",
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	session, err := client.CreateGateway(context.Background(), application.CreateGatewayRequest{
		OrderReference:  "10042",
		AmountMinorUnit: 4990,
		Currency:        "CHF",
		PaymentMean:     "mastercard",
		ValidityMinutes: 15,
		SuccessURL:      "https://shop.example/return",
		CancelURL:       "https://shop.example/cancel",
		Customer:        application.CustomerDetails{Forename: "Max", Surname: "Muster"},
	})

	require.NoError(t, err)
	assert.Equal(t, 321, session.ID)
	assert.Equal(t, domain.StatusWaiting, session.Status)
	assert.Equal(t, "https://demo.payrexx.com/?payment=321", session.Link)

	assert.Equal(t, "demo-shop", gotQuery["instance"])
	assert.Equal(t, int64(4990), gotBody.Amount)
	assert.Equal(t, "10042", gotBody.ReferenceID)
	assert.Equal(t, 15, gotBody.Validity)
	assert.True(t, gotBody.SkipResultPage)
	assert.Equal(t, "Max", gotBody.Fields.Forename.Value)
}

func TestHTTPClient_GetGateway_MapsInvoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/Gateway/321/", r.URL.Path)

		writeEnvelope(w, gatewayModel{
			ID:     321,
			Status: "confirmed",
			Invoices: []invoiceModel{
				{PaymentRequestID: 1, Transactions: []transactionModel{{ID: 77, UUID: "tx-uuid", Status: "confirmed"}}},
			},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	session, err := client.GetGateway(context.Background(), 321)

	require.NoError(t, err)
	latest := session.LatestTransaction()
	require.NotNil(t, latest)
	assert.Equal(t, 77, latest.ID)
	assert.Equal(t, domain.StatusConfirmed, latest.Status)
}

func TestHTTPClient_GetTransaction(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Transaction/77/", r.URL.Path)
		writeEnvelope(w, transactionModel{ID: 77, Status: "confirmed"})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	tx, err := client.GetTransaction(context.Background(), 77)

	require.NoError(t, err)
	assert.Equal(t, 77, tx.ID)
	assert.Equal(t, domain.StatusConfirmed, tx.Status)
}

func TestHTTPClient_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(providerErrorResponse{Status: "error", Message: "Gateway not found"})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.GetGateway(context.Background(), 999)

	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	providerErr, ok := IsProviderError(err)
	require.True(t, ok)
	assert.Equal(t, "Gateway not found", providerErr.Message)
}

func TestHTTPClient_ErrorEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(apiResponse[gatewayModel]{Status: "error", Message: "invalid signature"})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.GetGateway(context.Background(), 321)

	require.Error(t, err)
	providerErr, ok := IsProviderError(err)
	require.True(t, ok)
	assert.Equal(t, "error", providerErr.Code)
	assert.False(t, providerErr.IsRetryable())
}

func TestHTTPClient_EmptyData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(apiResponse[gatewayModel]{Status: "success"})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.GetGateway(context.Background(), 321)

	require.Error(t, err)
	providerErr, ok := IsProviderError(err)
	require.True(t, ok)
	assert.Equal(t, "empty_response", providerErr.Code)
}

func TestHTTPClient_DeleteGateway(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		writeEnvelope(w, gatewayModel{ID: 321})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	require.NoError(t, client.DeleteGateway(context.Background(), 321))
}

func writeEnvelope[T any](w http.ResponseWriter, data T) {
	json.NewEncoder(w).Encode(apiResponse[T]{Status: "success", Data: []T{data}})
}
