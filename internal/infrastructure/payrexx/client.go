package payrexx

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/payrexx-gateway/internal/application"
	"github.com/payrexx-gateway/internal/config"
	"github.com/payrexx-gateway/internal/domain"
)

// HTTPClient talks to the Payrexx REST API. Requests are authenticated with
// the instance name and an ApiSignature, the base64 HMAC-SHA256 of the
// request body under the instance API key.
type HTTPClient struct {
	baseURL    string
	instance   string
	apiKey     string
	httpClient *http.Client
}

func NewClient(cfg config.PayrexxConfig) application.GatewayClient {
	platform := cfg.Platform
	if platform == "" {
		platform = "payrexx.com"
	}
	return &HTTPClient{
		baseURL:  fmt.Sprintf("https://api.%s/v1.0", platform),
		instance: cfg.Instance,
		apiKey:   cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.ConnTimeout,
		},
	}
}

func (c *HTTPClient) CreateGateway(ctx context.Context, req application.CreateGatewayRequest) (*domain.PaymentSession, error) {
	endpoint := fmt.Sprintf("%s/Gateway/", c.baseURL)
	body := newCreateGatewayRequest(req)
	model, err := sendRequest[createGatewayRequest, gatewayModel](c, ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return nil, err
	}
	return toSession(*model), nil
}

func (c *HTTPClient) GetGateway(ctx context.Context, id int) (*domain.PaymentSession, error) {
	endpoint := fmt.Sprintf("%s/Gateway/%d/", c.baseURL, id)
	model, err := sendRequest[any, gatewayModel](c, ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	return toSession(*model), nil
}

func (c *HTTPClient) DeleteGateway(ctx context.Context, id int) error {
	endpoint := fmt.Sprintf("%s/Gateway/%d/", c.baseURL, id)
	_, err := sendRequest[any, gatewayModel](c, ctx, http.MethodDelete, endpoint, nil)
	return err
}

func (c *HTTPClient) GetTransaction(ctx context.Context, id int) (*domain.ProviderTransaction, error) {
	endpoint := fmt.Sprintf("%s/Transaction/%d/", c.baseURL, id)
	model, err := sendRequest[any, transactionModel](c, ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	tx := toProviderTransaction(*model)
	return &tx, nil
}

func (c *HTTPClient) CaptureTransaction(ctx context.Context, id int) (*domain.ProviderTransaction, error) {
	endpoint := fmt.Sprintf("%s/Transaction/%d/capture/", c.baseURL, id)
	model, err := sendRequest[any, transactionModel](c, ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return nil, err
	}
	tx := toProviderTransaction(*model)
	return &tx, nil
}

// Signature computes the base64 HMAC-SHA256 of body with the given key. An
// empty body signs the empty string.
func Signature(body []byte, key string) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func sendRequest[Req any, Resp any](c *HTTPClient, ctx context.Context, method, endpoint string, reqBody *Req) (*Resp, error) {
	var jsonData []byte
	var bodyReader io.Reader
	if reqBody != nil {
		var err error
		jsonData, err = json.Marshal(reqBody)
		if err != nil {
			return nil, fmt.Errorf("error marshalling json: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	query := url.Values{}
	query.Set("instance", c.instance)
	query.Set("ApiSignature", Signature(jsonData, c.apiKey))

	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint+"?"+query.Encode(), bodyReader)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	if reqBody != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		var errResp providerErrorResponse
		if err := json.Unmarshal(body, &errResp); err != nil {
			return nil, &ProviderError{
				Code:       "http_error",
				Message:    string(body),
				StatusCode: resp.StatusCode,
			}
		}
		return nil, &ProviderError{
			Code:       errResp.Status,
			Message:    errResp.Message,
			StatusCode: resp.StatusCode,
		}
	}

	var envelope apiResponse[Resp]
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("error decoding json response: %w", err)
	}

	if envelope.Status != "success" {
		return nil, &ProviderError{
			Code:       envelope.Status,
			Message:    envelope.Message,
			StatusCode: resp.StatusCode,
		}
	}

	if len(envelope.Data) == 0 {
		return nil, &ProviderError{
			Code:       "empty_response",
			Message:    "provider returned no data",
			StatusCode: resp.StatusCode,
		}
	}

	return &envelope.Data[0], nil
}
