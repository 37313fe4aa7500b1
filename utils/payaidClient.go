package utils

import (
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"lms/config"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrGatewayUnavailable wraps every network, HTTP or decode failure talking
// to PayAid. Order creation treats it as fatal; callback-time status
// reconfirmation swallows it and falls back to the payload's own code.
var ErrGatewayUnavailable = errors.New("payment gateway unavailable")

// PayaidClient talks to the PayAid sandbox/production API.
type PayaidClient struct {
	client    *resty.Client
	orderURL  string
	statusURL string
}

// NewPayaidClient builds a client enforcing TLS 1.2+ against the expected
// gateway hostname, with a bounded timeout.
func NewPayaidClient() *PayaidClient {
	client := resty.New().
		SetTimeout(10 * time.Second).
		SetTLSClientConfig(&tls.Config{
			MinVersion: tls.VersionTLS12,
			ServerName: config.AppConfig.PayaidHost,
		})

	return &PayaidClient{
		client:    client,
		orderURL:  config.AppConfig.PayaidOrderURL,
		statusURL: config.AppConfig.PayaidStatusURL,
	}
}

// CreatePaymentURL posts a signed order to the gateway and returns the
// hosted payment page URL and the gateway's correlation uuid.
func (p *PayaidClient) CreatePaymentURL(params map[string]string) (string, string, error) {
	resp, err := p.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(params).
		Post(p.orderURL)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	if resp.StatusCode() != 200 {
		return "", "", fmt.Errorf("%w: status %d", ErrGatewayUnavailable, resp.StatusCode())
	}

	var body struct {
		Data struct {
			URL  string `json:"url"`
			UUID string `json:"uuid"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	if body.Data.URL == "" {
		return "", "", fmt.Errorf("%w: empty payment url", ErrGatewayUnavailable)
	}

	return body.Data.URL, body.Data.UUID, nil
}

// QueryPaymentStatus reconfirms a payment against the gateway's live state.
// Returns the first record's response code (0 means confirmed success) and
// the raw body for auditing.
func (p *PayaidClient) QueryPaymentStatus(orderID, transactionID string) (int, []byte, error) {
	params := map[string]string{
		"api_key":        config.AppConfig.PayaidApiKey,
		"order_id":       orderID,
		"transaction_id": transactionID,
	}
	params["hash"] = CalculatePayaidHash(params, config.AppConfig.PayaidSalt)

	resp, err := p.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(params).
		Post(p.statusURL)
	if err != nil {
		return -1, nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	if resp.StatusCode() != 200 {
		return -1, nil, fmt.Errorf("%w: status %d", ErrGatewayUnavailable, resp.StatusCode())
	}

	var body struct {
		Data []struct {
			ResponseCode int `json:"response_code"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return -1, nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	if len(body.Data) == 0 {
		return -1, nil, fmt.Errorf("%w: empty status response", ErrGatewayUnavailable)
	}

	return body.Data[0].ResponseCode, resp.Body(), nil
}

// SetBaseURLs overrides the gateway endpoints (used by tests).
func (p *PayaidClient) SetBaseURLs(orderURL, statusURL string) {
	p.orderURL = orderURL
	p.statusURL = statusURL
}
