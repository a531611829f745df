package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Listen-key endpoints. Issuance and keep-alive live on different API
// surfaces and are treated as two distinct capabilities by the session layer.
const (
	issuePath     = "/fapi/v1/listenKey"
	keepAlivePath = "/papi/v1/listenKey"
)

type listenKeyResponse struct {
	ListenKey string `json:"listenKey"`
}

// IssueListenKey requests a fresh listen key for this account.
func (c *Client) IssueListenKey(ctx context.Context) (string, error) {
	body, err := c.doRequest(ctx, http.MethodPost, issuePath)
	if err != nil {
		return "", err
	}

	var resp listenKeyResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("unmarshal listen key response: %w", err)
	}
	if resp.ListenKey == "" {
		return "", fmt.Errorf("venue returned empty listen key")
	}

	return resp.ListenKey, nil
}

// KeepAliveListenKey extends the validity of the account's current listen
// key. The venue treats a keep-alive against an already-fresh key as a
// success, so the call is idempotent. Any 2xx response means renewed.
func (c *Client) KeepAliveListenKey(ctx context.Context) error {
	_, err := c.doRequest(ctx, http.MethodPut, keepAlivePath)
	return err
}
