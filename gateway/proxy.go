package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"

	"finflow/common"
	"finflow/logger"
)

// Client calls one internal service. Every call carries its own timeout, and
// transport failures are resolved into the fixed client-facing taxonomy:
// connection refused means 503, timeout means 504, anything else becomes a
// generic 500 that leaks nothing about the failure.
type Client struct {
	name    string
	baseURL string
	http    *http.Client
}

func NewClient(name, baseURL string) *Client {
	return &Client{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
}

// UpstreamResponse is the raw outcome of an internal-service call.
type UpstreamResponse struct {
	StatusCode int
	Body       []byte
}

// Do performs a single upstream call. The header argument carries anything
// the caller wants forwarded (cookies, the identity trust header).
func (c *Client) Do(ctx context.Context, method, path string, body []byte, header http.Header, timeout time.Duration) (*UpstreamResponse, *common.AppError) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, common.NewAppError(http.StatusInternalServerError, "Internal server error", err)
	}
	for key, values := range header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.classify(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, common.NewAppError(http.StatusInternalServerError, "Internal server error", err)
	}

	return &UpstreamResponse{StatusCode: resp.StatusCode, Body: respBody}, nil
}

func (c *Client) classify(err error) *common.AppError {
	var netErr net.Error
	switch {
	case errors.Is(err, syscall.ECONNREFUSED):
		return common.NewAppError(http.StatusServiceUnavailable,
			fmt.Sprintf("%s is currently unavailable", c.name), err)
	case errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()):
		return common.NewAppError(http.StatusGatewayTimeout,
			fmt.Sprintf("%s request timeout", c.name), err)
	default:
		logger.Log.WithError(err).WithField("service", c.name).Error("Unexpected upstream error")
		return common.NewAppError(http.StatusInternalServerError, "Internal server error", err)
	}
}

// upstreamError turns a non-2xx upstream response into the same status and
// detail for the client, with a fallback when the body is not our error shape.
func upstreamError(resp *UpstreamResponse, fallback string) *common.AppError {
	detail := fallback
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(resp.Body, &payload); err == nil && payload.Detail != "" {
		detail = payload.Detail
	}
	return common.NewAppError(resp.StatusCode, detail, nil)
}

// relay writes an upstream response through to the client unchanged.
func relay(w http.ResponseWriter, resp *UpstreamResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)
	w.Write(resp.Body)
}
