// Package api is a client for the remote inventory API the register sells
// against.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

const tokenHeader = "Token"

type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("remote api: status %d: %s", e.StatusCode, e.Message)
}

func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	// submitClient carries sale submissions, which must not be cut short
	// once dispatched.
	submitClient *http.Client
	token        string
	logger       *zap.Logger
}

func New(baseURL string, httpClient *http.Client, logger *zap.Logger) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("baseURL is empty")
	}

	u, err := url.Parse(strings.TrimSuffix(baseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("url.Parse: %w", err)
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL:      u,
		httpClient:   httpClient,
		submitClient: httpClient,
		logger:       logger,
	}, nil
}

// WithSubmitClient returns a copy of the client that submits sales through
// httpClient and keeps the original one for everything else.
func (c *Client) WithSubmitClient(httpClient *http.Client) *Client {
	cp := *c
	cp.submitClient = httpClient
	return &cp
}

// WithToken returns a copy of the client that authenticates as token.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	return c.doWith(ctx, c.httpClient, method, path, query, in, out)
}

func (c *Client) doWith(ctx context.Context, httpClient *http.Client, method, path string, query url.Values, in, out any) error {
	ref, err := url.Parse(path)
	if err != nil {
		return fmt.Errorf("url.Parse: %w", err)
	}

	u := c.baseURL.ResolveReference(ref)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("json.Marshal: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set(tokenHeader, c.token)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("httpClient.Do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{StatusCode: resp.StatusCode, Message: errorMessage(resp.Body)}

		c.logger.Debug("remote api request failed",
			zap.String("method", method),
			zap.String("path", u.Path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", apiErr.Message))

		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, u.Path, err)
	}

	return nil
}

func errorMessage(r io.Reader) string {
	var body struct {
		Message      string `json:"Message"`
		LowerMessage string `json:"message"`
		Error        string `json:"error"`
	}

	if err := json.NewDecoder(io.LimitReader(r, 64<<10)).Decode(&body); err != nil {
		return ""
	}

	switch {
	case body.Message != "":
		return body.Message
	case body.LowerMessage != "":
		return body.LowerMessage
	}
	return body.Error
}
