package backend

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

	"github.com/tallypos/terminal/pkg/config"
	pkgerrors "github.com/tallypos/terminal/pkg/errors"
	"github.com/tallypos/terminal/pkg/logger"
)

var errLoggerRequired = errors.New("backend logger is required")

// TokenSource supplies the bearer token for authenticated calls. An empty
// token means the request goes out unauthenticated (login only).
type TokenSource interface {
	Token() string
}

// Client wraps the TallyPOS backend REST API with centralized auth,
// logging, and error mapping.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	logger     *logger.Logger
}

// NewClient validates the configuration and builds the API client.
func NewClient(cfg config.BackendConfig, tokens TokenSource, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("backend base url is required")
	}
	return &Client{
		baseURL:    base,
		httpClient: &http.Client{Timeout: cfg.Timeout()},
		tokens:     tokens,
		logger:     logg,
	}, nil
}

// BaseURL reports the configured backend root.
func (c *Client) BaseURL() string {
	if c == nil {
		return ""
	}
	return c.baseURL
}

type apiErrorBody struct {
	Message any `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode request body")
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeRemoteUnreachable, err, fmt.Sprintf("%s %s", method, path))
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.mapStatus(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeRemoteRejected, err, "decode response body")
	}
	return nil
}

func (c *Client) mapStatus(resp *http.Response) error {
	message := remoteMessage(resp.Body)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return pkgerrors.New(pkgerrors.CodeUnauthorized, messageOr(message, "authentication required"))
	case http.StatusNotFound:
		return pkgerrors.New(pkgerrors.CodeNotFound, messageOr(message, "resource not found"))
	}
	if resp.StatusCode >= 500 {
		return pkgerrors.New(pkgerrors.CodeRemoteUnreachable, messageOr(message, fmt.Sprintf("backend returned %d", resp.StatusCode)))
	}
	return pkgerrors.New(pkgerrors.CodeRemoteRejected, messageOr(message, fmt.Sprintf("backend returned %d", resp.StatusCode)))
}

// remoteMessage extracts the backend's human-readable message. The backend
// returns either a string or an array of strings under "message".
func remoteMessage(body io.Reader) string {
	var payload apiErrorBody
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return ""
	}
	switch value := payload.Message.(type) {
	case string:
		return value
	case []any:
		parts := make([]string, 0, len(value))
		for _, entry := range value {
			if s, ok := entry.(string); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "; ")
	}
	return ""
}

func messageOr(message, fallback string) string {
	if strings.TrimSpace(message) != "" {
		return message
	}
	return fallback
}
