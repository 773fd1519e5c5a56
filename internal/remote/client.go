// Package remote talks to the Todo Collection Service over JSON/HTTP.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/idilsaglam/todosync/internal/model"
)

// DefaultBaseURL is the public PERN todo backend.
const DefaultBaseURL = "https://pern-todo-backend.onrender.com"

const contentTypeJSON = "application/json"

// Client is a thin JSON client for the /todos resource.
type Client struct {
	baseURL  string
	client   *http.Client
	log      *zap.Logger
	contract *contract
}

// ClientOptions configures a Client. Zero values pick defaults.
type ClientOptions struct {
	// Timeout bounds a whole request. Zero means no client-side limit.
	Timeout           time.Duration
	ConnectionTimeout time.Duration
	MaxIdleConns      int
	// HTTPClient replaces the transport entirely (tests, proxies).
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// NewClient creates a client rooted at baseURL.
func NewClient(baseURL string, opts ClientOptions) *Client {
	if opts.MaxIdleConns == 0 {
		opts.MaxIdleConns = 16
	}
	if opts.ConnectionTimeout == 0 {
		opts.ConnectionTimeout = 10 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{
			Transport: &http.Transport{
				Proxy:        http.ProxyFromEnvironment,
				MaxIdleConns: opts.MaxIdleConns,
				DialContext: (&net.Dialer{
					Timeout: opts.ConnectionTimeout,
				}).DialContext,
			},
			Timeout: opts.Timeout,
		}
	}

	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   hc,
		log:      opts.Logger.Named("remote"),
		contract: mustContract(),
	}
}

// BaseURL returns the normalized service root.
func (c *Client) BaseURL() string { return c.baseURL }

type descriptionBody struct {
	Description string `json:"description"`
}

// List fetches the full collection in server order.
func (c *Client) List(ctx context.Context) ([]model.Item, error) {
	body, err := c.do(ctx, http.MethodGet, "/todos", nil)
	if err != nil {
		return nil, err
	}
	if err := c.contract.checkList(body); err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	var items []model.Item
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("list todos: %w: %v", ErrMalformed, err)
	}
	if items == nil {
		items = []model.Item{}
	}
	return items, nil
}

// Create posts a new description and returns the server record.
func (c *Client) Create(ctx context.Context, description string) (model.Item, error) {
	body, err := c.do(ctx, http.MethodPost, "/todos", descriptionBody{Description: description})
	if err != nil {
		return model.Item{}, err
	}
	if err := c.contract.checkItem(body); err != nil {
		return model.Item{}, fmt.Errorf("create todo: %w", err)
	}
	var item model.Item
	if err := json.Unmarshal(body, &item); err != nil {
		return model.Item{}, fmt.Errorf("create todo: %w: %v", ErrMalformed, err)
	}
	return item, nil
}

// Update replaces the description of id. Any 2xx counts as success; the body is ignored.
func (c *Client) Update(ctx context.Context, id int, description string) error {
	_, err := c.do(ctx, http.MethodPut, itemPath(id), descriptionBody{Description: description})
	return err
}

// Delete removes id on the server.
func (c *Client) Delete(ctx context.Context, id int) error {
	_, err := c.do(ctx, http.MethodDelete, itemPath(id), nil)
	return err
}

func itemPath(id int) string {
	return "/todos/" + strconv.Itoa(id)
}

// do sends one request and returns the body of a 2xx response.
func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", contentTypeJSON)
	}
	req.Header.Set("Accept", contentTypeJSON)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Warn("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%s %s: %w: %v", method, path, ErrNetwork, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w: read body: %v", method, path, ErrNetwork, err)
	}

	fields := []zap.Field{
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn("request rejected", fields...)
		return nil, &StatusError{Method: method, Path: path, Code: resp.StatusCode}
	}
	c.log.Debug("request done", fields...)
	return body, nil
}
