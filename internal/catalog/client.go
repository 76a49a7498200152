package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ayebare/dukapos/pkg/config"
	pkgerrors "github.com/ayebare/dukapos/pkg/errors"
)

const responseBodyReadLimit int64 = 2048

var (
	errBaseURLRequired     = errors.New("catalog base URL is required")
	errCredentialsRequired = errors.New("catalog consumer credentials are required")
)

// Client talks to the upstream commerce REST API. Authentication rides on the
// query string as consumer_key/consumer_secret, which is what the remote
// expects over HTTPS.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	consumerKey    string
	consumerSecret string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds the commerce API client from config.
func NewClient(cfg config.CatalogConfig, opts ...Option) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return nil, errBaseURLRequired
	}
	key := strings.TrimSpace(cfg.ConsumerKey)
	secret := strings.TrimSpace(cfg.ConsumerSecret)
	if key == "" || secret == "" {
		return nil, errCredentialsRequired
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &Client{
		httpClient:     &http.Client{Timeout: timeout},
		baseURL:        baseURL,
		consumerKey:    key,
		consumerSecret: secret,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

// ListProducts fetches one page of products matching the filters.
func (c *Client) ListProducts(ctx context.Context, params ListParams) ([]Product, error) {
	var products []Product
	if err := c.get(ctx, "products", params.Normalize().Values(), &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct fetches a single product by its upstream ID.
func (c *Client) GetProduct(ctx context.Context, id int) (*Product, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id must be positive")
	}
	var product Product
	if err := c.get(ctx, "products/"+strconv.Itoa(id), nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// ListOrders fetches one page of orders matching the filters.
func (c *Client) ListOrders(ctx context.Context, params OrderParams) ([]Order, error) {
	var orders []Order
	if err := c.get(ctx, "orders", params.Values(), &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetOrder fetches a single order by its upstream ID.
func (c *Client) GetOrder(ctx context.Context, id int) (*Order, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id must be positive")
	}
	var order Order
	if err := c.get(ctx, "orders/"+strconv.Itoa(id), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// CreateOrder submits an order draft and returns the created order.
func (c *Client) CreateOrder(ctx context.Context, input CreateOrderInput) (*Order, error) {
	if len(input.LineItems) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order requires at least one line item")
	}
	var order Order
	if err := c.post(ctx, "orders", input, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ListCustomers fetches one page of customers matching the filters.
func (c *Client) ListCustomers(ctx context.Context, params CustomerParams) ([]Customer, error) {
	var customers []Customer
	if err := c.get(ctx, "customers", params.Values(), &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

// GetCustomer fetches a single customer by its upstream ID.
func (c *Client) GetCustomer(ctx context.Context, id int) (*Customer, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id must be positive")
	}
	var customer Customer
	if err := c.get(ctx, "customers/"+strconv.Itoa(id), nil, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, dest any) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "catalog client not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildURL(path, query), nil)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build catalog request")
	}

	return c.do(req, dest)
}

func (c *Client) post(ctx context.Context, path string, payload any, dest any) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "catalog client not configured")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal catalog request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.buildURL(path, nil), bytes.NewReader(body))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build catalog request")
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, dest)
}

func (c *Client) do(req *http.Request, dest any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute catalog request")
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return pkgerrors.New(pkgerrors.CodeNotFound, "catalog resource not found")
	case resp.StatusCode == http.StatusBadRequest:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return pkgerrors.Wrap(pkgerrors.CodeValidation, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "catalog rejected request")
	case resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "catalog request failed")
	}

	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode catalog response")
	}
	return nil
}

func (c *Client) buildURL(path string, query url.Values) string {
	base := strings.TrimRight(c.baseURL, "/")
	path = strings.TrimLeft(path, "/")

	q := url.Values{}
	for k, vals := range query {
		for _, v := range vals {
			q.Add(k, v)
		}
	}
	q.Set("consumer_key", c.consumerKey)
	q.Set("consumer_secret", c.consumerSecret)

	return fmt.Sprintf("%s/%s?%s", base, path, q.Encode())
}
