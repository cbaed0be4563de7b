package stockapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/ktsuji/stockadmin/internal/config"
	"github.com/ktsuji/stockadmin/internal/domain/models"
)

// Client exposes the stock API operations used by the application.
type Client interface {
	FetchPage(ctx context.Context, limit, offset int) ([]models.StockRecord, error)
	Create(ctx context.Context, payload models.StockPayload) (*models.StockRecord, error)
	Update(ctx context.Context, id string, payload models.StockPayload) (*models.StockRecord, error)
	Delete(ctx context.Context, id string) error
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
}

// NewClient builds a stock API client using the provided configuration values.
func NewClient(cfg config.StockAPIConfig) *APIClient {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(cfg.Timeout)

	return &APIClient{httpClient: restyClient}
}

// apiError represents an upstream stock API error payload.
type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (e *apiError) text() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

// FetchPage retrieves one server-ordered page of stock records.
func (c *APIClient) FetchPage(ctx context.Context, limit, offset int) ([]models.StockRecord, error) {
	var result []models.StockRecord
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("limit", strconv.Itoa(limit)).
		SetQueryParam("offset", strconv.Itoa(offset)).
		SetResult(&result).
		SetError(apiErr).
		Get("/stocks")
	if err != nil {
		return nil, fmt.Errorf("fetch stocks: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return nil, fmt.Errorf("stock api error: code=%d, message=%s", resp.StatusCode(), apiErr.text())
	}

	return result, nil
}

// Create registers a new stock record and returns the server copy with its id.
func (c *APIClient) Create(ctx context.Context, payload models.StockPayload) (*models.StockRecord, error) {
	result := new(models.StockRecord)
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(result).
		SetError(apiErr).
		Post("/stocks")
	if err != nil {
		return nil, fmt.Errorf("create stock: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return nil, fmt.Errorf("stock api error: code=%d, message=%s", resp.StatusCode(), apiErr.text())
	}

	return result, nil
}

// Update overwrites an existing record's editable fields.
func (c *APIClient) Update(ctx context.Context, id string, payload models.StockPayload) (*models.StockRecord, error) {
	result := new(models.StockRecord)
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(result).
		SetError(apiErr).
		Put(fmt.Sprintf("/stocks/%s", id))
	if err != nil {
		return nil, fmt.Errorf("update stock: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return nil, fmt.Errorf("stock api error: code=%d, message=%s", resp.StatusCode(), apiErr.text())
	}

	return result, nil
}

// Delete removes a record by id.
func (c *APIClient) Delete(ctx context.Context, id string) error {
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetError(apiErr).
		Delete(fmt.Sprintf("/stocks/%s", id))
	if err != nil {
		return fmt.Errorf("delete stock: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return fmt.Errorf("stock api error: code=%d, message=%s", resp.StatusCode(), apiErr.text())
	}

	return nil
}
