package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"leads-manager/pkg/config"
	"leads-manager/pkg/mapper"
	"leads-manager/pkg/metrics"
	"leads-manager/pkg/models"
)

const apiHost = "https://api.airtable.com/v0"

// RequestError is a non-success response from the Airtable API. It carries
// the HTTP status and the raw response body for the caller to surface.
type RequestError struct {
	StatusCode int
	Body       string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("airtable API error: status %d: %s", e.StatusCode, e.Body)
}

// ListOptions controls one page fetch. Offset is the opaque continuation
// token from a previous page; View is an optional Airtable view name.
type ListOptions struct {
	PageSize int
	Offset   string
	View     string
}

// Client defines the interface for interacting with the Airtable leads table
type Client interface {
	// ListLeads fetches one page of records mapped to Leads, plus the
	// continuation offset for the next page ("" when exhausted).
	ListLeads(ctx context.Context, opts ListOptions) ([]models.Lead, string, error)
	// UpdateLead sends a partial field patch for one record by id and
	// returns the updated Lead mapped from the response.
	UpdateLead(ctx context.Context, id string, fields map[string]interface{}) (models.Lead, error)
}

type clientImpl struct {
	apiKey     string
	baseID     string
	table      string
	baseURL    string
	mapOpts    mapper.Options
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new Airtable client. It fails fast when the required
// configuration values are absent.
func NewClient(cfg *config.Config, logger *zap.Logger) (Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("airtable configuration: %w", err)
	}
	return &clientImpl{
		apiKey:  cfg.AirtableAPIKey,
		baseID:  cfg.AirtableBaseID,
		table:   cfg.AirtableTable,
		baseURL: apiHost,
		mapOpts: mapper.Options{
			LinkedinField: cfg.LinkedinField,
			FollowupField: cfg.FollowupField,
			NotesField:    cfg.NotesField,
		},
		httpClient: &http.Client{},
		logger:     logger,
	}, nil
}

// NewClientWithBaseURL is NewClient pointed at a different API host.
// Used by tests to stand in a local server for api.airtable.com.
func NewClientWithBaseURL(cfg *config.Config, logger *zap.Logger, baseURL string) (Client, error) {
	c, err := NewClient(cfg, logger)
	if err != nil {
		return nil, err
	}
	c.(*clientImpl).baseURL = baseURL
	return c, nil
}

func (c *clientImpl) ListLeads(ctx context.Context, opts ListOptions) ([]models.Lead, string, error) {
	params := url.Values{}
	if opts.PageSize > 0 {
		params.Set("pageSize", strconv.Itoa(opts.PageSize))
	}
	if opts.Offset != "" {
		params.Set("offset", opts.Offset)
	}
	if opts.View != "" {
		params.Set("view", opts.View)
	}

	endpoint := fmt.Sprintf("%s/%s/%s?%s", c.baseURL, c.baseID, url.PathEscape(c.table), params.Encode())

	body, err := c.request(ctx, http.MethodGet, endpoint, nil, "list")
	if err != nil {
		return nil, "", err
	}

	var response struct {
		Records []models.Record `json:"records"`
		Offset  string          `json:"offset"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, "", fmt.Errorf("error parsing response: %w", err)
	}

	leads := make([]models.Lead, 0, len(response.Records))
	for _, rec := range response.Records {
		leads = append(leads, mapper.MapRecord(rec, c.mapOpts))
	}

	c.logger.Debug("listed leads", zap.Int("count", len(leads)), zap.Bool("more", response.Offset != ""))
	return leads, response.Offset, nil
}

func (c *clientImpl) UpdateLead(ctx context.Context, id string, fields map[string]interface{}) (models.Lead, error) {
	endpoint := fmt.Sprintf("%s/%s/%s/%s", c.baseURL, c.baseID, url.PathEscape(c.table), url.PathEscape(id))

	payload, err := json.Marshal(map[string]interface{}{"fields": fields})
	if err != nil {
		return models.Lead{}, fmt.Errorf("error creating payload: %w", err)
	}

	body, err := c.request(ctx, http.MethodPatch, endpoint, payload, "update")
	if err != nil {
		return models.Lead{}, err
	}

	var rec models.Record
	if err := json.Unmarshal(body, &rec); err != nil {
		return models.Lead{}, fmt.Errorf("error parsing response: %w", err)
	}

	c.logger.Debug("updated lead", zap.String("id", id), zap.Int("fields", len(fields)))
	return mapper.MapRecord(rec, c.mapOpts), nil
}

func (c *clientImpl) request(ctx context.Context, method, endpoint string, payload []byte, operation string) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewBuffer(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	// Always hit the remote service fresh; intermediaries must not serve
	// a cached lead list.
	req.Header.Set("Cache-Control", "no-store")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.AirtableRequests.WithLabelValues(operation, "transport_error").Inc()
		return nil, fmt.Errorf("error calling Airtable: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.AirtableRequests.WithLabelValues(operation, "transport_error").Inc()
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.AirtableRequests.WithLabelValues(operation, "api_error").Inc()
		c.logger.Error("airtable request failed",
			zap.String("operation", operation),
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)))
		return nil, &RequestError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	metrics.AirtableRequests.WithLabelValues(operation, "success").Inc()
	return body, nil
}
