package mlapi

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
	"time"

	pkgerrors "github.com/aviral-workprojects/krishi-connect/pkg/errors"
)

const (
	defaultTimeout              = 10 * time.Second
	requestBodyReadLimit  int64 = 1024
)

var errBaseURLRequired = errors.New("ml api base url is required")

// Client wraps the crop advisory ML service used for price recommendations and trends.
type Client struct {
	httpClient *http.Client
	baseURL    string
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

// NewClient builds the advisory client given the service base URL.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errBaseURLRequired
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := &Client{
		baseURL:    trimmed,
		httpClient: &http.Client{Timeout: timeout},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: timeout}
	}

	return client, nil
}

// RecommendRequest describes the payload forwarded to the recommendation endpoint.
type RecommendRequest struct {
	CropName string  `json:"crop_name"`
	Location string  `json:"location,omitempty"`
	Month    int     `json:"month,omitempty"`
	AreaAcre float64 `json:"area_acre,omitempty"`
}

// Recommendation is the advisory service's price guidance for a crop.
type Recommendation struct {
	CropName        string  `json:"crop_name"`
	SuggestedPrice  float64 `json:"suggested_price"`
	Confidence      float64 `json:"confidence"`
	ModelVersion    string  `json:"model_version"`
	AdvisoryMessage string  `json:"advisory_message"`
}

// TrendPoint is one entry of a historical price trend series.
type TrendPoint struct {
	Period   string  `json:"period"`
	AvgPrice float64 `json:"avg_price"`
}

// Recommend forwards the request to the ML service and returns its guidance.
func (c *Client) Recommend(ctx context.Context, req RecommendRequest) (*Recommendation, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "ml api client not configured")
	}
	if strings.TrimSpace(req.CropName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "crop name is required")
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal recommend request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.buildURL("recommend"), bytes.NewReader(payload))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build recommend request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute recommend request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, requestBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "recommend request failed")
	}

	var out Recommendation
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode recommend response")
	}
	return &out, nil
}

// Trends fetches the historical price series for a crop.
func (c *Client) Trends(ctx context.Context, cropName string) ([]TrendPoint, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "ml api client not configured")
	}
	trimmed := strings.TrimSpace(cropName)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "crop name is required")
	}

	endpoint := fmt.Sprintf("%s?crop=%s", c.buildURL("trends"), url.QueryEscape(trimmed))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build trends request")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute trends request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, requestBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "trends request failed")
	}

	var out []TrendPoint
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode trends response")
	}
	return out, nil
}

func (c *Client) buildURL(path string) string {
	return fmt.Sprintf("%s/%s", c.baseURL, strings.TrimLeft(path, "/"))
}
