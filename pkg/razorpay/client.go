package razorpay

import (
	"context"
	"errors"
	"fmt"
	"strings"

	rzpsdk "github.com/razorpay/razorpay-go"

	"github.com/aviral-workprojects/krishi-connect/pkg/config"
	pkgerrors "github.com/aviral-workprojects/krishi-connect/pkg/errors"
	"github.com/aviral-workprojects/krishi-connect/pkg/logger"
)

var (
	errKeyIDRequired     = errors.New("razorpay key id is required")
	errKeySecretRequired = errors.New("razorpay key secret is required")
	errLoggerRequired    = errors.New("razorpay logger is required")
)

// CreateOrderParams describes a payment session request sent to Razorpay.
type CreateOrderParams struct {
	AmountPaise int64
	Currency    string
	Receipt     string
	Notes       map[string]interface{}
}

// OrderSession is the normalized gateway response for a created order.
type OrderSession struct {
	GatewayOrderID string
	AmountPaise    int64
	Currency       string
	Status         string
}

// Gateway is the surface checkout depends on; satisfied by Client and test stubs.
type Gateway interface {
	CreateOrder(ctx context.Context, params CreateOrderParams) (*OrderSession, error)
	KeySecret() string
}

// Client wraps the Razorpay SDK with centralized logging, redaction, and error mapping.
type Client struct {
	sdk       *rzpsdk.Client
	keyID     string
	keySecret string
	currency  string
	logger    *logger.Logger
}

// NewClient initializes the Razorpay wrapper and validates the credentials.
func NewClient(ctx context.Context, cfg config.RazorpayConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}

	keyID := strings.TrimSpace(cfg.KeyID)
	if keyID == "" {
		return nil, errKeyIDRequired
	}
	keySecret := strings.TrimSpace(cfg.KeySecret)
	if keySecret == "" {
		return nil, errKeySecretRequired
	}

	currency := strings.TrimSpace(cfg.Currency)
	if currency == "" {
		currency = "INR"
	}

	c := &Client{
		sdk:       rzpsdk.NewClient(keyID, keySecret),
		keyID:     keyID,
		keySecret: keySecret,
		currency:  currency,
		logger:    logg,
	}

	logg.Info(ctx, "razorpay client initialized")
	return c, nil
}

// KeySecret returns the secret used to verify payment signatures.
func (c *Client) KeySecret() string {
	if c == nil {
		return ""
	}
	return c.keySecret
}

// Currency reports the configured settlement currency.
func (c *Client) Currency() string {
	if c == nil {
		return ""
	}
	return c.currency
}

// CreateOrder opens a payment session at the gateway for the given amount.
// A failed call is surfaced to the caller as-is; there is no automatic retry,
// so no order row should be persisted when this returns an error.
func (c *Client) CreateOrder(ctx context.Context, params CreateOrderParams) (*OrderSession, error) {
	if c == nil || c.sdk == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "razorpay client not configured")
	}
	if params.AmountPaise <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order amount must be positive")
	}

	currency := strings.TrimSpace(params.Currency)
	if currency == "" {
		currency = c.currency
	}

	data := map[string]interface{}{
		"amount":   params.AmountPaise,
		"currency": currency,
	}
	if receipt := strings.TrimSpace(params.Receipt); receipt != "" {
		data["receipt"] = receipt
	}
	if len(params.Notes) > 0 {
		data["notes"] = params.Notes
	}

	c.log(ctx, "request", "create_order", map[string]any{
		"amount_paise": params.AmountPaise,
		"currency":     currency,
		"receipt":      params.Receipt,
	})

	resp, err := c.sdk.Order.Create(data, nil)
	if err != nil {
		c.log(ctx, "error", "create_order", map[string]any{"error": err.Error()})
		return nil, pkgerrors.Wrap(pkgerrors.CodeGatewayUnavailable, err, "razorpay create order failed")
	}

	session := sessionFromResponse(resp)
	if session.GatewayOrderID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeGatewayUnavailable, "razorpay response missing order id")
	}

	c.log(ctx, "response", "create_order", map[string]any{
		"gateway_order_id": session.GatewayOrderID,
		"status":           session.Status,
	})
	return &session, nil
}

func sessionFromResponse(resp map[string]interface{}) OrderSession {
	session := OrderSession{}
	if resp == nil {
		return session
	}
	if id, ok := resp["id"].(string); ok {
		session.GatewayOrderID = id
	}
	if status, ok := resp["status"].(string); ok {
		session.Status = status
	}
	if currency, ok := resp["currency"].(string); ok {
		session.Currency = currency
	}
	switch amount := resp["amount"].(type) {
	case float64:
		session.AmountPaise = int64(amount)
	case int64:
		session.AmountPaise = amount
	}
	return session
}

func (c *Client) log(ctx context.Context, phase, op string, fields map[string]any) {
	if c == nil || c.logger == nil {
		return
	}
	logFields := map[string]any{
		"operation": op,
		"phase":     phase,
	}
	for k, v := range fields {
		logFields[k] = c.redact(k, v)
	}
	ctx = c.logger.WithFields(ctx, logFields)
	switch phase {
	case "error":
		c.logger.Error(ctx, fmt.Sprintf("razorpay %s", op), errors.New(fmt.Sprint(fields["error"])))
	default:
		c.logger.Info(ctx, fmt.Sprintf("razorpay %s", phase))
	}
}

func (c *Client) redact(key string, value any) any {
	lower := strings.ToLower(key)
	for _, sensitive := range []string{"secret", "signature", "token", "card", "email", "phone"} {
		if strings.Contains(lower, sensitive) {
			return "[REDACTED]"
		}
	}
	return value
}
