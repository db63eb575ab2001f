package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

var errSecretRequired = errors.New("signature secret is required")

// Verifier checks gateway payment callbacks. Razorpay signs the string
// "<gateway order id>|<payment id>" with HMAC-SHA256 over the key secret and
// sends the lowercase hex digest back with the client callback.
type Verifier struct {
	secret []byte
}

// NewVerifier builds a verifier for the shared gateway secret.
func NewVerifier(secret string) (*Verifier, error) {
	trimmed := strings.TrimSpace(secret)
	if trimmed == "" {
		return nil, errSecretRequired
	}
	return &Verifier{secret: []byte(trimmed)}, nil
}

// Signature computes the expected hex signature for an order/payment pair.
func (v *Verifier) Signature(gatewayOrderID, paymentID string) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(gatewayOrderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether the provided signature matches the expected one.
// The comparison is constant time, so the result leaks nothing about how
// close a forged signature came.
func (v *Verifier) Verify(gatewayOrderID, paymentID, signature string) bool {
	if v == nil || gatewayOrderID == "" || paymentID == "" || signature == "" {
		return false
	}
	expected := v.Signature(gatewayOrderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(strings.TrimSpace(signature))))
}
