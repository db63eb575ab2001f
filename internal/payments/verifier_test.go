package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"
)

func TestVerifierAcceptsGenuineSignature(t *testing.T) {
	v, err := NewVerifier("test-secret")
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}

	mac := hmac.New(sha256.New, []byte("test-secret"))
	mac.Write([]byte("order_abc|pay_xyz"))
	signature := hex.EncodeToString(mac.Sum(nil))

	if !v.Verify("order_abc", "pay_xyz", signature) {
		t.Fatal("expected genuine signature to verify")
	}
}

func TestVerifierRejectsTamperedSignature(t *testing.T) {
	v, err := NewVerifier("test-secret")
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}

	signature := v.Signature("order_abc", "pay_xyz")
	tampered := strings.Replace(signature, signature[:1], flip(signature[0]), 1)

	if v.Verify("order_abc", "pay_xyz", tampered) {
		t.Fatal("tampered signature must not verify")
	}
	if v.Verify("order_abc", "pay_other", signature) {
		t.Fatal("signature for a different payment must not verify")
	}
	if v.Verify("order_other", "pay_xyz", signature) {
		t.Fatal("signature for a different order must not verify")
	}
}

func TestVerifierToleratesCaseAndWhitespace(t *testing.T) {
	v, err := NewVerifier("test-secret")
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}

	signature := v.Signature("order_abc", "pay_xyz")
	if !v.Verify("order_abc", "pay_xyz", " "+strings.ToUpper(signature)+" ") {
		t.Fatal("expected uppercase/padded signature to verify")
	}
}

func TestVerifierRejectsEmptyInputs(t *testing.T) {
	v, err := NewVerifier("test-secret")
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}
	if v.Verify("", "pay_xyz", "deadbeef") {
		t.Fatal("empty order id must not verify")
	}
	if v.Verify("order_abc", "", "deadbeef") {
		t.Fatal("empty payment id must not verify")
	}
	if v.Verify("order_abc", "pay_xyz", "") {
		t.Fatal("empty signature must not verify")
	}
}

func TestNewVerifierRequiresSecret(t *testing.T) {
	if _, err := NewVerifier("   "); err == nil {
		t.Fatal("expected error for blank secret")
	}
}

func flip(b byte) string {
	if b == 'a' {
		return "b"
	}
	return "a"
}
