package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature_Valid(t *testing.T) {
	v := NewVerifier("test-secret")
	sig := sign("test-secret", "order_123", "pay_456")

	require.NoError(t, v.VerifySignature("order_123", "pay_456", sig))
}

func TestVerifySignature_Mismatch(t *testing.T) {
	v := NewVerifier("test-secret")

	err := v.VerifySignature("order_123", "pay_456", sign("other-secret", "order_123", "pay_456"))
	assert.ErrorIs(t, err, ErrSignatureMismatch)

	// Signature computed for a different payment must not verify
	err = v.VerifySignature("order_123", "pay_456", sign("test-secret", "order_123", "pay_999"))
	assert.ErrorIs(t, err, ErrSignatureMismatch)
}

func TestVerifySignature_MissingSecret(t *testing.T) {
	v := NewVerifier("")
	err := v.VerifySignature("order_123", "pay_456", "deadbeef")
	assert.ErrorIs(t, err, ErrMissingSecret)
}
