package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
)

var (
	ErrMissingSecret     = errors.New("payment key secret is not configured")
	ErrSignatureMismatch = errors.New("payment signature mismatch")
)

// Verifier validates payment gateway webhook signatures.
type Verifier struct {
	keySecret []byte
}

// NewVerifier creates a Verifier for the given Razorpay key secret.
func NewVerifier(keySecret string) *Verifier {
	return &Verifier{keySecret: []byte(keySecret)}
}

// VerifySignature checks the HMAC-SHA256 signature the gateway computes
// over "orderID|paymentID". The provided signature is hex encoded.
func (v *Verifier) VerifySignature(orderID, paymentID, signature string) error {
	if len(v.keySecret) == 0 {
		return ErrMissingSecret
	}

	mac := hmac.New(sha256.New, v.keySecret)
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	if subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) != 1 {
		return ErrSignatureMismatch
	}
	return nil
}
