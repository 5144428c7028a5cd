// Package signature implements webhook request signing and verification.
//
// The platform signs every webhook delivery with HMAC-SHA256 over the raw
// request body, keyed by the channel secret, and sends the base64-encoded
// digest in the X-Line-Signature header.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// Sign computes the base64-encoded HMAC-SHA256 digest of message keyed by
// secret. The result is what the platform puts in the signature header.
func Sign(secret, message []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(message)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Verify reports whether digest is the valid signature of message under
// secret. Comparison is constant time; a mismatch is an expected outcome,
// not an error.
func Verify(secret, message, digest []byte) bool {
	return hmac.Equal([]byte(Sign(secret, message)), digest)
}
