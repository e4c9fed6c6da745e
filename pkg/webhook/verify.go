// Package webhook ingests signed contract log deliveries, decodes them into
// events and hands them to the event log and projections.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"strings"
)

// SignatureHeader carries the HMAC signature of the raw request body.
const SignatureHeader = "X-Alchemy-Signature"

// VerifySignature checks that body was signed with signingKey using
// HMAC-SHA256. The signature may be hex or base64 encoded; both are accepted.
// A missing signature or an empty key always fails.
func VerifySignature(body []byte, signature, signingKey string) bool {
	if signature == "" || signingKey == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(signingKey))
	mac.Write(body)
	expected := mac.Sum(nil)

	sig := strings.TrimSpace(signature)
	if decoded, err := hex.DecodeString(sig); err == nil && hmac.Equal(decoded, expected) {
		return true
	}
	if decoded, err := base64.StdEncoding.DecodeString(sig); err == nil && hmac.Equal(decoded, expected) {
		return true
	}
	return false
}
