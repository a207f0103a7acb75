package hash

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// HMACSHA256 digests OTP codes with a server secret. The digest is
// deterministic so the stored value can be matched inside an UPDATE ... WHERE.
// It is not a password hash.
type HMACSHA256 struct {
	key []byte
}

func NewHMACSHA256(secret string) *HMACSHA256 {
	return &HMACSHA256{key: []byte(secret)}
}

// Hash returns the lowercase hex digest of str. It never fails.
func (h *HMACSHA256) Hash(_ context.Context, str string) ([]byte, error) {
	return h.sum(str), nil
}

func (h *HMACSHA256) Verify(_ context.Context, hashed, str string) (bool, error) {
	return hashed != "" && hmac.Equal([]byte(hashed), h.sum(str)), nil
}

func (h *HMACSHA256) sum(str string) []byte {
	mac := hmac.New(sha256.New, h.key)
	mac.Write([]byte(str))
	return hex.AppendEncode(nil, mac.Sum(nil))
}
