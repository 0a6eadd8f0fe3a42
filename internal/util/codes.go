package util

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"
)

// codeChars omits the ambiguous characters O, I, 0 and 1.
const codeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const sessionIDBytes = 12

// GenerateSessionID returns a random hex session identifier.
func GenerateSessionID() (string, error) {
	bytes := make([]byte, sessionIDBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return "session_" + hex.EncodeToString(bytes), nil
}

// GenerateCode returns a random redemption code of n characters.
// With 32 characters per position a 12-character code has a space of
// 32^12 (~1.2e18), so collisions at expected token counts are negligible;
// the token store still checks against live codes and retries.
func GenerateCode(n int) string {
	chars := []byte(codeChars)
	code := make([]byte, n)
	for i := 0; i < n; i++ {
		idx, _ := rand.Int(rand.Reader, big.NewInt(int64(len(chars))))
		code[i] = chars[idx.Int64()]
	}
	return string(code)
}

// MaskCode hides most of a redemption code for logging.
func MaskCode(code string) string {
	if len(code) <= 4 {
		return "****"
	}
	return code[:4] + "-****"
}
