package utils

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"sort"
	"strings"
)

// CalculatePayaidHash computes the PayAid request/response signature: empty
// fields are dropped, the remaining values are joined with "|" in the
// lexicographic order of their field names, prefixed with the salt, and the
// SHA-512 of that string is rendered as uppercase hex. The hash field itself
// must never be part of the input; callers strip it before verifying.
func CalculatePayaidHash(fields map[string]string, salt string) string {
	keys := make([]string, 0, len(fields))
	for k, v := range fields {
		if strings.TrimSpace(v) == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(salt)
	for _, k := range keys {
		sb.WriteString("|")
		sb.WriteString(strings.TrimSpace(fields[k]))
	}

	sum := sha512.Sum512([]byte(sb.String()))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// VerifyPayaidHash recomputes the signature over fields and compares it to
// the received one in constant time.
func VerifyPayaidHash(fields map[string]string, salt, receivedHash string) bool {
	expected := CalculatePayaidHash(fields, salt)
	received := strings.ToUpper(strings.TrimSpace(receivedHash))
	return subtle.ConstantTimeCompare([]byte(expected), []byte(received)) == 1
}
