package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

const passwordAlphabet = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateUsername builds a login name from the person's name plus a short
// random suffix to avoid collisions.
func GenerateUsername(firstName, lastName string) (string, error) {
	base := strings.ToLower(strings.TrimSpace(firstName))
	if ln := strings.ToLower(strings.TrimSpace(lastName)); ln != "" {
		base += "." + ln
	}
	base = strings.ReplaceAll(base, " ", "")
	if base == "" || base == "." {
		base = "user"
	}

	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%04d", base, n.Int64()), nil
}

// GeneratePassword returns a random temporary password of the given length.
func GeneratePassword(length int) (string, error) {
	if length <= 0 {
		length = 12
	}
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(passwordAlphabet))))
		if err != nil {
			return "", err
		}
		b.WriteByte(passwordAlphabet[n.Int64()])
	}
	return b.String(), nil
}
