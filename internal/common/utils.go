package common

import (
	"crypto/rand"
	"encoding/hex"
)

// base36 alphabet used for upload-id suffixes.
const base36Chars = "0123456789abcdefghijklmnopqrstuvwxyz"

// MakeRandHexString generates a random hexadecimal string of the given size.
// The size parameter specifies the number of random bytes to generate before
// encoding them as a hexadecimal string, so the final string length will be
// twice the size. It returns an error if the random number generator fails.
func MakeRandHexString(size int) (string, error) {

	b := make([]byte, size)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}

// MakeRandBase36String generates a random string of n characters drawn from
// the lowercase base36 alphabet (0-9, a-z).
func MakeRandBase36String(n int) (string, error) {

	b := make([]byte, n)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}

	out := make([]byte, n)
	for i, v := range b {
		out[i] = base36Chars[int(v)%len(base36Chars)]
	}

	return string(out), nil
}

// GenerateRandByteArray returns n cryptographically random bytes.
// It panics if the random number generator fails.
func GenerateRandByteArray(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return b
}
