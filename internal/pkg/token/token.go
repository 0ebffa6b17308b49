package token

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	digits       = "0123456789"
	alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	DefaultCodeLength  = 6
	MinCodeLength      = 6
	MaxCodeLength      = 24
	DefaultTokenLength = 32
	MinTokenLength     = 12
	MaxTokenLength     = 64
)

// Issuer generates one-time codes and session tokens from crypto/rand.
// It holds no state besides the lengths and is safe for concurrent use.
type Issuer struct {
	codeLength  int
	tokenLength int
}

// NewIssuer returns an Issuer with lengths clamped to their allowed ranges.
// A zero length selects the default.
func NewIssuer(codeLength, tokenLength int) *Issuer {
	return &Issuer{
		codeLength:  ClampCodeLength(codeLength),
		tokenLength: ClampTokenLength(tokenLength),
	}
}

// ClampCodeLength maps n into [MinCodeLength, MaxCodeLength]; 0 means DefaultCodeLength.
func ClampCodeLength(n int) int {
	if n == 0 {
		return DefaultCodeLength
	}
	return clamp(n, MinCodeLength, MaxCodeLength)
}

// ClampTokenLength maps n into [MinTokenLength, MaxTokenLength]; 0 means DefaultTokenLength.
func ClampTokenLength(n int) int {
	if n == 0 {
		return DefaultTokenLength
	}
	return clamp(n, MinTokenLength, MaxTokenLength)
}

func (i *Issuer) CodeLength() int  { return i.codeLength }
func (i *Issuer) TokenLength() int { return i.tokenLength }

// IssueCode returns a numeric one-time code.
func (i *Issuer) IssueCode() (string, error) {
	code, err := randomString(digits, i.codeLength)
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return code, nil
}

// IssueToken returns an alphanumeric session token.
func (i *Issuer) IssueToken() (string, error) {
	tok, err := randomString(alphanumeric, i.tokenLength)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return tok, nil
}

// randomString picks n characters uniformly from charset.
func randomString(charset string, n int) (string, error) {
	max := big.NewInt(int64(len(charset)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = charset[idx.Int64()]
	}
	return string(b), nil
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
