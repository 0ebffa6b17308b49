package id

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

// Challenge returns a ULID naming one login attempt issued at t. ULIDs sort by
// issue time, so a quoted challenge in a message lines up with log records.
func Challenge(t time.Time) (string, error) {
	u, err := ulid.New(ulid.Timestamp(t), rand.Reader)
	if err != nil {
		return "", fmt.Errorf("generate challenge id: %w", err)
	}
	return u.String(), nil
}
