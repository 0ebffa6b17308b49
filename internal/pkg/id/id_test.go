package id

import (
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChallenge_EncodesIssueTime(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s, err := Challenge(at)
	require.NoError(t, err)

	u, err := ulid.Parse(s)
	require.NoError(t, err)
	assert.Equal(t, ulid.Timestamp(at), u.Time())
}

func TestChallenge_SortsByTime(t *testing.T) {
	a, err := Challenge(time.Unix(1000, 0))
	require.NoError(t, err)
	b, err := Challenge(time.Unix(2000, 0))
	require.NoError(t, err)
	assert.Less(t, a, b)
}
