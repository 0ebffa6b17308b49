package domain

import "time"

// Entry is one record in a TTL key-value namespace.
// In the code namespace Key is the identity and Value the one-time code;
// in the token namespace Key is the session token and Value the identity.
// ExpiresAt is a Unix timestamp used as DynamoDB TTL. It has whole-second
// resolution and is rounded up, so an entry may outlive its TTL by under a
// second but never expires early.
type Entry struct {
	Key       string `json:"key" dynamodbav:"key"`
	Value     string `json:"value" dynamodbav:"value"`
	CreatedAt int64  `json:"created_at" dynamodbav:"created_at"`
	ExpiresAt int64  `json:"expires_at" dynamodbav:"expires_at"` // TTL (Unix seconds)
}

// NewEntry builds an entry that expires ttl after now.
func NewEntry(key, value string, now time.Time, ttl time.Duration) Entry {
	return Entry{
		Key:       key,
		Value:     value,
		CreatedAt: now.Unix(),
		ExpiresAt: ceilUnix(now.Add(ttl)),
	}
}

func ceilUnix(t time.Time) int64 {
	secs := t.Unix()
	if t.Nanosecond() > 0 {
		secs++
	}
	return secs
}

// Expired reports whether the entry is no longer readable at now.
func (e Entry) Expired(now time.Time) bool {
	return e.ExpiresAt <= now.Unix()
}
