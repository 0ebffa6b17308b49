package domain

import "time"

// PendingLogin is returned once a one-time code has been stored for an identity.
// ChallengeID is quoted in the notification so a user can match a message to the attempt;
// it is not a credential.
type PendingLogin struct {
	Identity    string    `json:"email"`
	ChallengeID string    `json:"challenge_id"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Session is a bearer credential issued after a successful code exchange or rotation.
type Session struct {
	Token     string    `json:"auth_token"`
	Identity  string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Message is an out-of-band notification carrying a one-time code.
type Message struct {
	Subject string
	Body    string
}
