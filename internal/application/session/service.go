package session

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/go-otc-auth/internal/domain"
	"github.com/go-otc-auth/internal/pkg/id"
)

// Store is a TTL key-value namespace. Entries vanish on their own once the TTL
// elapses; Put overwrites an existing key. Get returns domain.ErrNotFound for a
// missing or expired key.
type Store interface {
	Put(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
}

// Issuer generates fresh secrets.
type Issuer interface {
	IssueCode() (string, error)
	IssueToken() (string, error)
}

// Notifier delivers a message to an identity out of band.
type Notifier interface {
	Notify(ctx context.Context, to string, msg domain.Message) error
}

type Service interface {
	RequestLogin(ctx context.Context, identity string) (*domain.PendingLogin, error)
	VerifyLogin(ctx context.Context, identity, code string) (*domain.Session, error)
	VerifyToken(ctx context.Context, token string) (string, error)
	RefreshToken(ctx context.Context, token string) (*domain.Session, error)
	RevokeToken(ctx context.Context, token string) error
	ListActiveTokens(ctx context.Context) ([]string, error)
}

// ServiceDeps holds the collaborators of the session service.
// Codes is keyed by identity, Tokens by token value.
type ServiceDeps struct {
	Codes    Store
	Tokens   Store
	Issuer   Issuer
	Notifier Notifier
	CodeTTL  time.Duration
	TokenTTL time.Duration
	// DeleteCodeOnSuccess removes a code as soon as it has been exchanged
	// instead of leaving it to expire.
	DeleteCodeOnSuccess bool
	Now                 func() time.Time
}

type service struct {
	codes               Store
	tokens              Store
	issuer              Issuer
	notifier            Notifier
	codeTTL             time.Duration
	tokenTTL            time.Duration
	deleteCodeOnSuccess bool
	now                 func() time.Time
}

func NewService(deps ServiceDeps) Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		codes:               deps.Codes,
		tokens:              deps.Tokens,
		issuer:              deps.Issuer,
		notifier:            deps.Notifier,
		codeTTL:             deps.CodeTTL,
		tokenTTL:            deps.TokenTTL,
		deleteCodeOnSuccess: deps.DeleteCodeOnSuccess,
		now:                 now,
	}
}

// RequestLogin stores a new code for identity and sends it. A previous pending
// code is overwritten. When delivery fails the code stays stored and the pending
// result is returned together with an error wrapping domain.ErrDeliveryFailed.
func (s *service) RequestLogin(ctx context.Context, identity string) (*domain.PendingLogin, error) {
	if identity == "" {
		return nil, fmt.Errorf("identity required: %w", domain.ErrBadRequest)
	}
	code, err := s.issuer.IssueCode()
	if err != nil {
		return nil, err
	}
	now := s.now()
	challenge, err := id.Challenge(now)
	if err != nil {
		return nil, err
	}
	if err := s.codes.Put(ctx, identity, code, s.codeTTL); err != nil {
		return nil, fmt.Errorf("store code: %w", err)
	}
	pending := &domain.PendingLogin{
		Identity:    identity,
		ChallengeID: challenge,
		ExpiresAt:   now.Add(s.codeTTL),
	}
	if err := s.notifier.Notify(ctx, identity, codeMessage(code, challenge, s.codeTTL)); err != nil {
		slog.Warn("failed to deliver login code", "identity", identity, "challenge_id", challenge, "err", err)
		return pending, fmt.Errorf("deliver code: %w: %w", domain.ErrDeliveryFailed, err)
	}
	slog.Info("login code sent", "identity", identity, "challenge_id", challenge)
	return pending, nil
}

// VerifyLogin exchanges a pending code for a new session token. A wrong code
// leaves the pending code in place so the user can retry.
func (s *service) VerifyLogin(ctx context.Context, identity, code string) (*domain.Session, error) {
	if identity == "" || code == "" {
		return nil, fmt.Errorf("identity and code required: %w", domain.ErrBadRequest)
	}
	stored, err := s.codes.Get(ctx, identity)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("no pending code: %w", domain.ErrExpired)
		}
		return nil, fmt.Errorf("load code: %w", err)
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		return nil, fmt.Errorf("code mismatch: %w", domain.ErrInvalidCode)
	}
	sess, err := s.issueSession(ctx, identity)
	if err != nil {
		return nil, err
	}
	if s.deleteCodeOnSuccess {
		if err := s.codes.Delete(ctx, identity); err != nil {
			slog.Warn("failed to delete exchanged login code", "identity", identity, "err", err)
		}
	}
	slog.Info("login verified", "identity", identity)
	return sess, nil
}

// VerifyToken returns the identity owning token.
func (s *service) VerifyToken(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", fmt.Errorf("token required: %w", domain.ErrUnauthorized)
	}
	identity, err := s.tokens.Get(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", fmt.Errorf("unknown token: %w", domain.ErrUnauthorized)
		}
		return "", fmt.Errorf("load token: %w", err)
	}
	return identity, nil
}

// RefreshToken rotates token: a successor with a full TTL is stored for the
// same identity and the old token is deleted.
func (s *service) RefreshToken(ctx context.Context, token string) (*domain.Session, error) {
	identity, err := s.VerifyToken(ctx, token)
	if err != nil {
		return nil, err
	}
	sess, err := s.issueSession(ctx, identity)
	if err != nil {
		return nil, err
	}
	// The successor is already valid; a stale predecessor still expires by TTL.
	if err := s.tokens.Delete(ctx, token); err != nil {
		slog.Warn("failed to delete rotated token", "identity", identity, "err", err)
	}
	return sess, nil
}

// RevokeToken deletes token. Revoking an unknown token is a no-op.
func (s *service) RevokeToken(ctx context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("token required: %w", domain.ErrUnauthorized)
	}
	if err := s.tokens.Delete(ctx, token); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}

// ListActiveTokens returns every unexpired token, sorted. Callers must gate it.
func (s *service) ListActiveTokens(ctx context.Context) ([]string, error) {
	keys, err := s.tokens.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tokens: %w", err)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *service) issueSession(ctx context.Context, identity string) (*domain.Session, error) {
	tok, err := s.issuer.IssueToken()
	if err != nil {
		return nil, err
	}
	if err := s.tokens.Put(ctx, tok, identity, s.tokenTTL); err != nil {
		return nil, fmt.Errorf("store token: %w", err)
	}
	return &domain.Session{
		Token:     tok,
		Identity:  identity,
		ExpiresAt: s.now().Add(s.tokenTTL),
	}, nil
}

func codeMessage(code, challenge string, ttl time.Duration) domain.Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Your login code is %s\n\n", code)
	fmt.Fprintf(&b, "It expires in %s. If you did not try to sign in, ignore this message.\n", ttl.Round(time.Second))
	fmt.Fprintf(&b, "Reference: %s\n", challenge)
	return domain.Message{Subject: "Your login code", Body: b.String()}
}
