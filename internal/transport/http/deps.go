package http

import (
	"github.com/go-otc-auth/internal/application/session"
	"github.com/go-otc-auth/internal/transport/http/handler"
)

// Deps holds the application services the router needs.
type Deps struct {
	Sessions session.Service
	// Assertions is nil when no signing key is configured.
	Assertions handler.Asserter
	// AdminSecretHash is the bcrypt hash of ADMIN_SECRET; nil disables /v1/tokens.
	AdminSecretHash []byte
}
