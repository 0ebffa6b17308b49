package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-otc-auth/internal/application/session"
	"github.com/go-otc-auth/internal/domain"
	"github.com/go-otc-auth/internal/pkg/validate"
	"github.com/go-otc-auth/internal/transport/http/middleware"
)

// Asserter signs identity assertions handed out by check-auth.
type Asserter interface {
	Sign(identity string) (string, error)
}

type LoginRequest struct {
	Email string `form:"email" validate:"required"`
}

type VerifyRequest struct {
	Email string `form:"email" validate:"required"`
	Code  string `form:"code" validate:"required"`
}

const maxFormMemory = 1 << 20

// parseForm accepts both urlencoded and multipart bodies.
func parseForm(r *http.Request) error {
	err := r.ParseMultipartForm(maxFormMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		return nil
	}
	return err
}

// AuthHandler serves the login, verify, check-auth and logout endpoints.
type AuthHandler struct {
	svc        session.Service
	cookie     CookieConfig
	assertions Asserter
}

// NewAuthHandler builds the handler. assertions may be nil.
func NewAuthHandler(svc session.Service, cookie CookieConfig, assertions Asserter) *AuthHandler {
	return &AuthHandler{svc: svc, cookie: cookie, assertions: assertions}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form body")
		return
	}
	req := LoginRequest{Email: strings.TrimSpace(r.PostFormValue("email"))}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	slog.Info("login requested", "identity", req.Email, "ip", middleware.RealIP(r))

	pending, err := h.svc.RequestLogin(r.Context(), req.Email)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, LoginEnvelope{Message: "code sent", ChallengeID: pending.ChallengeID})
	case errors.Is(err, domain.ErrDeliveryFailed):
		writeFailure(w, "could not deliver code", codeDeliveryFailed)
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, "email is required")
	default:
		slog.Error("request login failed", "identity", req.Email, "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		writeFailure(w, "invalid form body", codeBadRequest)
		return
	}
	req := VerifyRequest{
		Email: strings.TrimSpace(r.PostFormValue("email")),
		Code:  strings.TrimSpace(r.PostFormValue("code")),
	}
	if err := validate.Struct(req); err != nil {
		writeFailure(w, err.Error(), codeBadRequest)
		return
	}

	sess, err := h.svc.VerifyLogin(r.Context(), req.Email, req.Code)
	switch {
	case err == nil:
		h.cookie.set(w, sess.Token)
		writeJSON(w, http.StatusOK, MessageEnvelope{Message: "logged in"})
	case errors.Is(err, domain.ErrExpired):
		writeFailure(w, "code expired or never issued", codeExpired)
	case errors.Is(err, domain.ErrInvalidCode):
		writeFailure(w, "invalid code", codeInvalid)
	case errors.Is(err, domain.ErrBadRequest):
		writeFailure(w, "email and code are required", codeBadRequest)
	default:
		slog.Error("verify login failed", "identity", req.Email, "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// CheckAuth rotates the presented token and returns its successor.
func (h *AuthHandler) CheckAuth(w http.ResponseWriter, r *http.Request) {
	token := middleware.TokenFromRequest(r, h.cookie.Name)
	if token == "" {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}
	sess, err := h.svc.RefreshToken(r.Context(), token)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}
		slog.Error("refresh token failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	resp := CheckAuthEnvelope{AuthToken: sess.Token, Email: sess.Identity}
	if h.assertions != nil {
		if a, err := h.assertions.Sign(sess.Identity); err == nil {
			resp.Assertion = a
		} else {
			slog.Warn("failed to sign identity assertion", "identity", sess.Identity, "err", err)
		}
	}
	h.cookie.set(w, sess.Token)
	writeJSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := middleware.TokenFromRequest(r, h.cookie.Name)
	if token == "" {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}
	if err := h.svc.RevokeToken(r.Context(), token); err != nil {
		slog.Error("revoke token failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	h.cookie.clear(w)
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "logged out"})
}
