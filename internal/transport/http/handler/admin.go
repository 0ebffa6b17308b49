package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-otc-auth/internal/application/session"
)

// AdminHandler serves operator endpoints. Routes must sit behind middleware.RequireAdmin.
type AdminHandler struct {
	svc session.Service
}

func NewAdminHandler(svc session.Service) *AdminHandler {
	return &AdminHandler{svc: svc}
}

func (h *AdminHandler) ListTokens(w http.ResponseWriter, r *http.Request) {
	tokens, err := h.svc.ListActiveTokens(r.Context())
	if err != nil {
		slog.Error("list tokens failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if tokens == nil {
		tokens = []string{}
	}
	writeJSON(w, http.StatusOK, TokensEnvelope{Tokens: tokens})
}
