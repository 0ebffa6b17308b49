package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// BearerToken returns the credential from an "Authorization: Bearer" header, or "".
func BearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
}

// TokenFromRequest returns the session token from the bearer header, falling
// back to the named cookie.
func TokenFromRequest(r *http.Request, cookieName string) string {
	if tok := BearerToken(r); tok != "" {
		return tok
	}
	if c, err := r.Cookie(cookieName); err == nil {
		return c.Value
	}
	return ""
}

// HashSecret bcrypt-hashes the admin secret. An empty secret yields a nil hash,
// which RequireAdmin treats as "no admin access".
func HashSecret(secret string) ([]byte, error) {
	if secret == "" {
		return nil, nil
	}
	return bcrypt.GenerateFromPassword(digest(secret), bcrypt.DefaultCost)
}

// digest maps a secret of any length to 64 hex bytes, under bcrypt's 72-byte input limit.
func digest(secret string) []byte {
	sum := sha256.Sum256([]byte(secret))
	out := make([]byte, hex.EncodedLen(len(sum)))
	hex.Encode(out, sum[:])
	return out
}

// RequireAdmin admits requests whose bearer credential matches secretHash.
// Every failure gets the same 403 body.
func RequireAdmin(secretHash []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			presented := BearerToken(r)
			if len(secretHash) == 0 || presented == "" ||
				bcrypt.CompareHashAndPassword(secretHash, digest(presented)) != nil {
				writeJSONError(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
