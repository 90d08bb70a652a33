package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	authcore "github.com/veldtlabs/authcore"
)

type identityContextKey struct{}

// IdentityFromContext returns the verified caller identity stashed by
// [Guard], if any.
func IdentityFromContext(ctx context.Context) (authcore.Identity, bool) {
	id, ok := ctx.Value(identityContextKey{}).(authcore.Identity)
	return id, ok
}

// Guard returns middleware that requires a valid Bearer session token. On
// success the decoded [authcore.Identity] is attached to the request
// context for downstream handlers; any verification failure ends the
// request with 401.
func Guard(engine *authcore.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			tok, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			identity, err := engine.VerifyToken(tok)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), identityContextKey{}, identity)
			ctx = authcore.WithClientIP(ctx, remoteIP(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole wraps Guard's contract with a role check: callers whose
// session role does not match fail with 403.
func RequireRole(role authcore.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			if identity.Role != role {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if token == "" {
		return "", false
	}

	return token, true
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
