package middleware

import (
	"net/http"
	"strings"

	"arbor/internal/auth"
	"arbor/internal/httputil"
)

// AuthMiddleware resolves the acting identity from the Authorization header.
//
// Requests without a token proceed as anonymous: queries answer with empty
// results and mutations are rejected by the services, so the middleware does
// not gate by route. A token that is present but fails verification is a 401;
// silently downgrading a bad token to anonymous would mask client bugs.
func AuthMiddleware(verifier auth.JWTVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				httputil.RespondError(w, http.StatusUnauthorized, "authorization header must use the Bearer scheme")
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				httputil.RespondError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, httputil.WithIdentity(r, claims.Identity()))
		})
	}
}
