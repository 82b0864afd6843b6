package auth

import (
	"encoding/json"
	"net/http"
	"strings"

	"cardsync/internal/contextutil"
)

// RequireSession rejects requests without a valid session token with 401.
// The token is read from the session cookie, or from an Authorization
// bearer header for non-browser clients.
func RequireSession(manager *SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			logger := contextutil.LoggerFromContext(ctx)

			tokenString := ""
			if cookie, err := r.Cookie(SessionCookieName); err == nil {
				tokenString = cookie.Value
			} else if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
				tokenString = strings.TrimPrefix(header, "Bearer ")
			}

			if tokenString == "" {
				writeAuthError(w, "認証されていません。")
				return
			}

			session, err := manager.Verify(tokenString)
			if err != nil {
				logger.WarnContext(ctx, "session verification failed", "error", err)
				writeAuthError(w, "認証されていません。")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(ctx, session)))
		})
	}
}

func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
