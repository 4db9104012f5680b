package auth

import (
	"context"
	"net/http"
	"time"
)

type contextKey string

const OrganizerIDKey contextKey = "organizer_id"

// OrganizerMiddleware guards plain chi routes with the organizer cookie and
// renews the token once it is past half of its lifetime.
func (h *AuthHandler) OrganizerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(OrganizerCookie)
		if err != nil {
			if err == http.ErrNoCookie {
				http.Error(w, "Unauthorized: No token found", http.StatusUnauthorized)
				return
			}
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}

		claims, err := h.ParseToken(cookie.Value)
		if err != nil {
			http.Error(w, "Unauthorized: Invalid token", http.StatusUnauthorized)
			return
		}

		id, ok := organizerID(claims)
		if !ok {
			http.Error(w, "Unauthorized: Invalid token claims", http.StatusUnauthorized)
			return
		}

		// Sliding session: refresh the token past half of its duration.
		if exp, ok := claims["exp"].(float64); ok {
			remaining := time.Until(time.Unix(int64(exp), 0))
			if remaining < TokenDuration/2 {
				if newToken, err := h.GenerateToken(id); err == nil {
					http.SetCookie(w, &http.Cookie{
						Name:     OrganizerCookie,
						Value:    newToken,
						Expires:  time.Now().Add(TokenDuration),
						HttpOnly: true,
						Path:     "/",
						SameSite: http.SameSiteLaxMode,
					})
				}
			}
		}

		ctx := context.WithValue(r.Context(), OrganizerIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
