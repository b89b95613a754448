package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/camden-git/familyvault/models"
	"github.com/camden-git/familyvault/repository"
)

// ContextKey is a custom type for context keys to avoid collisions.
type ContextKey string

const (
	// UserContextKey is the key used to store the user object in the request context.
	UserContextKey ContextKey = "user"
)

// SessionCookieName is the cookie set on login for browser clients; API
// clients may instead send the token as "Authorization: Bearer <token>".
const SessionCookieName = "session"

// sessionToken extracts the session token from the Authorization header or
// the session cookie.
func sessionToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
			return parts[1]
		}
	}
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// AuthMiddleware resolves the session token to a user and stores it in the
// request context. The sysop session (master password override) has no user
// row; a synthetic admin user is built from the session itself.
func AuthMiddleware(sessionRepo repository.SessionRepository, userRepo repository.UserRepository, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := sessionToken(r)
		if token == "" {
			WriteAPIError(w, http.StatusUnauthorized, "unauthenticated", "Login required")
			return
		}

		session, err := sessionRepo.GetByToken(token)
		if err != nil || session.IsExpired() {
			WriteAPIError(w, http.StatusUnauthorized, "unauthenticated", "Invalid or expired session")
			return
		}

		var user *models.User
		if session.UserID == 0 {
			user = &models.User{Username: session.Username, IsAdmin: session.IsAdmin}
		} else {
			user, err = userRepo.GetByID(session.UserID)
			if err != nil {
				// user was deleted after the session was issued
				WriteAPIError(w, http.StatusUnauthorized, "unauthenticated", "User no longer exists")
				return
			}
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin rejects non-admin callers. It must run after AuthMiddleware.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r)
		if user == nil {
			WriteAPIError(w, http.StatusInternalServerError, "internal", "User not found in context")
			return
		}
		if !user.IsAdmin {
			WriteAPIError(w, http.StatusForbidden, "forbidden", "Access denied")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserFromContext returns the authenticated user stored by AuthMiddleware.
func UserFromContext(r *http.Request) *models.User {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}
