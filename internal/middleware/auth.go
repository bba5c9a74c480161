package middleware

import (
	"net/http"
	"strings"

	"github.com/facetworks/facet/internal/domain"
	"github.com/facetworks/facet/internal/repository"
	"github.com/google/uuid"
)

// sessionCookieName is the fallback session cookie for browser clients.
const sessionCookieName = "facet_session"

// WithUser resolves the caller from a bearer token or session cookie and
// attaches it to the context. It is optional: an absent or invalid token
// leaves the request anonymous rather than rejecting it, so public endpoints
// share the same chain.
func WithUser(repo repository.Querier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				if cookie, err := r.Cookie(sessionCookieName); err == nil {
					token = cookie.Value
				}
			}
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := repo.GetUserBySessionToken(r.Context(), token)
			if err != nil {
				// Expired or unknown session: continue anonymous.
				next.ServeHTTP(w, r)
				return
			}

			ctx := domain.NewContextWithUser(r.Context(), &domain.User{
				ID:    uuid.UUID(user.ID.Bytes),
				Email: user.Email,
				Role:  user.Role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUser rejects unauthenticated requests with 401.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if domain.UserFromContext(r.Context()) == nil {
			respondWithError(w, r, domain.Unauthorized("middleware.auth", "Authentication required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireStaff rejects callers without a back-office role. Unauthenticated
// requests get 401; authenticated non-staff get 403.
func RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := domain.UserFromContext(r.Context())
		if user == nil {
			respondWithError(w, r, domain.Unauthorized("middleware.auth", "Authentication required"))
			return
		}
		if !user.IsStaff() {
			respondWithError(w, r, domain.Forbidden("middleware.auth", "Staff access required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}
