package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/teclegacy/marketplace-backend/api/responses"
	"github.com/teclegacy/marketplace-backend/pkg/auth"
	"github.com/teclegacy/marketplace-backend/pkg/config"
	pkgerrors "github.com/teclegacy/marketplace-backend/pkg/errors"
	"github.com/teclegacy/marketplace-backend/pkg/identity"
	"github.com/teclegacy/marketplace-backend/pkg/logger"
)

// Identity resolves the request to a cart owner. A valid bearer token wins;
// otherwise the anonymous session cookie is used, minted on first contact.
// An invalid bearer token is rejected rather than downgraded to anonymous.
func Identity(jwtCfg config.JWTConfig, sessionCfg config.SessionConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if header := r.Header.Get("Authorization"); header != "" {
				token, ok := strings.CutPrefix(header, "Bearer ")
				if !ok {
					responses.WriteError(ctx, logg, w,
						pkgerrors.New(pkgerrors.CodeUnauthorized, "malformed authorization header"))
					return
				}

				claims, err := auth.ParseAccessToken(jwtCfg, token)
				if err != nil {
					responses.WriteError(ctx, logg, w,
						pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid access token"))
					return
				}

				ident := identity.User(claims.UserID)
				ctx = WithIdentity(ctx, ident)
				if logg != nil {
					ctx = logg.WithUserID(ctx, claims.UserID.String())
				}
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			sessionID := ""
			if cookie, err := r.Cookie(sessionCfg.CookieName); err == nil {
				sessionID = cookie.Value
			}
			if sessionID == "" {
				sessionID = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     sessionCfg.CookieName,
					Value:    sessionID,
					Path:     "/",
					MaxAge:   int(sessionCfg.CookieMaxAge.Seconds()),
					HttpOnly: true,
					Secure:   sessionCfg.CookieSecure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ident := identity.Session(sessionID)
			ctx = WithIdentity(ctx, ident)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUser rejects requests whose identity is not an authenticated user.
func RequireUser(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident := IdentityFromContext(r.Context())
			if !ident.IsAuthenticated() {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
