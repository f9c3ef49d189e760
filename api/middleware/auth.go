package middleware

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/giftshop-backend/api/responses"
	pkgAuth "github.com/angelmondragon/giftshop-backend/pkg/auth"
	"github.com/angelmondragon/giftshop-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/giftshop-backend/pkg/errors"
	"github.com/angelmondragon/giftshop-backend/pkg/logger"
)

// Auth validates a bearer token issued by the identity provider and seeds the request
// context with the subject and role.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "Necesitás iniciar sesión."))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "Necesitás iniciar sesión."))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "La sesión no es válida o expiró."))
				return
			}

			role := string(claims.EffectiveRole())
			ctx := WithUserID(r.Context(), claims.UserID())
			ctx = WithRole(ctx, role)

			if logg != nil {
				ctx = logg.WithUserID(ctx, claims.UserID())
				ctx = logg.WithActorRole(ctx, role)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
