package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"coursehub/internal/model"
	"coursehub/internal/service"
	"coursehub/internal/util"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog"
)

// Injected key type to avoid context collisions
type contextKey string

const UserContextKey = contextKey("user")

// UserIDFromContext returns the authenticated user ID, if any
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserContextKey).(string)
	return userID, ok && userID != ""
}

// bearerToken extracts the token of a "Bearer <token>" or "JWT <token>" header.
func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		return "", false
	}
	switch parts[0] {
	case "Bearer", "JWT":
	default:
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// UserGetter loads the account a token was issued for.
type UserGetter interface {
	Get(ctx context.Context, id string) (*model.User, error)
}

// AuthMiddleware validates access tokens and stores the user ID in the
// operation context. The token's user must still exist and be active.
// Requests without an Authorization header pass through anonymously;
// operations that need a user reject them in the handler.
func AuthMiddleware(api huma.API, jwtSecret string, users UserGetter, logger zerolog.Logger) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		authHeader := ctx.Header("Authorization")
		if authHeader == "" {
			next(ctx)
			return
		}
		tokenString, ok := bearerToken(authHeader)
		if !ok {
			logger.Debug().Msg("Invalid authorization header")
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "Invalid authorization header")
			return
		}
		claims, err := util.ValidateJWT(tokenString, jwtSecret, util.TokenTypeAccess)
		if err != nil {
			logger.Debug().Err(err).Msg("Invalid token")
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "Given token not valid for any token type")
			return
		}

		user, err := users.Get(ctx.Context(), claims.Subject)
		if err != nil {
			if errors.Is(err, service.ErrUserNotFound) {
				logger.Debug().Str("user_id", claims.Subject).Msg("Token user not found")
				_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "User not found")
				return
			}
			logger.Error().Err(err).Str("user_id", claims.Subject).Msg("Failed to load token user")
			_ = huma.WriteErr(api, ctx, http.StatusInternalServerError, "Failed to authenticate")
			return
		}
		if !user.IsActive {
			logger.Debug().Str("user_id", claims.Subject).Msg("Token user is inactive")
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "User is inactive")
			return
		}
		next(huma.WithValue(ctx, UserContextKey, user.UserID))
	}
}
