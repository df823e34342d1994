package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"quill/app/auth"
	"quill/app/logging"
	"quill/app/models"
	"quill/app/repositories"
)

// TokenVerifier decodes a session token into its subject id.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// UserLookup resolves a subject id into a user.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

const bearerScheme = "bearer"

// Authenticate rejects requests without a valid bearer token. On success the
// resolved identity is attached to the request context. Every rejection is a
// generic 401; the specific cause is only logged at debug level.
func Authenticate(tokens TokenVerifier, users UserLookup, logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token, err := bearerToken(r.Header.Get("Authorization"))
			if err != nil {
				unauthorized(ctx, w, logger, err)
				return
			}

			subject, err := tokens.Verify(token)
			if err != nil {
				unauthorized(ctx, w, logger, err)
				return
			}

			user, err := users.GetByID(ctx, subject)
			if errors.Is(err, repositories.ErrNotFound) {
				unauthorized(ctx, w, logger, errors.New("token subject no longer exists"))
				return
			}
			if err != nil {
				logger.Error(ctx, "failed to resolve token subject", "error", err)
				writeError(w, http.StatusInternalServerError, "Internal server error")
				return
			}

			ctx = auth.WithIdentity(ctx, auth.IdentityFromUser(user))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the token from an Authorization header value. The
// scheme is matched case-insensitively.
func bearerToken(header string) (string, error) {
	if header == "" {
		return "", auth.ErrMissingToken
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, bearerScheme) {
		return "", auth.ErrTokenMalformed
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", auth.ErrMissingToken
	}
	return token, nil
}

func unauthorized(ctx context.Context, w http.ResponseWriter, logger logging.Logger, cause error) {
	logger.Debug(ctx, "authentication rejected", "reason", cause.Error())
	w.Header().Set("WWW-Authenticate", `Bearer`)
	writeError(w, http.StatusUnauthorized, "Unauthorized")
}
