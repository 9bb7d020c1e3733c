package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"proofmark/pkg/domain"
	dErrors "proofmark/pkg/domain-errors"
)

// The registry core never sees an unauthenticated operation: this adapter
// stands in for the host's identity authenticator and injects the verified
// sender into the request context.

type contextKeyAccount struct{}

// GetAccountID retrieves the authenticated sender from the context.
func GetAccountID(ctx context.Context) domain.AccountID {
	if id, ok := ctx.Value(contextKeyAccount{}).(domain.AccountID); ok {
		return id
	}
	return ""
}

// WithAccountID injects an authenticated sender into a context. Useful for
// service unit tests that don't run the full HTTP middleware chain.
func WithAccountID(ctx context.Context, id domain.AccountID) context.Context {
	return context.WithValue(ctx, contextKeyAccount{}, id)
}

// JWTValidator verifies a bearer token and returns the identity it asserts.
type JWTValidator interface {
	Validate(token string) (domain.AccountID, error)
}

// HMACValidator validates HS256-signed tokens whose subject claim carries
// the account identity.
type HMACValidator struct {
	key []byte
}

func NewHMACValidator(signingKey string) *HMACValidator {
	return &HMACValidator{key: []byte(signingKey)}
}

func (v *HMACValidator) Validate(tokenString string) (domain.AccountID, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.key, nil
	})
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return "", fmt.Errorf("token is not valid")
	}
	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", fmt.Errorf("token has no subject")
	}
	return domain.ParseAccountID(subject)
}

// RequireAuth validates the bearer token and stores the sender in context.
// Handlers behind it read the sender only via GetAccountID.
func RequireAuth(validator JWTValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || tokenString == "" {
				writeAuthError(w)
				return
			}

			accountID, err := validator.Validate(tokenString)
			if err != nil {
				logger.WarnContext(r.Context(), "rejected bearer token",
					"request_id", GetRequestID(r.Context()),
					"error", err.Error(),
				)
				writeAuthError(w)
				return
			}

			ctx := WithAccountID(r.Context(), accountID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeAuthError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	fmt.Fprintf(w, `{"error":%q}`+"\n", dErrors.CodeUnauthorized)
}
