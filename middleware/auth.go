package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"movimenta_server/logging"
	"movimenta_server/models"
	"movimenta_server/utils"
)

// Identity is the caller established from the bearer token.
type Identity struct {
	UserID  string
	Role    string
	Manager bool
}

// Claims are the session token claims. Subject is the user id.
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

type identityKey struct{}

// WithIdentity stores id in ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the identity stored by RequireAuth.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// Authenticator validates HS256 session tokens.
type Authenticator struct {
	secret     []byte
	managerIDs map[string]bool
}

func NewAuthenticator(secret string, managerIDs []string) *Authenticator {
	ids := make(map[string]bool, len(managerIDs))
	for _, id := range managerIDs {
		if id = strings.TrimSpace(id); id != "" {
			ids[id] = true
		}
	}
	return &Authenticator{secret: []byte(secret), managerIDs: ids}
}

// Parse validates raw and resolves the caller. Managers are users whose token
// carries the manager role or whose id is configured as a manager account.
func (a *Authenticator) Parse(raw string) (Identity, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return Identity{}, err
	}
	if !models.ValidUserID(claims.Subject) {
		return Identity{}, errors.New("token subject is not a valid user id")
	}
	return Identity{
		UserID:  claims.Subject,
		Role:    claims.Role,
		Manager: claims.Role == models.RoleManager || a.managerIDs[claims.Subject],
	}, nil
}

// Issue signs a token for userID. Used by the session issuer in development and tests.
func (a *Authenticator) Issue(userID, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// RequireAuth rejects requests without a valid bearer token.
func RequireAuth(a *Authenticator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const prefix = "Bearer "
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, prefix) || strings.TrimSpace(header[len(prefix):]) == "" {
				utils.WriteFailure(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			id, err := a.Parse(strings.TrimSpace(header[len(prefix):]))
			if err != nil {
				logging.From(r.Context()).Debug("rejected token", slog.String("err", err.Error()))
				utils.WriteFailure(w, http.StatusUnauthorized, "unauthorized: invalid or expired token")
				return
			}
			ctx := WithIdentity(r.Context(), id)
			ctx = logging.Into(ctx, logging.From(ctx).With(slog.String("user_id", id.UserID)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireManager lets only manager identities through. It must run after RequireAuth.
func RequireManager() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFrom(r.Context())
			if !ok {
				utils.WriteFailure(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			if !id.Manager {
				utils.WriteFailure(w, http.StatusForbidden, "manager access required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
