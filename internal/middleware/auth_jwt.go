package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims are the bearer token claims. Subject carries the user ID and Locale
// the user's preferred display locale, if any.
type Claims struct {
	jwt.RegisteredClaims
	Locale string `json:"locale,omitempty"`
}

type userKey string

const (
	userIDKey      userKey = "user_id"
	tokenLocaleKey userKey = "token_locale"
)

// NewClaims builds claims for userID that expire after ttl.
func NewClaims(issuer, userID string, ttl time.Duration) Claims {
	now := time.Now()
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}
}

// SignToken issues an HS256 token for userID valid for ttl.
func SignToken(secret, issuer, userID string, ttl time.Duration) (string, error) {
	return SignClaims(secret, NewClaims(issuer, userID, ttl))
}

// SignClaims issues an HS256 token carrying claims.
func SignClaims(secret string, claims Claims) (string, error) {
	if secret == "" {
		return "", errors.New("jwt secret is required")
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return "", errors.New("user id is required")
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// VerifyToken parses token and checks signature, expiry and issuer.
func VerifyToken(secret, issuer, token string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("verify token: %w", err)
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, errors.New("verify token: subject is required")
	}
	return &claims, nil
}

// AuthJWT requires a valid bearer token and stores its subject as the user ID
// and its locale claim for TokenLocale.
func AuthJWT(secret, issuer string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, http.StatusUnauthorized, "auth_required", "missing authorization")
				return
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				writeError(w, http.StatusUnauthorized, "auth_required", "invalid authorization")
				return
			}
			claims, err := VerifyToken(secret, issuer, strings.TrimSpace(parts[1]))
			if err != nil {
				writeError(w, http.StatusUnauthorized, "auth_required", "invalid token")
				return
			}
			ctx := ContextWithUserID(r.Context(), claims.Subject)
			if locale := strings.TrimSpace(claims.Locale); locale != "" {
				ctx = context.WithValue(ctx, tokenLocaleKey, locale)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func UserIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(userIDKey).(string); ok {
		return v
	}
	return ""
}

func ContextWithUserID(ctx context.Context, userID string) context.Context {
	if strings.TrimSpace(userID) == "" {
		return ctx
	}
	return context.WithValue(ctx, userIDKey, userID)
}

// TokenLocaleFromContext returns the locale claim of the verified token.
func TokenLocaleFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(tokenLocaleKey).(string); ok {
		return v
	}
	return ""
}
