package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/clepbridge/clepbridge/internal/rbac"
)

const DefaultRole = "learner"

// Verifier checks access tokens minted by the hosted auth provider.
// Tokens are HS256 with a shared secret and an audience claim.
type Verifier struct {
	hmac     []byte
	audience string
}

func NewVerifier(secret, audience string) *Verifier {
	return &Verifier{hmac: []byte(secret), audience: audience}
}

type Claims struct {
	Email string `json:"email,omitempty"`
	// Role is the provider's own role ("authenticated"); the application
	// role lives in app_metadata.
	Role        string `json:"role,omitempty"`
	AppMetadata struct {
		Role string `json:"role,omitempty"`
	} `json:"app_metadata"`
	jwt.RegisteredClaims
}

// AppRole is the rbac role carried by the token.
func (c *Claims) AppRole() string {
	if r := strings.TrimSpace(c.AppMetadata.Role); r != "" {
		return r
	}
	return DefaultRole
}

func (v *Verifier) Parse(tokenStr string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return v.hmac, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	c, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if c.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return c, nil
}

// JWTMiddleware rejects requests without a valid bearer token and stores the
// principal and its role in the request context.
func JWTMiddleware(v *Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
				http.Error(w, "missing bearer", http.StatusUnauthorized)
				return
			}
			claims, err := v.Parse(strings.TrimSpace(h[7:]))
			if err != nil {
				http.Error(w, "bad token", http.StatusUnauthorized)
				return
			}
			role := claims.AppRole()
			ctx := WithPrincipal(r.Context(), Principal{Subject: claims.Subject, Email: claims.Email, Role: role})
			ctx = rbac.WithRole(ctx, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
