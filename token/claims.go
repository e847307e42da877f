package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-credits-portal/internal/utils"
	"github.com/jrsteele09/go-credits-portal/roles"
	"github.com/jrsteele09/go-credits-portal/users"
)

// Claims is the subset of bearer token claims the client reads. The client
// never holds the signing key, so claims are informational only: the backend
// remains the authority on whether a token is valid.
type Claims struct {
	Subject   string    // Users unique ID
	Email     string    // Email claim
	Role      string    // Raw role claim
	IssuedAt  time.Time // Issued at time
	ExpiresAt time.Time // Zero when the token carries no exp
}

var ErrNotJWT = errors.New("token is not a JWT")

// Inspect decodes the claims of a JWT bearer token without verifying it.
// Opaque (non-JWT) tokens return ErrNotJWT.
func Inspect(rawToken string) (*Claims, error) {
	rawToken = strings.TrimSpace(rawToken)
	if strings.Count(rawToken, ".") != 2 {
		return nil, ErrNotJWT
	}

	parsed, _, err := jwtlib.NewParser().ParseUnverified(rawToken, jwtlib.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotJWT, err)
	}

	mc, ok := parsed.Claims.(jwtlib.MapClaims)
	if !ok {
		return nil, errors.New("error extracting claims")
	}

	c := &Claims{
		Email: stringClaim(mc, "email"),
		Role:  roleClaim(mc),
	}
	if sub, err := mc.GetSubject(); err == nil && sub != "" {
		c.Subject = sub
	} else {
		c.Subject = stringClaim(mc, "id")
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	if iat, err := mc.GetIssuedAt(); err == nil && iat != nil {
		c.IssuedAt = iat.Time
	}
	return c, nil
}

// Expired reports whether the exp claim is in the past. Tokens without exp never expire here.
func (c *Claims) Expired(now time.Time) bool {
	if c == nil || c.ExpiresAt.IsZero() {
		return false
	}
	return !now.Before(c.ExpiresAt)
}

// User builds a minimal user record from the claims, used when the login
// response omits the user object.
func (c *Claims) User() *users.User {
	if c == nil {
		return nil
	}
	return &users.User{
		ID:    c.Subject,
		Email: c.Email,
		Role:  c.Role,
	}
}

func stringClaim(mc jwtlib.MapClaims, key string) string {
	if v, ok := mc[key].(string); ok {
		return v
	}
	return ""
}

func roleClaim(mc jwtlib.MapClaims) string {
	if r := stringClaim(mc, "role"); r != "" {
		return r
	}
	list, ok := mc["roles"].([]any)
	if !ok {
		return ""
	}
	best, bestRank := "", -1
	for _, s := range utils.ToStringSlice(list) {
		if s == "" {
			continue
		}
		if rank := roles.RankOf(roles.Normalize(s)); rank > bestRank {
			best, bestRank = s, rank
		}
	}
	return best
}
