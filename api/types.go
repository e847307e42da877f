package api

import "github.com/jrsteele09/go-credits-portal/users"

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the bearer token, either as "token" or in the
// OAuth2 token-endpoint shape. Some backend versions omit the user record;
// callers fall back to the token's claims.
type LoginResponse struct {
	Token string `json:"token"`

	// AccessToken is the OAuth2 form of Token.
	AccessToken string `json:"access_token,omitempty"`

	// TokenType is always "bearer" when present.
	TokenType string `json:"token_type,omitempty"`

	// ExpiresIn is a hint in seconds; the exp claim is authoritative.
	ExpiresIn int `json:"expires_in,omitempty"`

	User *users.User `json:"user,omitempty"`
}

// BearerToken returns whichever token field the backend filled in.
func (r *LoginResponse) BearerToken() string {
	if r.Token != "" {
		return r.Token
	}
	return r.AccessToken
}

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Company   string `json:"company,omitempty"`
}

type ProfileUpdate struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Company   *string `json:"company,omitempty"`
}

// Package is a purchasable bundle of credits. Price is in minor units.
type Package struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Credits  int    `json:"credits"`
	Price    int64  `json:"price"`
	Currency string `json:"currency"`
	Active   bool   `json:"active"`
}

type CheckoutRequest struct {
	PackageID  string `json:"packageId"`
	SuccessURL string `json:"successUrl,omitempty"`
	CancelURL  string `json:"cancelUrl,omitempty"`
}

type Document struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	Snippet string  `json:"snippet,omitempty"`
	Score   float64 `json:"score,omitempty"`
}

type AdminRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type message struct {
	Message string `json:"message,omitempty"`
}
