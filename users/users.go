package users

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode"

	"github.com/jrsteele09/go-credits-portal/roles"
)

// User is the cached user record returned by the backend. Role is kept exactly
// as the backend sent it; use CanonicalRole for any access decision.
type User struct {
	ID        string    `json:"id,omitempty"`        // Unique identifier for the user
	Email     string    `json:"email,omitempty"`     // User's email address
	Role      string    `json:"role,omitempty"`      // Raw backend role, never mutated
	FirstName string    `json:"firstName,omitempty"` // First name of the user
	LastName  string    `json:"lastName,omitempty"`  // Last name of the user
	Company   string    `json:"company,omitempty"`   // Billing company name
	Credits   int       `json:"credits,omitempty"`   // Credit balance at the time of caching
	Verified  bool      `json:"verified,omitempty"`  // Email confirmed
	CreatedAt time.Time `json:"createdAt,omitempty"` // Registration time
}

// CanonicalRole normalizes the raw role. A nil user is treated as the lowest rank.
func (u *User) CanonicalRole() roles.Role {
	if u == nil {
		return roles.User
	}
	return roles.Normalize(u.Role)
}

// IsSuperAdmin returns true if the user has super admin privileges
func (u *User) IsSuperAdmin() bool {
	return u.CanonicalRole() == roles.SuperAdmin
}

// EmailKey is the lower-cased email used to key per-user caches.
func (u *User) EmailKey() string {
	if u == nil {
		return ""
	}
	return NormalizeEmail(u.Email)
}

func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail performs the same shallow check the registration form does.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("email %q is not valid", email)
	}
	return nil
}

// ValidatePasswordStrength checks if password meets security requirements:
// - At least 8 characters long
// - Contains uppercase and lowercase letters
// - Contains at least one number
func ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}

	var (
		hasUpper  bool
		hasLower  bool
		hasNumber bool
	)

	for _, char := range password {
		if unicode.IsUpper(char) {
			hasUpper = true
		} else if unicode.IsLower(char) {
			hasLower = true
		} else if unicode.IsDigit(char) {
			hasNumber = true
		}
	}

	if !hasUpper {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}
	if !hasLower {
		return fmt.Errorf("password must contain at least one lowercase letter")
	}
	if !hasNumber {
		return fmt.Errorf("password must contain at least one number")
	}

	return nil
}
