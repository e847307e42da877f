package sessions

import (
	"github.com/jrsteele09/go-credits-portal/storage"
	"github.com/jrsteele09/go-credits-portal/users"
)

// Fixed storage keys
const (
	KeyAuthToken        = "auth_token"
	KeyLoggedInUser     = "loggedInUser"
	KeySelectedLanguage = "selectedLanguage"

	keyCreditsPrefix        = "credits_"
	keySearchHistoryPrefix  = "searchHistory_"
	keyBillingHistoryPrefix = "billingHistory_"

	maxSearchHistory = 10
)

// Session is a snapshot of the authenticated state. User is always nil when
// Token is empty, whatever is cached.
type Session struct {
	Token string        // Bearer credential
	User  *users.User   // Cached user record
	Scope storage.Scope // Which storage area holds the authoritative copy
}

func (s Session) Authenticated() bool {
	return s.Token != ""
}

func CreditsKey(email string) string {
	return keyCreditsPrefix + users.NormalizeEmail(email)
}

func SearchHistoryKey(email string) string {
	return keySearchHistoryPrefix + users.NormalizeEmail(email)
}

func BillingHistoryKey(email string) string {
	return keyBillingHistoryPrefix + users.NormalizeEmail(email)
}
