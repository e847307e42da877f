package routes

import "strings"

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Public
	Home = "/"

	// Auth screens (guest only)
	Login          = "/login"
	Register       = "/register"
	ForgotPassword = "/forgot-password"
	ResetPassword  = "/reset-password"
	ConfirmEmail   = "/confirm-email"

	// User area
	UserHome       = "/user"
	UserBuyCredits = "/user/buy-credits"
	UserProfile    = "/user/profile"
	UserBilling    = "/user/billing"
	UserSearch     = "/user/search"

	// Payment return pages
	PaymentSuccess = "/payment/success"
	PaymentCancel  = "/payment/cancel"

	// Admin area
	Admin         = "/admin"
	AdminUsers    = "/admin/users"
	AdminPackages = "/admin/packages"
	AdminAdmins   = "/admin/admins"
	AdminLegacy   = "/admin/legacy"
)

// Query parameter names used by login redirects
const (
	QueryTab      = "tab"
	QueryRedirect = "redirect"
	TabLogin      = "login"
	TabRegister   = "register"
)

// API endpoint paths, relative to the API base
const (
	APIAuthPrefix        = "/auth/"
	APIAuthLogin         = "/auth/login"
	APIAuthRegister      = "/auth/register"
	APIAuthConfirmEmail  = "/auth/confirm-email"
	APIAuthForgot        = "/auth/reset-password/request"
	APIAuthResetPassword = "/auth/reset-password/confirm"
	APIProfile           = "/users/me"
	APICredits           = "/credits"
	APIPackages          = "/packages"
	APICheckout          = "/payments/checkout"
	APIInvoices          = "/payments/invoices"
	APISearch            = "/documents/search"
	APIAdminUsers        = "/admin/users"
	APIAdminAdmins       = "/admin/admins"
	APIAdminPackages     = "/admin/packages"
)

var authScreens = []string{Login, ForgotPassword, ResetPassword}

// IsAuthScreen reports whether path is one of the screens that show auth
// errors inline (login, forgot-password, reset-password).
func IsAuthScreen(path string) bool {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.TrimRight(path, "/")
	for _, s := range authScreens {
		if path == s {
			return true
		}
	}
	return false
}
