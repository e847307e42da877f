package router

import (
	"github.com/jrsteele09/go-credits-portal/guards"
	"github.com/jrsteele09/go-credits-portal/roles"
	"github.com/jrsteele09/go-credits-portal/routes"
	"github.com/jrsteele09/go-credits-portal/toast"
)

// NewApp builds the storefront's route table. Unknown paths land on Home.
func NewApp(sess guards.SessionReader, notifier toast.Notifier, adminEmail string) *Router {
	r := New(routes.Home)

	guestOnly := guards.GuestOnly(sess)
	authRequired := guards.AuthRequired(sess)
	roleMinimum := guards.RoleMinimum(sess, notifier)
	allowlist := guards.EmailAllowlist(sess, adminEmail)

	r.Register(Route{Path: routes.Home, Title: "Credits Portal"})

	for path, title := range map[string]string{
		routes.Login:          "Sign in",
		routes.Register:       "Create account",
		routes.ForgotPassword: "Forgot password",
		routes.ResetPassword:  "Reset password",
		routes.ConfirmEmail:   "Confirm email",
	} {
		r.Register(Route{Path: path, Title: title, Guards: []guards.Guard{guestOnly}})
	}

	user := []string{roles.User.String()}
	for path, title := range map[string]string{
		routes.UserHome:       "Dashboard",
		routes.UserBuyCredits: "Buy credits",
		routes.UserProfile:    "Profile",
		routes.UserBilling:    "Billing",
		routes.UserSearch:     "Search",
	} {
		r.Register(Route{Path: path, Title: title, Guards: []guards.Guard{authRequired}, RequiredRoles: user})
	}

	r.Register(Route{Path: routes.PaymentSuccess, Title: "Payment complete", Guards: []guards.Guard{authRequired}})
	r.Register(Route{Path: routes.PaymentCancel, Title: "Payment cancelled", Guards: []guards.Guard{authRequired}})

	admin := []string{roles.AdminUser.String()}
	for path, title := range map[string]string{
		routes.Admin:         "Admin",
		routes.AdminUsers:    "Users",
		routes.AdminPackages: "Packages",
	} {
		r.Register(Route{Path: path, Title: title, Guards: []guards.Guard{roleMinimum}, RequiredRoles: admin})
	}
	r.Register(Route{
		Path:          routes.AdminAdmins,
		Title:         "Administrators",
		Guards:        []guards.Guard{roleMinimum},
		RequiredRoles: []string{roles.SuperAdmin.String()},
	})
	r.Register(Route{Path: routes.AdminLegacy, Title: "Legacy admin", Guards: []guards.Guard{allowlist}})

	return r
}
