package guards

import (
	"context"
	"strings"

	"github.com/jrsteele09/go-credits-portal/roles"
	"github.com/jrsteele09/go-credits-portal/routes"
	"github.com/jrsteele09/go-credits-portal/toast"
)

const (
	MsgSignIn       = "Please sign in to continue."
	MsgNoPermission = "You don't have permission to access this page."
)

// RoleMinimum admits a navigation when the cached user's rank reaches the
// floor of the route's required roles (see roles.Satisfies). A token without a
// cached user is treated as failing any declared requirement.
func RoleMinimum(sess SessionReader, notifier toast.Notifier) Guard {
	return GuardFunc(func(ctx context.Context, requestedURL string, requiredRoles []string) Decision {
		s := sess.Current(ctx)
		if !s.Authenticated() {
			notifier.Info(MsgSignIn)
			d := loginRedirect(requestedURL)
			logDenied("role-minimum", requestedURL, d)
			return d
		}

		role := s.User.CanonicalRole()
		if s.User == nil {
			if len(requiredRoles) == 0 {
				return Allow()
			}
		} else if roles.Satisfies(requiredRoles, role) {
			return Allow()
		}

		notifier.Error(MsgNoPermission)
		fallback := roleFallback(role)
		if strings.HasPrefix(requestedURL, fallback) {
			return Allow()
		}
		d := RedirectTo(fallback, nil)
		logDenied("role-minimum", requestedURL, d)
		return d
	})
}

func roleFallback(role roles.Role) string {
	switch role {
	case roles.SuperAdmin:
		return routes.Admin
	default:
		return routes.UserBuyCredits
	}
}
