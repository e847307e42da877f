package guards

import (
	"context"
	"strings"

	"github.com/jrsteele09/go-credits-portal/roles"
	"github.com/jrsteele09/go-credits-portal/routes"
)

// GuestOnly keeps signed-in users off the auth screens by sending them to
// their landing area. A navigation already inside that area is allowed so a
// redirect can never loop.
func GuestOnly(sess SessionReader) Guard {
	return GuardFunc(func(ctx context.Context, requestedURL string, _ []string) Decision {
		s := sess.Current(ctx)
		if !s.Authenticated() {
			return Allow()
		}
		fallback := guestFallback(s.User.CanonicalRole())
		if strings.HasPrefix(requestedURL, fallback) {
			return Allow()
		}
		d := RedirectTo(fallback, nil)
		logDenied("guest-only", requestedURL, d)
		return d
	})
}

func guestFallback(role roles.Role) string {
	if role == roles.SuperAdmin {
		return routes.Admin
	}
	return routes.UserBuyCredits
}
