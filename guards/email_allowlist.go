package guards

import (
	"context"
	"strings"

	"github.com/jrsteele09/go-credits-portal/routes"
)

// EmailAllowlist admits only the single configured address. It is an identity
// check and ignores roles entirely.
func EmailAllowlist(sess SessionReader, allowedEmail string) Guard {
	allowedEmail = strings.TrimSpace(allowedEmail)
	return GuardFunc(func(ctx context.Context, requestedURL string, _ []string) Decision {
		s := sess.Current(ctx)
		if !s.Authenticated() {
			d := RedirectTo(routes.Login, nil)
			logDenied("email-allowlist", requestedURL, d)
			return d
		}
		if s.User != nil && allowedEmail != "" && strings.EqualFold(strings.TrimSpace(s.User.Email), allowedEmail) {
			return Allow()
		}
		d := RedirectTo(routes.UserHome, nil)
		logDenied("email-allowlist", requestedURL, d)
		return d
	})
}
