package guards

import "context"

// AuthRequired allows any navigation when a token is present and otherwise
// sends the user to the login tab, remembering where they were going.
func AuthRequired(sess SessionReader) Guard {
	return GuardFunc(func(ctx context.Context, requestedURL string, _ []string) Decision {
		if sess.Current(ctx).Authenticated() {
			return Allow()
		}
		d := loginRedirect(requestedURL)
		logDenied("auth-required", requestedURL, d)
		return d
	})
}
