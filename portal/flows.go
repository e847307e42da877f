package portal

import (
	"context"
	"net/url"
	"path"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-credits-portal/api"
	perrors "github.com/jrsteele09/go-credits-portal/internal/errors"
	"github.com/jrsteele09/go-credits-portal/roles"
	"github.com/jrsteele09/go-credits-portal/routes"
	"github.com/jrsteele09/go-credits-portal/token"
	"github.com/jrsteele09/go-credits-portal/users"
)

const (
	actionLogin    = "login"
	actionRegister = "register"
	actionForgot   = "forgot-password"
	actionReset    = "reset-password"
	actionBuy      = "buy"

	MsgCooldown       = "Please wait a moment before trying again."
	MsgInvalidEmail   = "Please enter a valid email address."
	MsgSignedIn       = "Welcome back!"
	MsgSignedOut      = "You have been signed out."
	MsgRegistered     = "Account created. Check your inbox to confirm your email."
	MsgEmailConfirmed = "Email confirmed. You can now sign in."
	MsgResetSent      = "If an account exists for that address, a reset link is on its way."
	MsgPasswordReset  = "Password updated. Please sign in."
	MsgEmptySearch    = "Enter something to search for."
)

var loginScreen = routes.Login + "?" + url.Values{routes.QueryTab: {routes.TabLogin}}.Encode()

func (a *App) gate(action string) error {
	if err := a.cooldown.Try(action); err != nil {
		a.Toasts.Info(MsgCooldown)
		return err
	}
	return nil
}

// Login signs in and navigates to the page the user was sent away from, or
// to their landing area.
func (a *App) Login(ctx context.Context, email, password string, remember bool) (string, error) {
	if err := a.gate(actionLogin); err != nil {
		return "", err
	}
	if err := users.ValidateEmail(email); err != nil {
		a.Toasts.Error(MsgInvalidEmail)
		return "", perrors.Wrapf(perrors.ErrInvalidRequest, "%v", err)
	}
	pending := a.pendingRedirect()

	resp, err := a.API.Login(ctx, email, password)
	if err != nil {
		return "", err
	}
	tok := resp.BearerToken()
	if tok == "" {
		return "", perrors.Wrapf(perrors.ErrNoToken, "login response")
	}

	user := resp.User
	if user == nil {
		if claims, err := token.Inspect(tok); err == nil {
			user = claims.User()
		}
	}
	if err := a.Session.Login(ctx, tok, user, remember); err != nil {
		return "", err
	}
	if user == nil || user.Email == "" {
		if profile, err := a.API.Profile(ctx); err == nil {
			user = profile
			if err := a.Session.SetUser(ctx, user); err != nil {
				log.Warn().Err(err).Msg("Caching profile")
			}
		} else {
			log.Warn().Err(err).Msg("Fetching profile after login")
		}
	}
	if user != nil && user.Email != "" {
		if err := a.Session.SetCredits(ctx, user.Email, user.Credits); err != nil {
			log.Warn().Err(err).Msg("Caching credits")
		}
	}

	log.Info().Str("email", users.NormalizeEmail(email)).Bool("remember", remember).Msg("Signed in")
	a.Toasts.Success(MsgSignedIn)

	target := pending
	if target == "" {
		target = landingFor(user)
	}
	return a.Router.Navigate(ctx, target)
}

func (a *App) Logout(ctx context.Context) (string, error) {
	if err := a.Session.Logout(ctx); err != nil {
		return "", err
	}
	a.Toasts.Success(MsgSignedOut)
	return a.Router.Navigate(ctx, loginScreen)
}

func (a *App) Register(ctx context.Context, req api.RegisterRequest) (string, error) {
	if err := a.gate(actionRegister); err != nil {
		return "", err
	}
	if err := users.ValidateEmail(req.Email); err != nil {
		a.Toasts.Error(MsgInvalidEmail)
		return "", perrors.Wrapf(perrors.ErrInvalidRequest, "%v", err)
	}
	if err := users.ValidatePasswordStrength(req.Password); err != nil {
		a.Toasts.Error(err.Error())
		return "", perrors.Wrapf(perrors.ErrInvalidRequest, "%v", err)
	}

	msg, err := a.API.Register(ctx, req)
	if err != nil {
		return "", err
	}
	if msg == "" {
		msg = MsgRegistered
	}
	a.Toasts.Success(msg)
	return a.Router.Navigate(ctx, loginScreen)
}

func (a *App) ConfirmEmail(ctx context.Context, confirmToken string) (string, error) {
	if strings.TrimSpace(confirmToken) == "" {
		return "", perrors.Wrapf(perrors.ErrInvalidRequest, "missing confirmation token")
	}
	if err := a.API.ConfirmEmail(ctx, confirmToken); err != nil {
		return "", err
	}
	a.Toasts.Success(MsgEmailConfirmed)
	return a.Router.Navigate(ctx, loginScreen)
}

func (a *App) ForgotPassword(ctx context.Context, email string) error {
	if err := a.gate(actionForgot); err != nil {
		return err
	}
	if err := users.ValidateEmail(email); err != nil {
		a.Toasts.Error(MsgInvalidEmail)
		return perrors.Wrapf(perrors.ErrInvalidRequest, "%v", err)
	}
	if err := a.API.ForgotPassword(ctx, email); err != nil {
		return err
	}
	a.Toasts.Success(MsgResetSent)
	return nil
}

func (a *App) ResetPassword(ctx context.Context, resetToken, password string) (string, error) {
	if err := a.gate(actionReset); err != nil {
		return "", err
	}
	if err := users.ValidatePasswordStrength(password); err != nil {
		a.Toasts.Error(err.Error())
		return "", perrors.Wrapf(perrors.ErrInvalidRequest, "%v", err)
	}
	if err := a.API.ResetPassword(ctx, resetToken, password); err != nil {
		return "", err
	}
	a.Toasts.Success(MsgPasswordReset)
	return a.Router.Navigate(ctx, loginScreen)
}

// RefreshProfile reloads the signed-in user's record into the session.
func (a *App) RefreshProfile(ctx context.Context) error {
	u, err := a.API.Profile(ctx)
	if err != nil {
		return err
	}
	if err := a.Session.SetUser(ctx, u); err != nil {
		return err
	}
	return a.Session.SetCredits(ctx, u.Email, u.Credits)
}

// pendingRedirect returns the page a guard sent the user away from, if the
// app is currently on the login screen with one.
func (a *App) pendingRedirect() string {
	u, err := url.Parse(a.Router.Current())
	if err != nil || path.Clean("/"+u.Path) != routes.Login {
		return ""
	}
	r := u.Query().Get(routes.QueryRedirect)
	if !strings.HasPrefix(r, "/") || strings.HasPrefix(r, "//") {
		return ""
	}
	return r
}

func (a *App) landing(ctx context.Context) string {
	s := a.Session.Current(ctx)
	if !s.Authenticated() {
		return routes.Home
	}
	return landingFor(s.User)
}

func landingFor(u *users.User) string {
	if u.CanonicalRole() == roles.SuperAdmin {
		return routes.Admin
	}
	return routes.UserBuyCredits
}
