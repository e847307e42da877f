package config

import (
	"strings"
	"time"
)

type UIConfig interface {
	GetAdminEmail() string
	GetToastDedupeWindow() time.Duration
	GetToastDuration() time.Duration
	GetToastPosition() string
	GetSubmitCooldown() time.Duration
	GetDefaultLanguage() string
}

type UI struct {
	AdminEmail      string        `env:"PORTAL_ADMIN_EMAIL"      envDefault:"admin@creditsportal.io"`
	ToastDedupe     time.Duration `env:"PORTAL_TOAST_DEDUPE"     envDefault:"1200ms"`
	ToastDuration   time.Duration `env:"PORTAL_TOAST_DURATION"   envDefault:"4s"`
	ToastPosition   string        `env:"PORTAL_TOAST_POSITION"   envDefault:"top-right"`
	SubmitCooldown  time.Duration `env:"PORTAL_SUBMIT_COOLDOWN"  envDefault:"2s"`
	DefaultLanguage string        `env:"PORTAL_DEFAULT_LANGUAGE" envDefault:"en"`
}

var _ UIConfig = UI{}

func (u UI) GetAdminEmail() string {
	return strings.TrimSpace(u.AdminEmail)
}

func (u UI) GetToastDedupeWindow() time.Duration {
	return u.ToastDedupe
}

func (u UI) GetToastDuration() time.Duration {
	return u.ToastDuration
}

func (u UI) GetToastPosition() string {
	return u.ToastPosition
}

func (u UI) GetSubmitCooldown() time.Duration {
	return u.SubmitCooldown
}

func (u UI) GetDefaultLanguage() string {
	return u.DefaultLanguage
}
