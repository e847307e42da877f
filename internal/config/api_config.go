package config

import (
	"strings"
	"time"
)

type APIConfig interface {
	GetAPIBaseURL() string
	GetHTTPTimeout() time.Duration
	GetAppURL() string
}

type API struct {
	BaseURL string        `env:"PORTAL_API_BASE_URL" envDefault:"http://localhost:3000/api"`
	Timeout time.Duration `env:"PORTAL_HTTP_TIMEOUT" envDefault:"15s"`
	AppURL  string        `env:"PORTAL_APP_URL"      envDefault:"http://localhost:4200"`
}

var _ APIConfig = API{}

// GetAPIBaseURL returns the REST API base without a trailing slash.
func (a API) GetAPIBaseURL() string {
	return strings.TrimRight(a.BaseURL, "/")
}

func (a API) GetHTTPTimeout() time.Duration {
	if a.Timeout <= 0 {
		return 15 * time.Second
	}
	return a.Timeout
}

// GetAppURL is the public origin of the storefront, used for payment return
// links.
func (a API) GetAppURL() string {
	return strings.TrimRight(a.AppURL, "/")
}
