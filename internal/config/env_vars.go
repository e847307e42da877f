package config

import (
	"os"
	"strings"
)

type EnvConfig interface {
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
	GetStatusAddr() string
}

type EnvVars struct {
	AppName    string `env:"APP_NAME"           envDefault:"Credits Portal"`
	Env        string `env:"ENV"                envDefault:"DEV"`
	LogLevel   string `env:"LOG_LEVEL"          envDefault:"info"`
	StatusAddr string `env:"PORTAL_STATUS_ADDR" envDefault:":8090"`
}

var _ EnvConfig = EnvVars{}

func (e EnvVars) GetAppName() string {
	return e.AppName
}

func (e EnvVars) GetEnv() string {
	if e.Env == "" {
		return "DEV"
	}
	return e.Env
}

func (e EnvVars) GetLogLevel() string {
	return e.LogLevel
}

func (e EnvVars) GetStatusAddr() string {
	addr := e.StatusAddr
	if addr != "" && addr[0] != ':' && !strings.Contains(addr, ":") {
		addr = ":" + addr
	}
	return addr
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
