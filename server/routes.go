package server

import (
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) initRoutes() {
	s.RegisterRouteHandler("GET "+RouteHealth, ChainMiddleware(s.HealthHandler(), s.StdMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteMetrics, ChainMiddleware(
		promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}).ServeHTTP,
		s.StdMiddleware()...,
	))
	s.RegisterRouteHandler("GET "+RouteStatus, ChainMiddleware(s.StatusHandler(), s.StdMiddleware(s.CompressionMiddleware)...))
	s.RegisterRouteHandler("GET "+RouteToasts, ChainMiddleware(s.ToastsHandler(), s.StdMiddleware(s.CompressionMiddleware)...))
	s.RegisterRouteHandler("DELETE "+RouteToasts+"/{id}", ChainMiddleware(s.DismissToastHandler(), s.StdMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteNavigate, ChainMiddleware(s.NavigateHandler(), s.StdMiddleware()...))
}
