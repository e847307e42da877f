package server

// Status server paths
const (
	RouteHealth   = "/healthz"
	RouteMetrics  = "/metrics"
	RouteStatus   = "/status"
	RouteNavigate = "/navigate"
	RouteToasts   = "/toasts"

	QueryNavigateTo = "to"
)
