package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Authorization flow routes
	RouteLogin     = "/login"
	RouteLogout    = "/logout"
	RouteAuthorize = "/authorize"
	RouteToken     = "/token"

	// Operational routes
	RouteMetrics = "/metrics"
	RouteHealthz = "/healthz"
)
