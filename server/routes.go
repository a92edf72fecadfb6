package server

func (s *Server) initRoutes() {
	// Authorization flow. The original protocol drives the whole flow with
	// GET requests; the token step additionally accepts POST.
	s.RegisterRouteHandler("GET "+RouteLogin, ChainMiddleware(s.LoginHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteLogout, ChainMiddleware(s.LogoutHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteAuthorize, ChainMiddleware(s.AuthorizeHandler(), s.HTMLMiddleWare(s.SessionMiddleware)...))

	s.RegisterRouteHandler("GET "+RouteToken, ChainMiddleware(s.TokenHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteToken, ChainMiddleware(s.TokenHandler(), s.APIMiddleware()...))

	// Operational endpoints
	s.RegisterRouteHandler("GET "+RouteMetrics, s.collector.Handler())
	s.RegisterRouteFunc("GET "+RouteHealthz, s.HealthzHandler())
}
