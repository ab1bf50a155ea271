package server

func (s *Server) initRoutes() {
	// LOGIN
	s.RegisterRouteFunc("POST "+RouteAuthLogin, ChainMiddleware(s.LoginHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteAuthLogout, ChainMiddleware(s.LogoutHandler(), s.APIMiddleware()...))

	// OAuth credential authorisation. Side-effecting, so POST only.
	s.RegisterRouteFunc("POST "+RouteOAuthAuthorise, ChainMiddleware(s.AuthoriseCredentials(), s.APIMiddleware()...))
}
