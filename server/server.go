package server

import (
	"fmt"
	"net/http"

	"github.com/jrsteele09/go-credential-server/auth"
	"github.com/jrsteele09/go-credential-server/identity"
	"github.com/jrsteele09/go-credential-server/internal/config"
	"github.com/jrsteele09/go-credential-server/server/loginsession"
	"github.com/jrsteele09/go-credential-server/token"
	"github.com/rs/zerolog/log"
)

type Server struct {
	env           string // Environment (e.g., "DEV", "PROD")
	mux           *http.ServeMux
	routes        []string
	config        config.Config
	engine        *auth.Engine
	provider      identity.Provider
	identities    identity.Repo
	loginSessions loginsession.Repo
}

func New(config config.Config, repos auth.Repos, provider identity.Provider, identities identity.Repo, tokens token.Generator, loginSessionRepo loginsession.Repo) (*Server, error) {
	engine, err := auth.NewEngine(repos, provider, tokens, auth.WithStoreTimeout(config.GetStoreTimeout()))
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to create authorisation engine: %w", err)
	}
	if identities == nil {
		return nil, fmt.Errorf("[Server New] identity repo is required")
	}
	if loginSessionRepo == nil {
		return nil, fmt.Errorf("[Server New] login session repo is required")
	}

	s := &Server{
		mux:           http.NewServeMux(),
		config:        config,
		engine:        engine,
		provider:      provider,
		identities:    identities,
		loginSessions: loginSessionRepo,
	}
	s.env = config.GetEnv()

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	for _, route := range s.routes {
		log.Info().Str("route", route).Msg("registered route")
	}
}
