package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/resauth/go-auth-server/apps"
	"github.com/resauth/go-auth-server/auth"
	"github.com/resauth/go-auth-server/internal/config"
	"github.com/resauth/go-auth-server/internal/metrics"
	"github.com/resauth/go-auth-server/permissions"
	"github.com/resauth/go-auth-server/resources"
	"github.com/resauth/go-auth-server/sessions"
	"github.com/resauth/go-auth-server/token"
	"github.com/resauth/go-auth-server/users"
)

// Repos holds the entity repositories the server wires together.
type Repos struct {
	Users     users.Repo
	Apps      apps.Repo
	Resources resources.Repo
}

type Server struct {
	env       string // Environment (e.g. "DEV", "production")
	mux       *http.ServeMux
	routes    []string
	config    config.Config
	flow      *auth.FlowService
	gate      *sessions.Gate
	issuer    *token.Issuer
	repos     Repos
	links     *permissions.Store
	collector *metrics.PromCollector
}

func New(cfg config.Config, repos Repos, links *permissions.Store, gate *sessions.Gate, issuer *token.Issuer) (*Server, error) {
	collector := metrics.NewCollector()

	flowService, err := auth.NewFlowService(
		auth.Repos{Users: repos.Users, Apps: repos.Apps, Resources: repos.Resources},
		gate,
		links,
		issuer,
		auth.WithMetrics(collector),
	)
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to create flow service: %w", err)
	}

	s := &Server{
		env:       cfg.GetEnv(),
		mux:       http.NewServeMux(),
		config:    cfg,
		flow:      flowService,
		gate:      gate,
		issuer:    issuer,
		repos:     repos,
		links:     links,
		collector: collector,
	}

	// Bootstrap: seed a demo user, app and resource when configured
	if err := s.InitialiseSystem(context.Background(), cfg); err != nil {
		return nil, fmt.Errorf("[Server New] failed to initialise the system: %w", err)
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Printf("[%-19s] %s\n", displayMethod, path)
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
