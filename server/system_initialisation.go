package server

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/resauth/go-auth-server/apps"
	"github.com/resauth/go-auth-server/internal/config"
	"github.com/resauth/go-auth-server/resources"
	"github.com/resauth/go-auth-server/users"
	"github.com/rs/zerolog/log"
)

const (
	demoUserID     = "1"
	demoAppID      = "1"
	demoResourceID = "1"
)

// InitialiseSystem seeds a demo user, app and resource with their trust
// links when SEED_DEMO is enabled, so a fresh server can run the whole
// flow end to end without any provisioning tooling.
func (s *Server) InitialiseSystem(_ context.Context, cfg config.Config) error {
	if !cfg.SeedDemoData() {
		return nil
	}

	if err := s.repos.Users.Upsert(&users.User{
		ID:        demoUserID,
		Username:  "demo",
		Password:  "demo",
		CreatedAt: time.Now(),
	}); err != nil {
		return errors.Wrap(err, "[InitialiseSystem] seed user")
	}

	if err := s.repos.Apps.Upsert(&apps.App{
		ID:     demoAppID,
		Name:   "Demo App",
		Secret: "demo-app-secret",
	}); err != nil {
		return errors.Wrap(err, "[InitialiseSystem] seed app")
	}

	if err := s.repos.Resources.Upsert(&resources.Resource{
		ID:   demoResourceID,
		Name: "Demo Resource",
	}); err != nil {
		return errors.Wrap(err, "[InitialiseSystem] seed resource")
	}

	s.links.LinkAppToUser(demoUserID, demoAppID)
	s.links.LinkResourceToApp(demoResourceID, demoAppID)

	log.Info().
		Str("user", "demo").
		Str("client_id", demoAppID).
		Str("resource_id", demoResourceID).
		Msg("seeded demo data")
	return nil
}
