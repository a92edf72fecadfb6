package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	fakeapprepo "github.com/resauth/go-auth-server/apps/repofake"
	"github.com/resauth/go-auth-server/internal/config"
	"github.com/resauth/go-auth-server/permissions"
	fakeresourcerepo "github.com/resauth/go-auth-server/resources/repofake"
	"github.com/resauth/go-auth-server/server"
	"github.com/resauth/go-auth-server/sessions"
	fakesessionrepo "github.com/resauth/go-auth-server/sessions/repofake"
	"github.com/resauth/go-auth-server/token"
	faketokenrepo "github.com/resauth/go-auth-server/token/repofake"
	fakeuserrepo "github.com/resauth/go-auth-server/users/repofake"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error running server: %s\n", err)
	}
	log.Printf("Server stopped\n")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	displayAppname(c.GetAppName())
	log.Printf("Authorize endpoint at %s%s\n", c.GetBaseURL(), "/authorize")

	srv, issuer, err := buildServer(c)
	if err != nil {
		return fmt.Errorf("buildServer: %w", err)
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: srv}

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go sweepExpiredCodes(sweepCtx, issuer, c.GetCodeSweepInterval())

	go listenAndServe(httpServer)
	waitForStopSignal()
	return shutdown(httpServer)
}

func buildServer(c config.Config) (*server.Server, *token.Issuer, error) {
	userRepo := fakeuserrepo.NewFakeUserRepo()
	appRepo := fakeapprepo.NewFakeAppRepo()
	resourceRepo := fakeresourcerepo.NewFakeResourceRepo()
	links := permissions.NewStore()

	gate, err := sessions.NewGate(userRepo, fakesessionrepo.NewFakeSessionRepo(), c.GetSessionTTL())
	if err != nil {
		return nil, nil, fmt.Errorf("sessions.NewGate: %w", err)
	}

	issuer, err := token.NewIssuer(faketokenrepo.NewFakeCodeRepo(), faketokenrepo.NewFakeTokenRepo(), c.GetAuthCodeTTL())
	if err != nil {
		return nil, nil, fmt.Errorf("token.NewIssuer: %w", err)
	}

	srv, err := server.New(c, server.Repos{
		Users:     userRepo,
		Apps:      appRepo,
		Resources: resourceRepo,
	}, links, gate, issuer)
	if err != nil {
		return nil, nil, fmt.Errorf("server.New: %w", err)
	}
	return srv, issuer, nil
}

// sweepExpiredCodes removes expired authorization codes on an interval so
// the code store does not grow without bound.
func sweepExpiredCodes(ctx context.Context, issuer *token.Issuer, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := issuer.PurgeExpired(ctx); err != nil {
				log.Printf("code sweep failed: %v\n", err)
			}
		}
	}
}

func listenAndServe(server *http.Server) error {
	log.Printf("Server listening on %s\n", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
