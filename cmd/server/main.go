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
	"github.com/jrsteele09/go-credential-server/internal/config"
	"github.com/jrsteele09/go-credential-server/server"
	"github.com/jrsteele09/go-credential-server/server/loginsession"
	"github.com/jrsteele09/go-credential-server/token"
	"github.com/jrsteele09/go-credential-server/token/jwtgen"
	"github.com/jrsteele09/go-credential-server/token/opaque"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Fatalf("Error running server: %s\n", err)
			time.Sleep(1 * time.Second)
		} else {
			break
		}
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

	repos, provider, identities, err := bootstrapStores(c)
	if err != nil {
		return fmt.Errorf("bootstrapStores: %w", err)
	}

	srv, err := server.New(c, repos, provider, identities, tokenGenerator(c), loginsession.NewInMemoryLoginSessionRepo())
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: srv}
	go listenAndServe(httpServer)
	waitForStopSignal()
	returnError = shutdown(httpServer)
	return returnError
}

func tokenGenerator(c config.Config) token.Generator {
	secret := c.GetSigningSecret()
	if secret == "" {
		return opaque.New()
	}

	generator, err := jwtgen.New([]byte(secret), c.GetIssuer(), c.GetAudience())
	if err != nil {
		log.Printf("jwtgen unavailable, falling back to opaque tokens: %s\n", err)
		return opaque.New()
	}
	return generator
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
