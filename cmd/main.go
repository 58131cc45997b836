package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/desertthunder/harmony/internal/services"
	"github.com/desertthunder/harmony/internal/session"
	"github.com/desertthunder/harmony/internal/shared"
	"github.com/urfave/cli/v3"
)

// sessionCookieSource builds the store's cookie hydration source for the auth
// origin. Query-mode deployments deliver the token in the callback URL, so
// only cookie mode reads the jar.
func sessionCookieSource(mode shared.AuthMode, jar http.CookieJar, authURL string) session.CookieSource {
	if mode != shared.AuthModeCookie || jar == nil {
		return nil
	}
	origin, err := url.Parse(authURL)
	if err != nil {
		return nil
	}
	return session.NewJarCookieSource(jar, origin)
}

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	configPath := "config.toml"
	if _, err := os.Stat(configPath); err != nil {
		configPath = filepath.Join(shared.HarmonyDir(), "config.toml")
	}
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		} else {
			logger.Warnf("failed to load config, using defaults %v", err)
		}
	}

	sessionPath := config.Auth.SessionPath
	if sessionPath == "" {
		sessionPath = filepath.Join(shared.HarmonyDir(), "session.json")
	}

	// The jar is built here rather than inside the service so the store can
	// hydrate from a server-set cookie through the same client.
	var cookies session.CookieSource
	httpClient := http.DefaultClient
	if jar, err := cookiejar.New(nil); err == nil {
		httpClient = &http.Client{Jar: jar, Timeout: 30 * time.Second}
		cookies = sessionCookieSource(config.Auth.Mode, jar, config.API.AuthURL)
	} else {
		logger.Warnf("failed to create cookie jar %v", err)
	}

	store := session.NewFileStore(sessionPath, cookies, logger)
	bus := session.NewBus()
	resolver := session.NewResolver(store, bus, logger)

	watcher := session.NewWatcher(sessionPath, bus, logger, 0)
	watcher.Start()
	defer watcher.Close()

	var svc services.Service
	if harmony, err := services.NewHarmonyService(config.API, store, httpClient); err == nil {
		svc = harmony
	} else {
		logger.Warnf("harmony service unavailable %v", err)
	}

	apiService := services.NewAPIService(config.API.MusicURL, httpClient)

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Service:    svc,
		API:        apiService,
		Store:      store,
		Bus:        bus,
		Resolver:   resolver,
		HTTPClient: httpClient,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "harmony",
		Usage:    "Browse, sync & publish music on the Harmony streaming service",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
