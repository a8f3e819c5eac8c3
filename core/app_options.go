package core

import (
	"fmt"
	"log/slog"

	"github.com/grouplet/grouplet/cache"
	"github.com/grouplet/grouplet/config"
	"github.com/grouplet/grouplet/db"
	"github.com/grouplet/grouplet/router"
)

// Option configures an App during construction.
type Option func(*App)

// WithDbApp wires all database roles from a single implementation.
func WithDbApp(dbApp db.DbApp) Option {
	return func(a *App) {
		a.dbAuth = dbApp
		a.dbSocial = dbApp
		a.dbQueue = dbApp
	}
}

func WithRouter(r router.Router) Option {
	return func(a *App) {
		a.router = r
	}
}

func WithCache(c cache.Cache[string, any]) Option {
	return func(a *App) {
		a.cache = c
	}
}

func WithConfigProvider(p *config.Provider) Option {
	return func(a *App) {
		a.configProvider = p
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		a.logger = l
	}
}

// WithAuthenticator overrides the default authenticator, mainly for tests.
func WithAuthenticator(auth Authenticator) Option {
	return func(a *App) {
		a.authenticator = auth
	}
}

func (a *App) checkRequirements() error {
	if a.dbAuth == nil || a.dbSocial == nil || a.dbQueue == nil {
		return fmt.Errorf("database is required but was not provided (use WithDbApp)")
	}
	if a.router == nil {
		return fmt.Errorf("router is required but was not provided (use WithRouter)")
	}
	if a.cache == nil {
		return fmt.Errorf("cache is required but was not provided (use WithCache)")
	}
	if a.configProvider == nil {
		return fmt.Errorf("config provider is required but was not provided (use WithConfigProvider)")
	}
	if a.logger == nil {
		return fmt.Errorf("logger is required but was not provided (use WithLogger)")
	}
	return nil
}
