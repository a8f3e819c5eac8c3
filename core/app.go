package core

import (
	"log/slog"

	"github.com/grouplet/grouplet/cache"
	"github.com/grouplet/grouplet/config"
	"github.com/grouplet/grouplet/db"
	"github.com/grouplet/grouplet/router"
)

// App is the application wide context.
// db connections and permanent structs go here.
//
// All handlers and middleware have App as receiver so they share the same
// heavy objects.
type App struct {
	dbAuth         db.DbAuth
	dbSocial       db.DbSocial
	dbQueue        db.DbQueue
	router         router.Router
	cache          cache.Cache[string, any]
	configProvider *config.Provider
	logger         *slog.Logger
	authenticator  Authenticator
	validator      Validator
}

func NewApp(opts ...Option) (*App, error) {
	a := &App{}
	for _, opt := range opts {
		opt(a)
	}

	if err := a.checkRequirements(); err != nil {
		return nil, err
	}

	if a.validator == nil {
		a.validator = NewValidator()
	}
	if a.authenticator == nil {
		a.authenticator = NewDefaultAuthenticator(a.dbAuth, a.cache, a.logger, a.configProvider)
	}

	return a, nil
}

// Router returns the application's router instance
func (a *App) Router() router.Router {
	return a.router
}

func (a *App) DbAuth() db.DbAuth {
	return a.dbAuth
}

func (a *App) DbSocial() db.DbSocial {
	return a.dbSocial
}

func (a *App) DbQueue() db.DbQueue {
	return a.dbQueue
}

func (a *App) Logger() *slog.Logger {
	return a.logger
}

func (a *App) Cache() cache.Cache[string, any] {
	return a.cache
}

// Config returns the current configuration snapshot.
func (a *App) Config() *config.Config {
	return a.configProvider.Get()
}

func (a *App) Validator() Validator {
	return a.validator
}

func (a *App) Authenticator() Authenticator {
	return a.authenticator
}
