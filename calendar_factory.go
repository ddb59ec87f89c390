package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"go.uber.org/zap"
)

// CalendarFactory builds the configured calendar provider.
type CalendarFactory struct {
	config *Config
	keys   *KeyFile
	db     *sql.DB
	logger *zap.Logger
	in     io.Reader
	out    io.Writer
}

func NewCalendarFactory(config *Config, keys *KeyFile, db *sql.DB, logger *zap.Logger, in io.Reader, out io.Writer) *CalendarFactory {
	return &CalendarFactory{
		config: config,
		keys:   keys,
		db:     db,
		logger: logger,
		in:     in,
		out:    out,
	}
}

// Session builds the Google OAuth session backed by the token store.
func (cf *CalendarFactory) Session() (*Session, error) {
	oauthConfig, err := newOAuthConfig(cf.config, cf.keys.scopes())
	if err != nil {
		return nil, err
	}
	return NewSession(oauthConfig, NewTokenStore(cf.db), cf.config.Google.Account, webAuthorizer(cf.in, cf.out), cf.logger), nil
}

func (cf *CalendarFactory) CreateCalendarProvider(ctx context.Context) (CalendarProvider, error) {
	switch cf.config.General.Provider {
	case "", "google":
		session, err := cf.Session()
		if err != nil {
			return nil, err
		}
		client, err := session.Client(ctx)
		if err != nil {
			return nil, err
		}
		return NewGoogleCalendarProvider(ctx, client)

	case "caldav":
		server := cf.config.CalDAV
		if server.ServerURL == "" {
			return nil, &SyncError{Kind: KindConfig, Op: "caldav provider", Err: fmt.Errorf("server_url is not set in [caldav]")}
		}
		return NewCalDAVProvider(ctx, server.ServerURL, server.Username, server.Password)

	default:
		return nil, &SyncError{Kind: KindConfig, Op: "calendar provider", Err: fmt.Errorf("unsupported provider type: %s", cf.config.General.Provider)}
	}
}
