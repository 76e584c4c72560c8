package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/sagarc03/cfgchain"
	"github.com/sagarc03/cfgchain/config"
	"github.com/sagarc03/cfgchain/database"
	"github.com/sagarc03/cfgchain/definition"
	"github.com/sagarc03/cfgchain/session"
)

var errDatabaseDisabled = errors.New("persistent instance variables need database.enabled")

// openSession builds the session described by cfg. The returned cleanup
// closes the database connection, if any.
func openSession(ctx context.Context, cfg *config.Config) (*session.Session, func(), error) {
	opts := []session.Option{session.WithLogger(slog.Default())}
	cleanup := func() {}

	if cfg.Session.Definitions != "" {
		table, err := definition.Load(cfg.Session.Definitions)
		if err != nil {
			return nil, nil, fmt.Errorf("load definitions: %w", err)
		}
		mapping, err := table.Extend(cfgchain.DefaultConfigMapping)
		if err != nil {
			return nil, nil, fmt.Errorf("load definitions: %w", err)
		}
		opts = append(opts, session.WithMapping(session.MappingFunc(mapping)))
		slog.Debug("definitions loaded", "path", cfg.Session.Definitions, "variables", len(table.Variables))
	}

	if cfg.Session.Profile != "" {
		opts = append(opts, session.WithProfile(cfg.Session.Profile))
	}
	if cfg.Session.ConfigFile != "" {
		opts = append(opts, session.WithConfigFile(cfg.Session.ConfigFile))
	}

	if cfg.Database.Enabled {
		repo, closeDB, err := database.Connect(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connect database: %w", err)
		}
		opts = append(opts, session.WithVariableRepo(repo, cfg.Session.Name))
		cleanup = closeDB
		slog.Debug("connected to database", "type", cfg.Database.Type, "session", cfg.Session.Name)
	}

	return session.New(opts...), cleanup, nil
}

// parseValue reads a command-line value as a YAML scalar or flow collection,
// so "false" is a bool and "3" an int. raw keeps it as a string.
func parseValue(s string, raw bool) (any, error) {
	if raw {
		return s, nil
	}
	var v any
	if err := yaml.Unmarshal([]byte(s), &v); err != nil {
		return nil, fmt.Errorf("parse value %q: %w", s, err)
	}
	if v == nil && s != "null" && s != "~" {
		// An empty argument is an empty string, not null.
		return s, nil
	}
	return v, nil
}
