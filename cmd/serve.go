package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/scroll/internal/auth"
	"github.com/desertthunder/scroll/internal/repositories"
	"github.com/desertthunder/scroll/internal/server"
	"github.com/desertthunder/scroll/internal/shared"
	"github.com/desertthunder/scroll/internal/static"
	"github.com/urfave/cli/v3"
)

// Serve opens the database, builds the static route table and runs the HTTP server until ctx ends.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	if cmd.IsSet("port") {
		config.Server.Port = cmd.Int("port")
	}
	if cmd.IsSet("host") {
		config.Server.Host = cmd.String("host")
	}
	if cmd.IsSet("public") {
		config.Static.Dir = cmd.String("public")
	}

	if config.Auth.Secret == "" {
		r.logger.Warn("JWT_SECRET is not set, logins will fail")
	}

	db, err := r.openDatabase(ctx, config)
	if err != nil {
		return err
	}
	defer db.Close()

	table, err := static.Build(config.Static.Dir)
	if err != nil {
		return fmt.Errorf("failed to build static routes: %w", err)
	}
	r.logger.Info("static routes ready", "dir", config.Static.Dir, "routes", table.Len())
	for _, p := range table.Paths() {
		r.logger.Debug("static route", "path", p)
	}

	handler := server.New(server.Options{
		Logger:       shared.WithLogger(r.logger, "component", "http"),
		Static:       table,
		Users:        repositories.NewUserRepository(db),
		Notes:        repositories.NewNoteRepository(db),
		Hasher:       auth.NewHasher(),
		Tokens:       auth.NewTokenCodec(config.Auth.Secret, config.Auth.TTL()),
		CookieName:   config.Auth.CookieName,
		SecureCookie: config.Auth.SecureCookie,
		MaxBodyBytes: config.Server.MaxBodyBytes,
		RateLimit:    config.Server.RateLimit,
		RateBurst:    config.Server.RateBurst,
	})

	ln, err := server.Listen(ctx, config.Server.Host, config.Server.Port, config.Server.PortAttempts, r.logger)
	if err != nil {
		return err
	}

	return server.Serve(ctx, ln, handler, r.logger)
}
