package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jotter/jotter/internal/backend"
	"github.com/jotter/jotter/pkg/logger"
)

const shutdownTimeout = 5 * time.Second

func (c *CLI) serveCommand() *cobra.Command {
	var listen, database string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a development backend",
		Long: `Run a backend serving the auth and notes RPCs over WebSocket and HTTP at /rpc.

Data is kept in a SQLite file, or in memory when the database is ":memory:".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.Server.Listen = listen
			}
			if database != "" {
				cfg.Server.Database = database
			}

			log, closeLog, err := logger.Open(logger.Options{
				Format: cfg.LogFormat,
				Level:  cfg.LogLevel,
				Writer: c.Err,
			})
			if err != nil {
				return err
			}
			defer closeLog()

			ctx := cmd.Context()
			store, err := openStore(ctx, cfg.Server.Database)
			if err != nil {
				return err
			}

			srv := backend.New(backend.Options{
				Store:    store,
				Secret:   []byte(cfg.Server.JWTSecret),
				TokenTTL: cfg.Server.TokenTTL,
				Logger:   log,
			})
			if cfg.Server.JWTSecret == "" {
				log.Warn("no jwt_secret configured, sessions end when the server stops")
			}
			if err := srv.Start(cfg.Server.Listen); err != nil {
				_ = store.Close()
				return fmt.Errorf("listen: %w", err)
			}
			fmt.Fprintf(c.Out, "Listening on ws://%s/rpc\n", srv.Address())

			<-ctx.Done()

			stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Stop(stopCtx)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "address to listen on")
	cmd.Flags().StringVar(&database, "db", "", `SQLite database path, ":memory:" for none`)
	return cmd
}

func openStore(ctx context.Context, path string) (backend.Store, error) {
	if path == "" || path == ":memory:" {
		return backend.NewMemoryStore(), nil
	}
	s, err := backend.OpenSQLite(ctx, path)
	if err != nil {
		return nil, err
	}
	return s, nil
}
