package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"listings_admin/internal/adapters/observability"
	"listings_admin/internal/app"
	"listings_admin/internal/shared"
	"listings_admin/internal/storage/sqlstore"
)

// env is shared by every subcommand of one root command.
type env struct {
	cfg   shared.Config
	store *sqlstore.Store
	svcs  *app.Services
}

func (e *env) open(ctx context.Context) error {
	if e.store != nil {
		return nil
	}
	st, err := sqlstore.Open(ctx, e.cfg.DBDriver, e.cfg.DBDSN)
	if err != nil {
		return err
	}
	e.store = st
	// the CLI always reads through to the database
	e.svcs = app.NewServices(st.Stores(), nil, e.cfg.CacheTTL)
	return nil
}

func (e *env) close() {
	if e.store != nil {
		_ = e.store.Close()
		e.store = nil
	}
}

// withStore opens the store for fn and closes it however fn returns.
func (e *env) withStore(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := e.open(cmd.Context()); err != nil {
			return err
		}
		defer e.close()
		return fn(cmd, args)
	}
}

func newRootCmd(e *env) *cobra.Command {
	root := &cobra.Command{
		Use:           "listingctl",
		Short:         "Listings admin maintenance tool",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := shared.Load()
			if err != nil {
				return err
			}
			e.cfg = cfg
			log.Logger = observability.NewLogger(cfg.AppEnv)
			return nil
		},
	}
	root.AddCommand(
		migrateCmd(e),
		seedCmd(e),
		importCmd(e),
		exportCmd(e),
	)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(&env{}).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
