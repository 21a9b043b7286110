// Command translations browses and edits translation units grouped by
// source type, against a local database or a remote admin API.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/uptrace/bun"

	"github.com/andrevicentegoncalves/pulwave-sub000/internal/config"
	"github.com/andrevicentegoncalves/pulwave-sub000/internal/database"
	"github.com/andrevicentegoncalves/pulwave-sub000/internal/editor"
	"github.com/andrevicentegoncalves/pulwave-sub000/internal/gateway"
	"github.com/andrevicentegoncalves/pulwave-sub000/internal/locales"
	"github.com/andrevicentegoncalves/pulwave-sub000/internal/ratelimit"
	"github.com/andrevicentegoncalves/pulwave-sub000/internal/remote"
	"github.com/andrevicentegoncalves/pulwave-sub000/internal/store"
)

var configPath string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "translations",
		Short: "Browse and edit translations grouped by source",
		Long: `translations groups ui, schema, enum, content and master data
translations into a tree, shows which units miss a locale, and saves every
locale of a unit in one step.

Commands:
  migrate    Create or roll back the translation tables
  locales    List or sync the active locales
  catalog    List tables, columns, enums and records translations can target
  tree       Show the grouped translations
  edit       Edit every locale of one translation unit
  delete     Delete one translation record
  import-po  Import ui translations from gettext .po files`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&configPath, "config", os.Getenv("TRANSLATIONS_CONFIG"), "Path to the YAML config file")

	root.AddCommand(
		newMigrateCmd(),
		newLocalesCmd(),
		newCatalogCmd(),
		newTreeCmd(),
		newEditCmd(),
		newDeleteCmd(),
		newImportCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

// app bundles the configured gateway and locale registry for one command.
type app struct {
	cfg      config.Config
	gw       gateway.Gateway
	store    *store.Store
	db       *bun.DB
	registry *locales.Registry
}

func (a *app) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

func (a *app) editor(opts ...editor.Option) *editor.Editor {
	opts = append([]editor.Option{editor.WithMaxConcurrentWrites(a.cfg.Dispatch.MaxConcurrentWrites)}, opts...)
	return editor.New(a.gw, a.registry, opts...)
}

// requireStore fails for commands that need direct database access.
func (a *app) requireStore(name string) (*store.Store, error) {
	if a.store == nil {
		return nil, fmt.Errorf("%s needs a local database; unset remote.base_url", name)
	}
	return a.store, nil
}

// openApp loads configuration and connects to the remote API when one is
// configured, otherwise to the database. Locales load unless skipLocales.
func openApp(ctx context.Context, skipLocales bool) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg}

	var src locales.Source
	if cfg.Remote.Enabled() {
		client := remote.NewClient(cfg.Remote.BaseURL, cfg.Remote.Token, ratelimit.New(cfg.Remote.RateLimit))
		a.gw = client
		src = client
	} else {
		db, err := database.NewDB(cfg.Database.Driver, cfg.Database.DSN, cfg.Database.Debug)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		a.db = db
		a.store = store.New(db, cfg)
		a.gw = a.store
		src = a.store
	}

	if skipLocales {
		return a, nil
	}
	reg, err := locales.Load(ctx, src, cfg.Locales)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("load locales: %w", err)
	}
	a.registry = reg
	return a, nil
}
