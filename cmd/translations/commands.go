package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/andrevicentegoncalves/pulwave-sub000/internal/editing"
	"github.com/andrevicentegoncalves/pulwave-sub000/internal/editor"
	"github.com/andrevicentegoncalves/pulwave-sub000/internal/gateway"
	"github.com/andrevicentegoncalves/pulwave-sub000/internal/grouping"
	"github.com/andrevicentegoncalves/pulwave-sub000/internal/importer"
	"github.com/andrevicentegoncalves/pulwave-sub000/internal/migrations"
	"github.com/andrevicentegoncalves/pulwave-sub000/internal/models"
	"github.com/andrevicentegoncalves/pulwave-sub000/internal/viewmodel"
)

func newMigrateCmd() *cobra.Command {
	var rollback bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the translation tables, or roll back the last migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer a.Close()
			if _, err := a.requireStore("migrate"); err != nil {
				return err
			}
			if rollback {
				return migrations.Rollback(cmd.Context(), a.db)
			}
			return migrations.RunMigrations(cmd.Context(), a.db)
		},
	}
	cmd.Flags().BoolVar(&rollback, "rollback", false, "Roll back the last migration group")
	return cmd
}

func newLocalesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "locales",
		Short: "List the active locales",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer a.Close()
			out := cmd.OutOrStdout()
			for i, l := range a.registry.Locales() {
				fmt.Fprintf(out, "%d. %s\t%s\n", i+1, l.Code, l.Name)
			}
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "sync",
		Short: "Store the configured locales in the locales table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer a.Close()
			st, err := a.requireStore("locales sync")
			if err != nil {
				return err
			}
			locs := make([]models.Locale, 0, len(a.cfg.Locales))
			for i, code := range a.cfg.Locales {
				name := display.English.Tags().Name(language.Make(code))
				if name == "" {
					name = code
				}
				locs = append(locs, models.Locale{Code: code, Name: name, Position: i, IsActive: true})
			}
			if err := st.SaveLocales(cmd.Context(), locs); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Synced %d locales\n", len(locs))
			return nil
		},
	})
	return cmd
}

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List what translations can target",
	}

	list := func(use, short string, nargs int, fn func(cmd *cobra.Command, a *app, args []string) ([]string, error)) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.ExactArgs(nargs),
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := openApp(cmd.Context(), true)
				if err != nil {
					return err
				}
				defer a.Close()
				lines, err := fn(cmd, a, args)
				if err != nil {
					return err
				}
				for _, l := range lines {
					fmt.Fprintln(cmd.OutOrStdout(), l)
				}
				return nil
			},
		}
	}

	var limit int
	records := list("records <table>", "List records of a table for content translations", 1,
		func(cmd *cobra.Command, a *app, args []string) ([]string, error) {
			recs, err := a.gw.ListRecordsForContentTarget(cmd.Context(), args[0], limit)
			if err != nil {
				return nil, err
			}
			lines := make([]string, len(recs))
			for i, r := range recs {
				lines[i] = r.ID + "\t" + r.Label
			}
			return lines, nil
		})
	records.Flags().IntVar(&limit, "limit", 50, "Maximum number of records")

	cmd.AddCommand(
		list("tables", "List configured tables", 0, func(cmd *cobra.Command, a *app, _ []string) ([]string, error) {
			return a.gw.ListConfiguredTables(cmd.Context())
		}),
		list("columns <table>", "List configured columns of a table", 1, func(cmd *cobra.Command, a *app, args []string) ([]string, error) {
			return a.gw.ListConfiguredColumns(cmd.Context(), args[0])
		}),
		list("enums", "List configured enums", 0, func(cmd *cobra.Command, a *app, _ []string) ([]string, error) {
			return a.gw.ListEnumNames(cmd.Context())
		}),
		list("values <enum>", "List values of an enum", 1, func(cmd *cobra.Command, a *app, args []string) ([]string, error) {
			return a.gw.ListEnumValues(cmd.Context(), args[0])
		}),
		list("categories", "List ui categories", 0, func(cmd *cobra.Command, a *app, _ []string) ([]string, error) {
			cats, err := a.gw.ListCategories(cmd.Context())
			if err != nil {
				return nil, err
			}
			names := make([]string, len(cats))
			for i, c := range cats {
				names[i] = c.Name
			}
			return names, nil
		}),
		records,
	)
	return cmd
}

type treeFlags struct {
	source   string
	search   string
	locale   string
	category string
	expand   []string
	forced   []string
	all      bool
}

func (f *treeFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.source, "source", "", "Only show one source type")
	fl.StringVar(&f.search, "search", "", "Filter by text or key")
	fl.StringVar(&f.locale, "locale", "", "Only load one locale")
	fl.StringVar(&f.category, "category", "", "Only load one ui category")
	fl.StringSliceVar(&f.expand, "expand", nil, "Group keys to expand")
	fl.StringSliceVar(&f.forced, "group", nil, "Source types whose single translations still render as groups")
	fl.BoolVar(&f.all, "all", false, "Expand every group")
}

func (f *treeFlags) filter() (gateway.Filter, error) {
	flt := gateway.Filter{Search: f.search, LocaleCode: f.locale, Category: f.category}
	if f.source != "" {
		st, err := models.ParseSourceType(f.source)
		if err != nil {
			return flt, err
		}
		flt.SourceType = st
	}
	return flt, nil
}

func (f *treeFlags) options() ([]editor.Option, error) {
	var forced []models.SourceType
	for _, s := range f.forced {
		st, err := models.ParseSourceType(s)
		if err != nil {
			return nil, err
		}
		forced = append(forced, st)
	}
	var xopts []viewmodel.Option
	if f.all {
		xopts = append(xopts, viewmodel.WithDefaultExpanded())
	}
	x := viewmodel.NewExpansion(xopts...)
	for _, key := range f.expand {
		x.Set(key, viewmodel.Expanded)
	}
	return []editor.Option{
		editor.WithGrouping(grouping.WithForcedGroups(forced...)),
		editor.WithExpansion(x),
	}, nil
}

func newTreeCmd() *cobra.Command {
	var tf treeFlags
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Show translations grouped by source, with completeness",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flt, err := tf.filter()
			if err != nil {
				return err
			}
			opts, err := tf.options()
			if err != nil {
				return err
			}
			a, err := openApp(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			e := a.editor(opts...)
			tree, err := e.Load(cmd.Context(), flt)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			renderRows(out, e.Rows())
			renderSummary(out, grouping.Summarize(tree))
			return nil
		},
	}
	tf.register(cmd)
	return cmd
}

func newEditCmd() *cobra.Command {
	var (
		uf          unitFlags
		sets        []string
		status      string
		description string
	)
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Set texts for several locales of one unit and save them together",
		Example: `  translations edit --source schema --table users --column first_name \
      --set en-US="First name" --set pt-PT="Nome próprio"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := uf.unit()
			if err != nil {
				return err
			}
			assignments, err := parseSet(sets)
			if err != nil {
				return err
			}
			a, err := openApp(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			e := a.editor(editor.WithGrouping(grouping.WithForcedKeys(u.Key())))
			if _, err := e.Load(cmd.Context(), gateway.Filter{SourceType: u.SourceType()}); err != nil {
				return err
			}

			s := e.Open(u)
			if status != "" {
				if err := s.SetStatus(models.Status(status)); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("description") {
				if err := s.SetDescription(description); err != nil {
					return err
				}
			}
			for _, as := range assignments {
				if err := e.Set(s, as[0], as[1]); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			res, err := e.Save(cmd.Context(), s)
			if err != nil {
				var verr *editing.ValidationError
				var perr *editing.PersistenceError
				switch {
				case errors.As(err, &verr):
					return fmt.Errorf("not saved: %w", err)
				case errors.As(err, &perr):
					for _, code := range perr.FailedLocales() {
						fmt.Fprintf(out, "failed %s: %v\n", code, perr.Failures[code])
					}
				}
				return err
			}
			fmt.Fprintf(out, "Saved %s: %d created, %d updated\n", u.Key(), res.Created, res.Updated)

			if n := grouping.FindUnit(e.Tree(), u); n != nil {
				e.Expansion().Set(n.Key, viewmodel.Expanded)
				renderRows(out, e.Expansion().Render([]*grouping.Node{n}))
				if missing := e.Missing(n); len(missing) > 0 {
					fmt.Fprintf(out, "missing: %s\n", strings.Join(missing, ", "))
				}
			}
			return nil
		},
	}
	uf.register(cmd)
	cmd.Flags().StringArrayVar(&sets, "set", nil, "locale=text, repeatable")
	cmd.Flags().StringVar(&status, "status", "", "Status for every saved locale (default: keep each locale's own): draft, published, needs_review")
	cmd.Flags().StringVar(&description, "description", "", "Description for every saved locale (schema and master data only)")
	return cmd
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one translation record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.gw.DeleteTranslation(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}

func newImportCmd() *cobra.Command {
	var (
		locale    string
		category  string
		status    string
		overwrite bool
	)
	cmd := &cobra.Command{
		Use:   "import-po <file-or-dir>",
		Short: "Import ui translations from gettext .po files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := models.Status(status)
			if !st.Valid() {
				return fmt.Errorf("invalid status %q", status)
			}
			a, err := openApp(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer a.Close()
			s, err := a.requireStore("import-po")
			if err != nil {
				return err
			}
			im := importer.New(s, a.registry,
				importer.WithCategory(category),
				importer.WithStatus(st),
				importer.WithOverwrite(overwrite),
			)

			path := args[0]
			info, err := os.Stat(path)
			if err != nil {
				return err
			}
			var reports []*importer.Report
			if info.IsDir() {
				reports, err = im.ImportFS(cmd.Context(), os.DirFS(path), ".")
			} else {
				var data []byte
				if data, err = os.ReadFile(path); err == nil {
					var rep *importer.Report
					if rep, err = im.Import(cmd.Context(), data, locale); err == nil {
						rep.File = filepath.Base(path)
						reports = append(reports, rep)
					}
				}
			}
			for _, r := range reports {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d imported\t%d skipped\n", r.File, r.Locale, r.Imported, r.Skipped)
			}
			return err
		},
	}
	cmd.Flags().StringVar(&locale, "locale", "", "Locale of a single file when its header has none")
	cmd.Flags().StringVar(&category, "category", "", "Category for imported keys")
	cmd.Flags().StringVar(&status, "status", string(models.StatusDraft), "Status of imported translations")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace existing texts")
	return cmd
}
