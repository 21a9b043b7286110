package migrations

import (
	"context"
	"fmt"
	"log"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"github.com/uptrace/bun/migrate"

	"github.com/andrevicentegoncalves/pulwave-sub000/internal/models"
)

var Migrations = migrate.NewMigrations()

type index struct {
	name    string
	columns []string
	unique  bool
}

var translationIndexes = []index{
	{name: "ux_translations_unit_locale", columns: []string{"unit_key", "locale_code"}, unique: true},
	{name: "idx_translations_source_type", columns: []string{"source_type"}},
	{name: "idx_translations_locale", columns: []string{"locale_code"}},
	{name: "idx_translations_category", columns: []string{"category"}},
	{name: "idx_translations_table", columns: []string{"table_name", "column_name"}},
}

func init() {
	// Migration 1: create tables
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		modelsList := []interface{}{
			(*models.Locale)(nil),
			(*models.Category)(nil),
			(*models.Translation)(nil),
		}

		for _, model := range modelsList {
			if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
				return err
			}
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		modelsList := []interface{}{
			(*models.Translation)(nil),
			(*models.Category)(nil),
			(*models.Locale)(nil),
		}

		for _, model := range modelsList {
			if _, err := db.NewDropTable().Model(model).IfExists().Exec(ctx); err != nil {
				return err
			}
		}

		return nil
	})

	// Migration 2: indexes
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		mysql := db.Dialect().Name() == dialect.MySQL
		for _, idx := range translationIndexes {
			q := db.NewCreateIndex().
				Model((*models.Translation)(nil)).
				Index(idx.name).
				Column(idx.columns...)
			if idx.unique {
				q = q.Unique()
			}
			if !mysql {
				q = q.IfNotExists()
			}
			if _, err := q.Exec(ctx); err != nil {
				return fmt.Errorf("create index %s: %w", idx.name, err)
			}
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		mysql := db.Dialect().Name() == dialect.MySQL
		for _, idx := range translationIndexes {
			stmt := "DROP INDEX IF EXISTS " + idx.name
			if mysql {
				stmt = "DROP INDEX " + idx.name + " ON translations"
			}
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				return err
			}
		}

		return nil
	})
}

// RunMigrations runs all pending migrations.
func RunMigrations(ctx context.Context, db *bun.DB) error {
	migrator := migrate.NewMigrator(db, Migrations)

	if err := migrator.Init(ctx); err != nil {
		return err
	}

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return err
	}

	if group.IsZero() {
		log.Printf("No new migrations to run")
		return nil
	}

	log.Printf("Migrated to %s", group)
	return nil
}

// Rollback reverts the last migration group.
func Rollback(ctx context.Context, db *bun.DB) error {
	migrator := migrate.NewMigrator(db, Migrations)

	if err := migrator.Init(ctx); err != nil {
		return err
	}

	group, err := migrator.Rollback(ctx)
	if err != nil {
		return err
	}

	if group.IsZero() {
		log.Printf("No migrations to roll back")
		return nil
	}

	log.Printf("Rolled back %s", group)
	return nil
}
