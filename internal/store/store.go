// Package store implements the translation gateway on a SQL database
// through bun.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/andrevicentegoncalves/pulwave-sub000/internal/gateway"
	"github.com/andrevicentegoncalves/pulwave-sub000/internal/models"
)

// Catalog whitelists the tables, columns and enums translations may target.
// config.Config satisfies it.
type Catalog interface {
	TableNames() []string
	Columns(table string) ([]string, bool)
	RecordColumns(table string) (id, label string, ok bool)
	EnumNames() []string
	EnumValues(enum string) ([]string, bool)
}

// Store is the bun-backed gateway.
type Store struct {
	db      *bun.DB
	catalog Catalog
}

var _ gateway.Gateway = (*Store)(nil)

// New returns a store on db restricted to catalog.
func New(db *bun.DB, catalog Catalog) *Store {
	return &Store{db: db, catalog: catalog}
}

// DB exposes the underlying handle.
func (s *Store) DB() *bun.DB {
	return s.db
}

func (s *Store) UpsertUI(ctx context.Context, u models.UIUnit, req gateway.SaveRequest) (*models.Translation, error) {
	if u.Category != "" {
		if err := s.ensureCategory(ctx, u.Category); err != nil {
			return nil, err
		}
	}
	return s.upsert(ctx, u, req)
}

func (s *Store) UpsertSchema(ctx context.Context, u models.SchemaUnit, req gateway.SaveRequest) (*models.Translation, error) {
	return s.upsert(ctx, u, req)
}

func (s *Store) UpsertEnum(ctx context.Context, u models.EnumUnit, req gateway.SaveRequest) (*models.Translation, error) {
	return s.upsert(ctx, u, req)
}

func (s *Store) UpsertContent(ctx context.Context, u models.ContentUnit, req gateway.SaveRequest) (*models.Translation, error) {
	return s.upsert(ctx, u, req)
}

func (s *Store) UpsertMasterData(ctx context.Context, u models.MasterDataUnit, req gateway.SaveRequest) (*models.Translation, error) {
	return s.upsert(ctx, u, req)
}

// upsert inserts a new record when req has no id, otherwise rewrites the
// record with that id.
func (s *Store) upsert(ctx context.Context, u models.Unit, req gateway.SaveRequest) (*models.Translation, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}
	rec := req.Record(u)

	if req.IsCreate() {
		rec.ID = uuid.NewString()
		if _, err := s.db.NewInsert().Model(rec).Exec(ctx); err != nil {
			return nil, fmt.Errorf("insert %s translation %s: %w", u.SourceType(), rec.LocaleCode, err)
		}
		return rec, nil
	}

	res, err := s.db.NewUpdate().
		Model(rec).
		ExcludeColumn("created_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("update translation %s: %w", rec.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, fmt.Errorf("update translation %s: %w", rec.ID, gateway.ErrNotFound)
	}
	return s.Get(ctx, rec.ID)
}

// Get loads one translation by id.
func (s *Store) Get(ctx context.Context, id string) (*models.Translation, error) {
	rec := new(models.Translation)
	err := s.db.NewSelect().Model(rec).Where("t.id = ?", id).Limit(1).Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("translation %s: %w", id, gateway.ErrNotFound)
		}
		return nil, err
	}
	return rec, nil
}

func (s *Store) ensureCategory(ctx context.Context, name string) error {
	_, err := s.db.NewInsert().
		Model(&models.Category{Name: name}).
		Ignore().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("ensure category %s: %w", name, err)
	}
	return nil
}

// ListTranslations returns one page of translations ordered by unit and
// locale. Search matches the text or any key field, case-insensitively.
func (s *Store) ListTranslations(ctx context.Context, f gateway.Filter) (*gateway.Page, error) {
	f = f.Normalize()

	var recs []*models.Translation
	q := s.db.NewSelect().Model(&recs)
	if f.SourceType != "" {
		q = q.Where("t.source_type = ?", f.SourceType)
	}
	if f.LocaleCode != "" {
		q = q.Where("t.locale_code = ?", f.LocaleCode)
	}
	if f.Category != "" {
		q = q.Where("t.category = ?", f.Category)
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where("LOWER(t.text) LIKE ?", like).
				WhereOr("LOWER(t.unit_key) LIKE ?", like).
				WhereOr("LOWER(t.description) LIKE ?", like)
		})
	}

	count, err := q.
		OrderExpr("t.source_type ASC, t.unit_key ASC, t.locale_code ASC").
		Limit(f.PageSize).
		Offset(f.Offset()).
		ScanAndCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("list translations: %w", err)
	}
	return &gateway.Page{Records: recs, TotalCount: count}, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	var cats []models.Category
	if err := s.db.NewSelect().Model(&cats).OrderExpr("tc.name ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

func (s *Store) ListConfiguredTables(ctx context.Context) ([]string, error) {
	return s.catalog.TableNames(), nil
}

func (s *Store) ListConfiguredColumns(ctx context.Context, table string) ([]string, error) {
	cols, ok := s.catalog.Columns(table)
	if !ok {
		return nil, fmt.Errorf("table %q is not configured: %w", table, gateway.ErrNotFound)
	}
	return cols, nil
}

func (s *Store) ListEnumNames(ctx context.Context) ([]string, error) {
	return s.catalog.EnumNames(), nil
}

func (s *Store) ListEnumValues(ctx context.Context, enum string) ([]string, error) {
	vals, ok := s.catalog.EnumValues(enum)
	if !ok {
		return nil, fmt.Errorf("enum %q is not configured: %w", enum, gateway.ErrNotFound)
	}
	return vals, nil
}

// ListRecordsForContentTarget lists up to limit rows of a whitelisted
// table as id/label pairs, ordered by label.
func (s *Store) ListRecordsForContentTarget(ctx context.Context, table string, limit int) ([]gateway.RecordLabel, error) {
	idCol, labelCol, ok := s.catalog.RecordColumns(table)
	if !ok {
		return nil, fmt.Errorf("table %q is not configured: %w", table, gateway.ErrNotFound)
	}
	if limit <= 0 {
		limit = gateway.DefaultPageSize
	}

	rows, err := s.db.NewSelect().
		TableExpr("?", bun.Ident(table)).
		ColumnExpr("?, ?", bun.Ident(idCol), bun.Ident(labelCol)).
		OrderExpr("? ASC", bun.Ident(labelCol)).
		Limit(limit).
		Rows(ctx)
	if err != nil {
		return nil, fmt.Errorf("list records of %s: %w", table, err)
	}
	defer rows.Close()

	var out []gateway.RecordLabel
	for rows.Next() {
		var id, label sql.NullString
		if err := rows.Scan(&id, &label); err != nil {
			return nil, err
		}
		out = append(out, gateway.RecordLabel{ID: id.String, Label: label.String})
	}
	return out, rows.Err()
}

func (s *Store) DeleteTranslation(ctx context.Context, id string) error {
	res, err := s.db.NewDelete().
		Model((*models.Translation)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete translation %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("delete translation %s: %w", id, gateway.ErrNotFound)
	}
	return nil
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
