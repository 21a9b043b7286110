package store

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"

	"github.com/andrevicentegoncalves/pulwave-sub000/internal/models"
)

const batchSize = 500

// UpsertMany inserts records keyed by (unit_key, locale_code). Existing
// rows get the new text and status when overwrite is set and are left
// untouched otherwise. Records that match no unit shape are rejected.
func (s *Store) UpsertMany(ctx context.Context, recs []*models.Translation, overwrite bool) (int, error) {
	for _, r := range recs {
		if _, err := models.UnitOf(r); err != nil {
			return 0, fmt.Errorf("record %s/%s: %w", r.Label(), r.LocaleCode, err)
		}
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		if r.Status == "" {
			r.Status = models.StatusDraft
		}
	}

	var affected int
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for start := 0; start < len(recs); start += batchSize {
			end := min(start+batchSize, len(recs))
			batch := recs[start:end]

			res, err := s.upsertQuery(tx, &batch, overwrite).Exec(ctx)
			if err != nil {
				return err
			}
			if n, err := res.RowsAffected(); err == nil {
				affected += int(n)
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("upsert translations: %w", err)
	}

	log.Printf("Upserted %d translations (%d rows affected)", len(recs), affected)
	return affected, nil
}

func (s *Store) upsertQuery(tx bun.Tx, batch *[]*models.Translation, overwrite bool) *bun.InsertQuery {
	q := tx.NewInsert().Model(batch)
	mysql := s.db.Dialect().Name() == dialect.MySQL

	switch {
	case !overwrite:
		return q.Ignore()
	case mysql:
		return q.On("DUPLICATE KEY UPDATE").
			Set("text = VALUES(text)").
			Set("status = VALUES(status)").
			Set("updated_at = VALUES(updated_at)")
	default:
		return q.On("CONFLICT (unit_key, locale_code) DO UPDATE").
			Set("text = EXCLUDED.text").
			Set("status = EXCLUDED.status").
			Set("updated_at = EXCLUDED.updated_at")
	}
}

// ListLocales returns the active locales ordered by position then code.
func (s *Store) ListLocales(ctx context.Context) ([]models.Locale, error) {
	var locs []models.Locale
	err := s.db.NewSelect().
		Model(&locs).
		Where("l.is_active = ?", true).
		OrderExpr("l.position ASC, l.code ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list locales: %w", err)
	}
	return locs, nil
}

// SaveLocales upserts locales by code.
func (s *Store) SaveLocales(ctx context.Context, locs []models.Locale) error {
	if len(locs) == 0 {
		return nil
	}
	q := s.db.NewInsert().Model(&locs)
	if s.db.Dialect().Name() == dialect.MySQL {
		q = q.On("DUPLICATE KEY UPDATE").
			Set("name = VALUES(name)").
			Set("position = VALUES(position)").
			Set("is_active = VALUES(is_active)").
			Set("fallbacks = VALUES(fallbacks)")
	} else {
		q = q.On("CONFLICT (code) DO UPDATE").
			Set("name = EXCLUDED.name").
			Set("position = EXCLUDED.position").
			Set("is_active = EXCLUDED.is_active").
			Set("fallbacks = EXCLUDED.fallbacks")
	}
	if _, err := q.Exec(ctx); err != nil {
		return fmt.Errorf("save locales: %w", err)
	}
	return nil
}
