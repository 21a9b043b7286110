// Package gateway defines the persistence contracts the editing core
// consumes. The store and remote packages implement them.
package gateway

import (
	"context"
	"errors"

	"github.com/andrevicentegoncalves/pulwave-sub000/internal/models"
)

// ErrNotFound is returned when an update or delete targets a missing record.
var ErrNotFound = errors.New("translation not found")

// SaveRequest carries the per-locale part of an upsert. An empty ID inserts
// a new record; a set ID updates that record.
type SaveRequest struct {
	ID          string        `json:"id,omitempty"`
	LocaleCode  string        `json:"locale_code"`
	Text        string        `json:"text"`
	Status      models.Status `json:"status"`
	Description string        `json:"description,omitempty"`
}

// IsCreate reports whether the request inserts a new record.
func (r SaveRequest) IsCreate() bool {
	return r.ID == ""
}

// Record builds the translation row the request persists for unit u.
// Descriptions are kept only for schema and master data units.
func (r SaveRequest) Record(u models.Unit) *models.Translation {
	t := &models.Translation{
		ID:         r.ID,
		LocaleCode: r.LocaleCode,
		Text:       r.Text,
		Status:     r.Status,
	}
	if t.Status == "" {
		t.Status = models.StatusDraft
	}
	switch u.SourceType() {
	case models.SourceSchema, models.SourceMasterData:
		t.Description = r.Description
	}
	u.Apply(t)
	return t
}

// Writer upserts one translation per call, one method per source type.
type Writer interface {
	UpsertUI(ctx context.Context, u models.UIUnit, req SaveRequest) (*models.Translation, error)
	UpsertSchema(ctx context.Context, u models.SchemaUnit, req SaveRequest) (*models.Translation, error)
	UpsertEnum(ctx context.Context, u models.EnumUnit, req SaveRequest) (*models.Translation, error)
	UpsertContent(ctx context.Context, u models.ContentUnit, req SaveRequest) (*models.Translation, error)
	UpsertMasterData(ctx context.Context, u models.MasterDataUnit, req SaveRequest) (*models.Translation, error)
}

// Filter narrows ListTranslations. Zero values mean no restriction.
type Filter struct {
	Page       int               `json:"page,omitempty"`
	PageSize   int               `json:"page_size,omitempty"`
	Search     string            `json:"search,omitempty"`
	LocaleCode string            `json:"locale_code,omitempty"`
	Category   string            `json:"category,omitempty"`
	SourceType models.SourceType `json:"source_type,omitempty"`
}

// DefaultPageSize is used when a filter leaves PageSize unset.
const DefaultPageSize = 100

// Normalize fills in paging defaults.
func (f Filter) Normalize() Filter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = DefaultPageSize
	}
	return f
}

// Offset is the number of records skipped before the current page.
func (f Filter) Offset() int {
	f = f.Normalize()
	return (f.Page - 1) * f.PageSize
}

// Page is one page of translations plus the total matching count.
type Page struct {
	Records    []*models.Translation `json:"records"`
	TotalCount int                   `json:"total_count"`
}

// RecordLabel identifies a record that content translations can target.
type RecordLabel struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Reader lists translations and the catalogues the editor picks keys from.
type Reader interface {
	ListTranslations(ctx context.Context, f Filter) (*Page, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListConfiguredTables(ctx context.Context) ([]string, error)
	ListConfiguredColumns(ctx context.Context, table string) ([]string, error)
	ListEnumNames(ctx context.Context) ([]string, error)
	ListEnumValues(ctx context.Context, enum string) ([]string, error)
	ListRecordsForContentTarget(ctx context.Context, table string, limit int) ([]RecordLabel, error)
}

// Deleter removes a translation explicitly.
type Deleter interface {
	DeleteTranslation(ctx context.Context, id string) error
}

// Gateway is the full persistence surface.
type Gateway interface {
	Reader
	Writer
	Deleter
}
