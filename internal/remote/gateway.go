package remote

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/andrevicentegoncalves/pulwave-sub000/internal/gateway"
	"github.com/andrevicentegoncalves/pulwave-sub000/internal/models"
)

var _ gateway.Gateway = (*Client)(nil)

func (c *Client) UpsertUI(ctx context.Context, u models.UIUnit, req gateway.SaveRequest) (*models.Translation, error) {
	return c.upsert(ctx, u, req)
}

func (c *Client) UpsertSchema(ctx context.Context, u models.SchemaUnit, req gateway.SaveRequest) (*models.Translation, error) {
	return c.upsert(ctx, u, req)
}

func (c *Client) UpsertEnum(ctx context.Context, u models.EnumUnit, req gateway.SaveRequest) (*models.Translation, error) {
	return c.upsert(ctx, u, req)
}

func (c *Client) UpsertContent(ctx context.Context, u models.ContentUnit, req gateway.SaveRequest) (*models.Translation, error) {
	return c.upsert(ctx, u, req)
}

func (c *Client) UpsertMasterData(ctx context.Context, u models.MasterDataUnit, req gateway.SaveRequest) (*models.Translation, error) {
	return c.upsert(ctx, u, req)
}

// upsert POSTs new records and PUTs existing ones by id.
func (c *Client) upsert(ctx context.Context, u models.Unit, req gateway.SaveRequest) (*models.Translation, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}
	rec := req.Record(u)
	rec.UnitKey = u.Key()

	out := new(models.Translation)
	var err error
	if req.IsCreate() {
		err = c.do(ctx, http.MethodPost, "/translations", nil, rec, out)
	} else {
		err = c.do(ctx, http.MethodPut, "/translations/"+url.PathEscape(req.ID), nil, rec, out)
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListTranslations(ctx context.Context, f gateway.Filter) (*gateway.Page, error) {
	f = f.Normalize()
	q := url.Values{}
	q.Set("page", strconv.Itoa(f.Page))
	q.Set("page_size", strconv.Itoa(f.PageSize))
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.LocaleCode != "" {
		q.Set("locale_code", f.LocaleCode)
	}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.SourceType != "" {
		q.Set("source_type", string(f.SourceType))
	}

	page := new(gateway.Page)
	if err := c.do(ctx, http.MethodGet, "/translations", q, nil, page); err != nil {
		return nil, err
	}
	return page, nil
}

func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	if err := c.do(ctx, http.MethodGet, "/categories", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListConfiguredTables(ctx context.Context) ([]string, error) {
	return c.listStrings(ctx, "/catalog/tables", nil)
}

func (c *Client) ListConfiguredColumns(ctx context.Context, table string) ([]string, error) {
	return c.listStrings(ctx, "/catalog/tables/"+url.PathEscape(table)+"/columns", nil)
}

func (c *Client) ListEnumNames(ctx context.Context) ([]string, error) {
	return c.listStrings(ctx, "/catalog/enums", nil)
}

func (c *Client) ListEnumValues(ctx context.Context, enum string) ([]string, error) {
	return c.listStrings(ctx, "/catalog/enums/"+url.PathEscape(enum)+"/values", nil)
}

func (c *Client) ListRecordsForContentTarget(ctx context.Context, table string, limit int) ([]gateway.RecordLabel, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var out []gateway.RecordLabel
	if err := c.do(ctx, http.MethodGet, "/catalog/tables/"+url.PathEscape(table)+"/records", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DeleteTranslation(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/translations/"+url.PathEscape(id), nil, nil, nil)
}

// ListLocales returns the active locales known to the API.
func (c *Client) ListLocales(ctx context.Context) ([]models.Locale, error) {
	var out []models.Locale
	if err := c.do(ctx, http.MethodGet, "/locales", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) listStrings(ctx context.Context, path string, q url.Values) ([]string, error) {
	var out []string
	if err := c.do(ctx, http.MethodGet, path, q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
