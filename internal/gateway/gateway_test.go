package gateway

import (
	"context"
	"fmt"
	"testing"

	"github.com/andrevicentegoncalves/pulwave-sub000/internal/models"
)

type pagedReader struct {
	Reader
	records []*models.Translation
	calls   int
}

func (p *pagedReader) ListTranslations(_ context.Context, f Filter) (*Page, error) {
	p.calls++
	start := f.Offset()
	if start > len(p.records) {
		start = len(p.records)
	}
	end := start + f.PageSize
	if end > len(p.records) {
		end = len(p.records)
	}
	return &Page{Records: p.records[start:end], TotalCount: len(p.records)}, nil
}

func TestFetchAllPagesUntilTotal(t *testing.T) {
	r := &pagedReader{}
	for i := 0; i < 7; i++ {
		r.records = append(r.records, &models.Translation{ID: fmt.Sprint(i)})
	}

	got, err := FetchAll(context.Background(), r, Filter{PageSize: 3})
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if len(got) != 7 {
		t.Fatalf("expected 7 records, got %d", len(got))
	}
	if r.calls != 3 {
		t.Fatalf("expected 3 page calls, got %d", r.calls)
	}
}

func TestFilterNormalize(t *testing.T) {
	f := Filter{}.Normalize()
	if f.Page != 1 || f.PageSize != DefaultPageSize {
		t.Fatalf("unexpected defaults: %+v", f)
	}
	if off := (Filter{Page: 3, PageSize: 20}).Offset(); off != 40 {
		t.Fatalf("expected offset 40, got %d", off)
	}
}

func TestSaveRequestRecord(t *testing.T) {
	req := SaveRequest{LocaleCode: "es-ES", Text: "Nombre", Description: "first name label"}

	schema := req.Record(models.SchemaUnit{TableName: "users", ColumnName: "first_name"})
	if schema.Description == "" || schema.Status != models.StatusDraft {
		t.Fatalf("schema record should keep description and default to draft: %+v", schema)
	}
	if schema.UnitKey != "schema|users|first_name" || !req.IsCreate() {
		t.Fatalf("unexpected schema record: %+v", schema)
	}

	enum := req.Record(models.EnumUnit{EnumName: "status", EnumValue: "active"})
	if enum.Description != "" {
		t.Fatalf("enum record should drop description, got %q", enum.Description)
	}
}
