package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/andrevicentegoncalves/pulwave-sub000/internal/grouping"
	"github.com/andrevicentegoncalves/pulwave-sub000/internal/models"
	"github.com/andrevicentegoncalves/pulwave-sub000/internal/viewmodel"
)

func TestParseSet(t *testing.T) {
	got, err := parseSet([]string{"en-US=First name", " pt-PT =a=b", "es-ES="})
	if err != nil {
		t.Fatalf("parseSet: %v", err)
	}
	want := [][2]string{{"en-US", "First name"}, {"pt-PT", "a=b"}, {"es-ES", ""}}
	if len(got) != len(want) {
		t.Fatalf("expected %d assignments, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("assignment %d: expected %v, got %v", i, want[i], got[i])
		}
	}

	for _, bad := range []string{"no-equals", "=text"} {
		if _, err := parseSet([]string{bad}); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestUnitFlags(t *testing.T) {
	tests := []struct {
		name    string
		flags   unitFlags
		wantKey string
		wantErr bool
	}{
		{"ui", unitFlags{source: "ui", key: "nav.home"}, models.UIUnit{TranslationKey: "nav.home"}.Key(), false},
		{"schema", unitFlags{source: "schema", table: "users", column: "first_name"}, models.SchemaUnit{TableName: "users", ColumnName: "first_name"}.Key(), false},
		{"table label ignores column", unitFlags{source: "schema", table: "users", column: "email", tableLabel: true}, "schema|users|", false},
		{"enum", unitFlags{source: "enum", enum: "status", value: "active"}, models.EnumUnit{EnumName: "status", EnumValue: "active"}.Key(), false},
		{"content", unitFlags{source: "content", table: "posts", column: "title", record: "42"}, models.ContentUnit{TableName: "posts", ColumnName: "title", RecordID: "42"}.Key(), false},
		{"master data", unitFlags{source: "master_data", target: "value", typeID: "t1", valueID: "v1"}, models.MasterDataUnit{Target: models.TargetValue, TypeID: "t1", ValueID: "v1"}.Key(), false},
		{"bad target", unitFlags{source: "master_data", target: "other", typeID: "t1"}, "", true},
		{"bad source", unitFlags{source: "weird"}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := tt.flags.unit()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unit: %v", err)
			}
			if u.Key() != tt.wantKey {
				t.Fatalf("expected key %q, got %q", tt.wantKey, u.Key())
			}
		})
	}
}

func TestRenderRows(t *testing.T) {
	recs := []*models.Translation{
		{ID: "1", SourceType: models.SourceSchema, TableName: "users", ColumnName: "first_name", LocaleCode: "en-US", Text: "First name", Status: models.StatusPublished},
		{ID: "2", SourceType: models.SourceSchema, TableName: "users", ColumnName: "first_name", LocaleCode: "pt-PT", Text: "Nome", Status: models.StatusDraft},
	}
	tree := grouping.Group(recs, 2)
	x := viewmodel.NewExpansion(viewmodel.WithDefaultExpanded())

	var buf bytes.Buffer
	renderRows(&buf, x.Render(tree))
	out := buf.String()
	for _, want := range []string{"▾", "✓", `en-US: "First name" [published] (1)`, `pt-PT: "Nome" [draft] (2)`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}

	buf.Reset()
	renderSummary(&buf, grouping.Summarize(tree))
	if got := buf.String(); got != "schema: 1/1 complete\n" {
		t.Fatalf("unexpected summary %q", got)
	}
}
