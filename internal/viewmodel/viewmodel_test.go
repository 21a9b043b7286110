package viewmodel

import (
	"testing"

	"github.com/andrevicentegoncalves/pulwave-sub000/internal/grouping"
	"github.com/andrevicentegoncalves/pulwave-sub000/internal/models"
)

func rec(id, table, column, locale string) *models.Translation {
	return &models.Translation{ID: id, SourceType: models.SourceSchema, TableName: table, ColumnName: column, LocaleCode: locale, Text: column}
}

func sampleTree() []*grouping.Node {
	return grouping.Group([]*models.Translation{
		rec("1", "users", "email", "en-US"),
		rec("2", "users", "email", "pt-PT"),
		rec("3", "users", "name", "en-US"),
		rec("4", "orders", "total", "en-US"),
	}, 2)
}

func TestToggleFlipsState(t *testing.T) {
	e := NewExpansion()
	if e.State("k") != Collapsed {
		t.Fatalf("expected collapsed initial state")
	}
	if s := e.Toggle("k"); s != Expanded {
		t.Fatalf("expected expanded after toggle, got %s", s)
	}
	if s := e.Toggle("k"); s != Collapsed {
		t.Fatalf("expected collapsed after second toggle, got %s", s)
	}

	d := NewExpansion(WithDefaultExpanded())
	if !d.Expanded("k") {
		t.Fatalf("expected default expanded")
	}
	d.Toggle("k")
	if d.Expanded("k") {
		t.Fatalf("expected collapsed after toggling a default-expanded node")
	}
}

func TestRenderCollapsedShowsHeadersOnly(t *testing.T) {
	e := NewExpansion()
	rows := e.Render(sampleTree())

	// orders.total is a flat leaf, users is a collapsed header
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Kind != RowLeaf || rows[0].Item == nil || rows[0].Item.ID != "4" {
		t.Fatalf("expected orders leaf first, got %+v", rows[0])
	}
	if rows[1].Kind != RowHeader || rows[1].Count != 2 || rows[1].Expanded {
		t.Fatalf("expected collapsed users header with 2 children, got %+v", rows[1])
	}
	if !rows[0].Editable() || !rows[0].Deletable() {
		t.Fatalf("leaf rows should offer edit and delete")
	}
}

func TestRenderExpandedRecursesWithIndependentState(t *testing.T) {
	nodes := sampleTree()
	e := NewExpansion()
	e.Toggle("group|schema|users")

	rows := e.Render(nodes)
	// leaf, users header, email header (collapsed), name leaf
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}
	if rows[2].Kind != RowHeader || rows[2].Expanded || rows[2].Depth != 1 {
		t.Fatalf("expected nested collapsed email header, got %+v", rows[2])
	}

	e.Toggle("schema|users|email")
	rows = e.Render(nodes)
	if len(rows) != 6 {
		t.Fatalf("expected 6 rows, got %d", len(rows))
	}
	if rows[3].Kind != RowItem || rows[3].Item.LocaleCode != "en-US" || rows[3].Depth != 2 {
		t.Fatalf("expected en-US item row, got %+v", rows[3])
	}
}

func TestStateSurvivesRegrouping(t *testing.T) {
	e := NewExpansion()
	e.Toggle("group|schema|users")

	refetched := grouping.Group([]*models.Translation{
		rec("9", "orders", "total", "pt-PT"),
		rec("4", "orders", "total", "en-US"),
		rec("3", "users", "name", "en-US"),
		rec("1", "users", "email", "en-US"),
	}, 2)

	rows := e.Render(refetched)
	var usersExpanded bool
	for _, r := range rows {
		if r.Key == "group|schema|users" {
			usersExpanded = r.Expanded
		}
	}
	if !usersExpanded {
		t.Fatalf("expected users group to stay expanded after regrouping")
	}
}

func TestRetainDropsVanishedKeys(t *testing.T) {
	e := NewExpansion()
	e.Toggle("group|schema|users")
	e.Toggle("group|schema|gone")

	if dropped := e.Retain(sampleTree()); dropped != 1 {
		t.Fatalf("expected 1 dropped key, got %d", dropped)
	}
	if e.Len() != 1 || !e.Expanded("group|schema|users") {
		t.Fatalf("expected users state to be kept")
	}
}

func TestExpandAll(t *testing.T) {
	nodes := sampleTree()
	e := NewExpansion()
	e.ExpandAll(nodes)
	rows := e.Render(nodes)
	// leaf, users header, email header, 2 items, name leaf
	if len(rows) != 6 {
		t.Fatalf("expected 6 rows, got %d", len(rows))
	}
}
