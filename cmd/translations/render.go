package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/andrevicentegoncalves/pulwave-sub000/internal/grouping"
	"github.com/andrevicentegoncalves/pulwave-sub000/internal/models"
	"github.com/andrevicentegoncalves/pulwave-sub000/internal/viewmodel"
)

func mark(complete bool) string {
	if complete {
		return "✓"
	}
	return "…"
}

func renderRows(w io.Writer, rows []viewmodel.Row) {
	for _, r := range rows {
		indent := strings.Repeat("  ", r.Depth)
		switch r.Kind {
		case viewmodel.RowHeader:
			arrow := "▸"
			if r.Expanded {
				arrow = "▾"
			}
			fmt.Fprintf(w, "%s%s %s (%d) %s  [%s]\n", indent, arrow, r.Title, r.Count, mark(r.Complete), r.Key)
		case viewmodel.RowLeaf:
			fmt.Fprintf(w, "%s• %s %s  %s\n", indent, r.Title, mark(r.Complete), itemText(r.Item))
		case viewmodel.RowItem:
			fmt.Fprintf(w, "%s- %s\n", indent, itemText(r.Item))
		}
	}
}

func itemText(t *models.Translation) string {
	if t == nil {
		return ""
	}
	return fmt.Sprintf("%s: %q [%s] (%s)", t.LocaleCode, t.Text, t.Status, t.ID)
}

func renderSummary(w io.Writer, sums map[models.SourceType]grouping.Summary) {
	for _, st := range models.SourceTypes() {
		s, ok := sums[st]
		if !ok {
			continue
		}
		fmt.Fprintf(w, "%s: %d/%d complete\n", st, s.Complete, s.Units)
	}
}
