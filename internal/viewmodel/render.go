package viewmodel

import (
	"github.com/andrevicentegoncalves/pulwave-sub000/internal/grouping"
	"github.com/andrevicentegoncalves/pulwave-sub000/internal/models"
)

// RowKind tells what a rendered row shows.
type RowKind int

const (
	// RowHeader is a group header: title, count and completeness.
	RowHeader RowKind = iota
	// RowLeaf is a unit rendered flat, holding its single translation.
	RowLeaf
	// RowItem is one translation inside an expanded group.
	RowItem
)

// Row is one visible line of the tree.
type Row struct {
	Kind     RowKind
	Depth    int
	Key      string
	Title    string
	Count    int
	Complete bool
	Expanded bool

	// Unit is the editable unit behind the row, when there is exactly one.
	Unit models.Unit
	// Item is the translation shown by leaf and item rows.
	Item *models.Translation
}

// Editable reports whether the row offers the edit affordance.
func (r Row) Editable() bool {
	return r.Unit != nil
}

// Deletable reports whether the row offers the delete affordance.
func (r Row) Deletable() bool {
	return r.Item != nil && r.Item.IsSaved()
}

// Render flattens nodes into visible rows. Collapsed groups show their
// header only. Expanded groups show their children, each with its own
// state, or their items as rows.
func (e *Expansion) Render(nodes []*grouping.Node) []Row {
	rows := make([]Row, 0, len(nodes))
	return e.render(rows, nodes, 0)
}

func (e *Expansion) render(rows []Row, nodes []*grouping.Node, depth int) []Row {
	for _, n := range nodes {
		if n.IsLeaf() {
			var item *models.Translation
			if len(n.Items) > 0 {
				item = n.Items[0]
			}
			rows = append(rows, Row{
				Kind:     RowLeaf,
				Depth:    depth,
				Key:      n.Key,
				Title:    n.Title,
				Count:    len(n.Items),
				Complete: n.Complete,
				Unit:     n.Unit,
				Item:     item,
			})
			continue
		}

		expanded := e.Expanded(n.Key)
		rows = append(rows, Row{
			Kind:     RowHeader,
			Depth:    depth,
			Key:      n.Key,
			Title:    n.Title,
			Count:    n.Count(),
			Complete: n.Complete,
			Expanded: expanded,
			Unit:     n.Unit,
		})
		if !expanded {
			continue
		}

		if n.HasChildren() {
			rows = e.render(rows, n.Children, depth+1)
			continue
		}
		for _, it := range n.Items {
			rows = append(rows, Row{
				Kind:  RowItem,
				Depth: depth + 1,
				Key:   n.Key + "@" + it.LocaleCode,
				Title: it.LocaleCode,
				Unit:  n.Unit,
				Item:  it,
			})
		}
	}
	return rows
}
