package grouping

import (
	"log"
	"sort"

	"github.com/andrevicentegoncalves/pulwave-sub000/internal/models"
)

type options struct {
	forcedTypes map[models.SourceType]bool
	forcedKeys  map[string]bool
}

// Option configures Group.
type Option func(*options)

// WithForcedGroups renders every unit of the given source types as an
// expandable group, even when it holds a single translation.
func WithForcedGroups(types ...models.SourceType) Option {
	return func(o *options) {
		for _, t := range types {
			o.forcedTypes[t] = true
		}
	}
}

// WithForcedKeys forces group mode for the nodes with the given keys.
func WithForcedKeys(keys ...string) Option {
	return func(o *options) {
		for _, k := range keys {
			o.forcedKeys[k] = true
		}
	}
}

func (o *options) forced(st models.SourceType, key string) bool {
	return o.forcedTypes[st] || o.forcedKeys[key]
}

// unitBucket holds the translations of one unit.
type unitBucket struct {
	unit  models.Unit
	items []*models.Translation
}

// primaryBucket holds the units sharing a primary key, by secondary key.
type primaryBucket struct {
	units map[string]*unitBucket
}

// Group builds the hierarchy for records. Source types appear in a fixed
// order, primary keys are sorted, and completeness is attached while the
// tree is built. Records whose key fields match no source type are skipped.
func Group(records []*models.Translation, totalLocales int, opts ...Option) []*Node {
	o := &options{
		forcedTypes: make(map[models.SourceType]bool),
		forcedKeys:  make(map[string]bool),
	}
	for _, opt := range opts {
		opt(o)
	}

	partitions := partition(records)

	nodes := make([]*Node, 0)
	for _, st := range models.SourceTypes() {
		byPrimary, ok := partitions[st]
		if !ok {
			continue
		}
		for _, primary := range sortedKeys(byPrimary) {
			nodes = append(nodes, buildPrimary(st, primary, byPrimary[primary], totalLocales, o))
		}
	}
	return nodes
}

func partition(records []*models.Translation) map[models.SourceType]map[string]*primaryBucket {
	out := make(map[models.SourceType]map[string]*primaryBucket)
	for _, rec := range records {
		if rec == nil {
			continue
		}
		unit, err := models.UnitOf(rec)
		if err != nil {
			log.Printf("Skipping translation %q (%s): %v", rec.ID, rec.LocaleCode, err)
			continue
		}

		byPrimary, ok := out[unit.SourceType()]
		if !ok {
			byPrimary = make(map[string]*primaryBucket)
			out[unit.SourceType()] = byPrimary
		}
		pb, ok := byPrimary[unit.Primary()]
		if !ok {
			pb = &primaryBucket{units: make(map[string]*unitBucket)}
			byPrimary[unit.Primary()] = pb
		}
		ub, ok := pb.units[unit.Secondary()]
		if !ok {
			ub = &unitBucket{unit: unit}
			pb.units[unit.Secondary()] = ub
		}
		ub.items = append(ub.items, rec)
	}
	return out
}

func buildPrimary(st models.SourceType, primary string, pb *primaryBucket, totalLocales int, o *options) *Node {
	secondaries := sortedSecondaryKeys(pb.units)

	if len(secondaries) == 1 {
		return buildUnit(pb.units[secondaries[0]], totalLocales, o, true)
	}

	parent := &Node{
		Kind:       KindGroup,
		Key:        groupKey(st, primary),
		Title:      primaryTitle(st, primary),
		SourceType: st,
		Children:   make([]*Node, 0, len(secondaries)),
	}
	for _, sec := range secondaries {
		child := buildUnit(pb.units[sec], totalLocales, o, false)
		parent.Children = append(parent.Children, child)
		parent.Items = append(parent.Items, child.Items...)
	}
	parent.Complete = AllComplete(parent.Children)
	return parent
}

// buildUnit renders one translation unit: a flat leaf when it holds exactly
// one item and is not forced, a group of item rows otherwise.
func buildUnit(ub *unitBucket, totalLocales int, o *options, topLevel bool) *Node {
	sortItems(ub.items)
	ub.items = dedupeLocales(ub.unit, ub.items)

	st := ub.unit.SourceType()
	key := ub.unit.Key()
	n := &Node{
		Key:        key,
		Title:      unitTitle(ub.unit, topLevel),
		SourceType: st,
		Unit:       ub.unit,
		Items:      ub.items,
		Complete:   IsComplete(len(ub.items), totalLocales),
	}
	if len(ub.items) == 1 && !o.forced(st, key) {
		n.Kind = KindLeaf
	} else {
		n.Kind = KindGroup
	}
	return n
}

func groupKey(st models.SourceType, primary string) string {
	return "group|" + string(st) + "|" + primary
}

func primaryTitle(st models.SourceType, primary string) string {
	if st == models.SourceMasterData && primary == "" {
		return "(unassigned type)"
	}
	return primary
}

// unitTitle names a unit. Nested units are titled by their secondary key
// only; the parent header already carries the primary one.
func unitTitle(u models.Unit, topLevel bool) string {
	switch u := u.(type) {
	case models.UIUnit:
		return u.TranslationKey
	case models.SchemaUnit:
		if u.TableLabel {
			if topLevel {
				return u.TableName + " (table label)"
			}
			return "(table label)"
		}
		if topLevel {
			return u.TableName + "." + u.ColumnName
		}
		return u.ColumnName
	case models.EnumUnit:
		if topLevel {
			return u.EnumName + "." + u.EnumValue
		}
		return u.EnumValue
	case models.ContentUnit:
		if topLevel {
			return u.TableName + " #" + u.RecordID + " " + u.ColumnName
		}
		return u.ColumnName
	case models.MasterDataUnit:
		if u.Target == models.TargetType {
			if topLevel {
				return u.TypeID + " (type label)"
			}
			return "(type label)"
		}
		if topLevel && u.TypeID != "" {
			return u.TypeID + "/" + u.ValueID
		}
		return u.ValueID
	}
	return u.Key()
}

func sortItems(items []*models.Translation) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].LocaleCode != items[j].LocaleCode {
			return items[i].LocaleCode < items[j].LocaleCode
		}
		return items[i].ID < items[j].ID
	})
}

// dedupeLocales keeps the first of each locale in sorted items, so the
// lowest id wins whatever the input order.
func dedupeLocales(u models.Unit, items []*models.Translation) []*models.Translation {
	out := items[:0]
	for _, it := range items {
		if len(out) > 0 && out[len(out)-1].LocaleCode == it.LocaleCode {
			log.Printf("Skipping duplicate %s translation for %s (id %q)", it.LocaleCode, u.Key(), it.ID)
			continue
		}
		out = append(out, it)
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// sortedSecondaryKeys sorts lexicographically with the label pseudo-key first.
func sortedSecondaryKeys(m map[string]*unitBucket) []string {
	keys := sortedKeys(m)
	sort.SliceStable(keys, func(i, j int) bool {
		li, lj := isLabelKey(m[keys[i]].unit), isLabelKey(m[keys[j]].unit)
		if li != lj {
			return li
		}
		return keys[i] < keys[j]
	})
	return keys
}

func isLabelKey(u models.Unit) bool {
	switch u := u.(type) {
	case models.SchemaUnit:
		return u.TableLabel
	case models.MasterDataUnit:
		return u.Target == models.TargetType
	}
	return false
}
