// Package importer seeds ui translations from gettext .po catalogs.
package importer

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"path"
	"sort"
	"strings"

	"github.com/leonelquinteros/gotext"

	"github.com/andrevicentegoncalves/pulwave-sub000/internal/locales"
	"github.com/andrevicentegoncalves/pulwave-sub000/internal/models"
)

// Writer persists a batch of translations. store.Store satisfies it.
type Writer interface {
	UpsertMany(ctx context.Context, recs []*models.Translation, overwrite bool) (int, error)
}

// Report summarises one imported catalog.
type Report struct {
	File     string
	Locale   string
	Imported int
	Skipped  int
	Affected int
}

// Importer maps msgid to translation key and msgstr to text.
type Importer struct {
	w         Writer
	registry  *locales.Registry
	category  string
	status    models.Status
	overwrite bool
}

// Option configures an Importer.
type Option func(*Importer)

// WithCategory files imported keys under category.
func WithCategory(category string) Option {
	return func(im *Importer) { im.category = category }
}

// WithStatus sets the status of imported records. Default is draft.
func WithStatus(s models.Status) Option {
	return func(im *Importer) { im.status = s }
}

// WithOverwrite replaces existing texts instead of keeping them.
func WithOverwrite(overwrite bool) Option {
	return func(im *Importer) { im.overwrite = overwrite }
}

// New creates an importer writing to w for locales in reg.
func New(w Writer, reg *locales.Registry, opts ...Option) *Importer {
	im := &Importer{w: w, registry: reg, status: models.StatusDraft}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// Parse reads a .po catalog and returns one ui record per translated
// message, plus the locale named in the catalog header. Untranslated and
// plural-only entries are counted as skipped.
func Parse(data []byte) (recs []*models.Translation, headerLocale string, skipped int) {
	po := gotext.NewPo()
	po.Parse(data)
	dom := po.GetDomain()

	trs := dom.GetTranslations()
	ids := make([]string, 0, len(trs))
	for id := range trs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		tr := trs[id]
		if strings.TrimSpace(id) == "" || tr == nil {
			continue
		}
		text := tr.Trs[0]
		if strings.TrimSpace(text) == "" {
			skipped++
			continue
		}
		recs = append(recs, &models.Translation{
			SourceType:     models.SourceUI,
			TranslationKey: id,
			Text:           text,
		})
	}
	return recs, dom.Language, skipped
}

// Import stores the catalog in data. locale overrides the catalog header;
// one of them must name a registered locale.
func (im *Importer) Import(ctx context.Context, data []byte, locale string) (*Report, error) {
	recs, header, skipped := Parse(data)
	if locale == "" {
		locale = header
	}
	if locale == "" {
		return nil, fmt.Errorf("catalog names no language and none was given")
	}
	code, err := im.registry.Resolve(locale)
	if err != nil {
		return nil, err
	}

	for _, r := range recs {
		r.LocaleCode = code
		r.Category = im.category
		r.Status = im.status
	}

	rep := &Report{Locale: code, Imported: len(recs), Skipped: skipped}
	if len(recs) == 0 {
		return rep, nil
	}
	n, err := im.w.UpsertMany(ctx, recs, im.overwrite)
	if err != nil {
		return nil, err
	}
	rep.Affected = n
	return rep, nil
}

// ImportFS imports every .po file under root in fsys. Catalogs without a
// Language header take their locale from the directory layout
// <locale>/LC_MESSAGES/<domain>.po or from the file name <locale>.po.
func (im *Importer) ImportFS(ctx context.Context, fsys fs.FS, root string) ([]*Report, error) {
	var reports []*Report
	err := fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(p) != ".po" {
			return nil
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}

		locale := ""
		if _, header, _ := Parse(data); header == "" {
			locale = localeFromPath(p)
		}
		rep, err := im.Import(ctx, data, locale)
		if err != nil {
			return fmt.Errorf("import %s: %w", p, err)
		}
		rep.File = p
		log.Printf("Imported %s: %d translations for %s (%d skipped)", p, rep.Imported, rep.Locale, rep.Skipped)
		reports = append(reports, rep)
		return nil
	})
	if err != nil {
		return reports, err
	}
	return reports, nil
}

func localeFromPath(p string) string {
	dir := path.Dir(p)
	if path.Base(dir) == "LC_MESSAGES" {
		return path.Base(path.Dir(dir))
	}
	return strings.TrimSuffix(path.Base(p), ".po")
}
