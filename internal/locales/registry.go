// Package locales holds the ordered set of active locales every
// translation unit is expected to cover.
package locales

import (
	"context"
	"errors"
	"fmt"
	"log"

	"golang.org/x/text/language"

	"github.com/andrevicentegoncalves/pulwave-sub000/internal/models"
)

// ErrUnknownLocale is returned for codes outside the registry.
var ErrUnknownLocale = errors.New("unknown locale")

// Source lists locales from storage.
type Source interface {
	ListLocales(ctx context.Context) ([]models.Locale, error)
}

// Registry is an immutable, ordered locale set.
type Registry struct {
	locales []models.Locale
	index   map[string]int
	matcher language.Matcher
}

// Canonicalize parses a BCP 47 code and returns its canonical form,
// e.g. "pt-pt" becomes "pt-PT".
func Canonicalize(code string) (string, error) {
	tag, err := language.Parse(code)
	if err != nil {
		return "", fmt.Errorf("parse locale %q: %w", code, err)
	}
	return tag.String(), nil
}

// New builds a registry from locales in order. Inactive entries are
// skipped and duplicate codes keep their first position.
func New(locs []models.Locale) (*Registry, error) {
	r := &Registry{index: make(map[string]int)}
	var tags []language.Tag
	for _, l := range locs {
		if !l.IsActive {
			continue
		}
		code, err := Canonicalize(l.Code)
		if err != nil {
			return nil, err
		}
		if _, dup := r.index[code]; dup {
			log.Printf("Skipping duplicate locale %s", code)
			continue
		}
		l.Code = code
		if l.Name == "" {
			l.Name = code
		}
		r.index[code] = len(r.locales)
		r.locales = append(r.locales, l)
		tags = append(tags, language.Make(code))
	}
	if len(r.locales) == 0 {
		return nil, errors.New("no active locales configured")
	}
	r.matcher = language.NewMatcher(tags)
	return r, nil
}

// FromCodes builds a registry from configured codes in order.
func FromCodes(codes []string) (*Registry, error) {
	locs := make([]models.Locale, len(codes))
	for i, c := range codes {
		locs[i] = models.Locale{Code: c, Position: i, IsActive: true}
	}
	return New(locs)
}

// Load reads active locales from src and falls back to codes when the
// source has none.
func Load(ctx context.Context, src Source, codes []string) (*Registry, error) {
	locs, err := src.ListLocales(ctx)
	if err != nil {
		return nil, err
	}
	if len(locs) == 0 {
		return FromCodes(codes)
	}
	return New(locs)
}

// Total is the number of active locales, used for completeness.
func (r *Registry) Total() int {
	return len(r.locales)
}

// Codes returns the active codes in order.
func (r *Registry) Codes() []string {
	out := make([]string, len(r.locales))
	for i, l := range r.locales {
		out[i] = l.Code
	}
	return out
}

// Locales returns a copy of the active locales in order.
func (r *Registry) Locales() []models.Locale {
	return append([]models.Locale(nil), r.locales...)
}

// Contains reports whether code is an active locale.
func (r *Registry) Contains(code string) bool {
	_, ok := r.index[code]
	return ok
}

// Resolve canonicalises code and checks it is registered.
func (r *Registry) Resolve(code string) (string, error) {
	c, err := Canonicalize(code)
	if err != nil {
		return "", err
	}
	if !r.Contains(c) {
		return "", fmt.Errorf("%w: %s", ErrUnknownLocale, c)
	}
	return c, nil
}

// Match returns the registered locale closest to code, so "pt" resolves
// to "pt-PT" when that is the only Portuguese locale.
func (r *Registry) Match(code string) (string, error) {
	tag, err := language.Parse(code)
	if err != nil {
		return "", fmt.Errorf("parse locale %q: %w", code, err)
	}
	_, idx, conf := r.matcher.Match(tag)
	if conf == language.No {
		return "", fmt.Errorf("%w: %s", ErrUnknownLocale, code)
	}
	return r.locales[idx].Code, nil
}

// Missing returns the active codes that have no record in items.
func (r *Registry) Missing(items []*models.Translation) []string {
	have := make(map[string]bool, len(items))
	for _, t := range items {
		have[t.LocaleCode] = true
	}
	var out []string
	for _, l := range r.locales {
		if !have[l.Code] {
			out = append(out, l.Code)
		}
	}
	return out
}
