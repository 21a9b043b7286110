// Package editing collects per-locale edits of one translation unit and
// dispatches the matching create and update calls.
package editing

import (
	"sort"
	"strings"

	"github.com/andrevicentegoncalves/pulwave-sub000/internal/models"
)

// Buffer maps locale codes to edited text for one translation unit.
// Locales without a value are absent, not empty strings.
type Buffer map[string]string

// Entry is one locale value of a buffer.
type Entry struct {
	LocaleCode string
	Text       string
}

// Seed builds a buffer from the sibling records loaded for a unit.
func Seed(siblings []*models.Translation) Buffer {
	b := make(Buffer, len(siblings))
	for _, s := range siblings {
		if s == nil || s.LocaleCode == "" {
			continue
		}
		b[s.LocaleCode] = s.Text
	}
	return b
}

// SetLocale returns a copy of b with code set to text.
func SetLocale(b Buffer, code, text string) Buffer {
	out := b.Clone()
	out[code] = text
	return out
}

// Clone returns an independent copy of b.
func (b Buffer) Clone() Buffer {
	out := make(Buffer, len(b)+1)
	for k, v := range b {
		out[k] = v
	}
	return out
}

// NonEmpty returns the entries whose text is non-empty after trimming,
// sorted by locale code.
func (b Buffer) NonEmpty() []Entry {
	entries := make([]Entry, 0, len(b))
	for code, text := range b {
		if strings.TrimSpace(text) == "" {
			continue
		}
		entries = append(entries, Entry{LocaleCode: code, Text: text})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].LocaleCode < entries[j].LocaleCode
	})
	return entries
}
