package editing

import (
	"errors"
	"sort"
	"sync"

	"github.com/andrevicentegoncalves/pulwave-sub000/internal/models"
)

// Validate checks the unit's required key fields and that at least one
// locale has non-blank text.
func Validate(u models.Unit, b Buffer) error {
	if u == nil {
		return &ValidationError{Field: "source_type", Message: "no translation unit selected"}
	}
	if err := u.Validate(); err != nil {
		var missing *models.MissingFieldError
		if errors.As(err, &missing) {
			return &ValidationError{Field: missing.Field, Message: "is required"}
		}
		return &ValidationError{Field: "unit", Message: err.Error()}
	}
	if len(b.NonEmpty()) == 0 {
		return &ValidationError{Field: FieldTranslations, Message: "at least one locale needs a non-empty text"}
	}
	return nil
}

// Session is one open editor for a translation unit. The siblings it was
// opened with are a read-only snapshot; edits only touch the buffer.
//
// Status and Description are used for locales without a sibling. Existing
// locales keep their own values unless SetStatus or SetDescription is called.
type Session struct {
	Unit        models.Unit
	Status      models.Status
	Description string

	mu             sync.Mutex
	buffer         Buffer
	siblings       map[string]*models.Translation
	saving         bool
	statusSet      bool
	descriptionSet bool
}

// Open starts a session for u. Records in loaded that belong to other
// units are ignored.
func Open(u models.Unit, loaded []*models.Translation) *Session {
	s := &Session{
		Unit:     u,
		Status:   models.StatusDraft,
		siblings: make(map[string]*models.Translation),
	}

	var siblings []*models.Translation
	for _, t := range loaded {
		if t == nil || !models.SameUnit(u, t) {
			continue
		}
		if _, dup := s.siblings[t.LocaleCode]; dup {
			continue
		}
		s.siblings[t.LocaleCode] = t
		siblings = append(siblings, t)
	}
	sort.Slice(siblings, func(i, j int) bool {
		return siblings[i].LocaleCode < siblings[j].LocaleCode
	})

	if len(siblings) > 0 {
		if siblings[0].Status.Valid() {
			s.Status = siblings[0].Status
		}
		for _, t := range siblings {
			if t.Description != "" {
				s.Description = t.Description
				break
			}
		}
	}
	s.buffer = Seed(siblings)
	return s
}

// Set records an edit for one locale.
func (s *Session) Set(code, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saving {
		return ErrSaveInProgress
	}
	s.buffer = SetLocale(s.buffer, code, text)
	return nil
}

// SetStatus applies st to every locale written by the next save.
func (s *Session) SetStatus(st models.Status) error {
	if !st.Valid() {
		return &ValidationError{Field: "status", Message: "unknown status " + string(st)}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saving {
		return ErrSaveInProgress
	}
	s.Status = st
	s.statusSet = true
	return nil
}

// SetDescription applies d to every locale written by the next save.
func (s *Session) SetDescription(d string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saving {
		return ErrSaveInProgress
	}
	s.Description = d
	s.descriptionSet = true
	return nil
}

func (s *Session) overrides() (status, description bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusSet, s.descriptionSet
}

// Buffer returns a copy of the current edits.
func (s *Session) Buffer() Buffer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buffer.Clone()
}

// Sibling returns the loaded record for code, or nil.
func (s *Session) Sibling(code string) *models.Translation {
	return s.siblings[code]
}

// Siblings returns the loaded records of the unit sorted by locale.
func (s *Session) Siblings() []*models.Translation {
	out := make([]*models.Translation, 0, len(s.siblings))
	for _, t := range s.siblings {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LocaleCode < out[j].LocaleCode
	})
	return out
}

// Validate checks the session's unit and buffer.
func (s *Session) Validate() error {
	return Validate(s.Unit, s.Buffer())
}

// Saving reports whether a save for this session is running.
func (s *Session) Saving() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saving
}

func (s *Session) beginSave() (Buffer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saving {
		return nil, ErrSaveInProgress
	}
	s.saving = true
	return s.buffer.Clone(), nil
}

func (s *Session) endSave() {
	s.mu.Lock()
	s.saving = false
	s.mu.Unlock()
}
