package editing

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrSaveInProgress is returned when a unit is edited or saved while a
// save for it is still running.
var ErrSaveInProgress = errors.New("a save for this translation unit is already in progress")

// FieldTranslations is the ValidationError field used when no locale has text.
const FieldTranslations = "translations"

// ValidationError reports an edit that cannot be dispatched. It is raised
// before any gateway call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// PersistenceError reports a dispatch where at least one locale write
// failed. Writes for other locales may have been committed.
type PersistenceError struct {
	UnitKey   string
	Attempted int
	Failures  map[string]error
}

func (e *PersistenceError) Error() string {
	locales := e.FailedLocales()
	parts := make([]string, 0, len(locales))
	for _, code := range locales {
		parts = append(parts, fmt.Sprintf("%s: %v", code, e.Failures[code]))
	}
	return fmt.Sprintf("save %s failed: %d of %d locale writes failed (%s)",
		e.UnitKey, len(e.Failures), e.Attempted, strings.Join(parts, "; "))
}

// Unwrap exposes the individual write errors to errors.Is and errors.As.
func (e *PersistenceError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, code := range e.FailedLocales() {
		errs = append(errs, e.Failures[code])
	}
	return errs
}

// FailedLocales returns the locales whose write failed, sorted.
func (e *PersistenceError) FailedLocales() []string {
	codes := make([]string, 0, len(e.Failures))
	for code := range e.Failures {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Partial reports whether some writes of the dispatch succeeded.
func (e *PersistenceError) Partial() bool {
	return len(e.Failures) < e.Attempted
}
