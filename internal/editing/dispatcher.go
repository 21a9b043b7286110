package editing

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/andrevicentegoncalves/pulwave-sub000/internal/gateway"
	"github.com/andrevicentegoncalves/pulwave-sub000/internal/models"
)

// DefaultMaxConcurrentWrites bounds how many locale writes one save runs at once.
const DefaultMaxConcurrentWrites = 8

// Request is one locale write planned by the dispatcher.
type Request struct {
	Unit models.Unit
	gateway.SaveRequest
}

// Result summarises a successful save.
type Result struct {
	Saved   []*models.Translation
	Created int
	Updated int
}

// Dispatcher turns a session's buffer into gateway writes.
type Dispatcher struct {
	writer        gateway.Writer
	maxConcurrent int
	onSaved       func(models.Unit)

	mu       sync.Mutex
	inflight map[string]bool
	active   atomic.Int32
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithMaxConcurrentWrites bounds concurrent locale writes per save.
func WithMaxConcurrentWrites(n int) DispatcherOption {
	return func(d *Dispatcher) {
		if n > 0 {
			d.maxConcurrent = n
		}
	}
}

// WithOnSaved registers a hook run after every successful save, used to
// trigger a refetch of the translation list.
func WithOnSaved(fn func(models.Unit)) DispatcherOption {
	return func(d *Dispatcher) {
		d.onSaved = fn
	}
}

// NewDispatcher creates a dispatcher writing through w.
func NewDispatcher(w gateway.Writer, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		writer:        w,
		maxConcurrent: DefaultMaxConcurrentWrites,
		inflight:      make(map[string]bool),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Saving reports whether any save is running on this dispatcher.
func (d *Dispatcher) Saving() bool {
	return d.active.Load() > 0
}

// Plan validates the unit and buffer and builds one request per locale
// with non-blank text. Locales that already have a sibling record are
// updates and keep the sibling's status and description unless the session
// overrides them; the rest are inserts.
func Plan(s *Session, b Buffer) ([]Request, error) {
	if err := Validate(s.Unit, b); err != nil {
		return nil, err
	}

	statusSet, descriptionSet := s.overrides()
	describes := false
	switch s.Unit.SourceType() {
	case models.SourceSchema, models.SourceMasterData:
		describes = true
	}

	entries := b.NonEmpty()
	reqs := make([]Request, 0, len(entries))
	for _, e := range entries {
		req := Request{
			Unit: s.Unit,
			SaveRequest: gateway.SaveRequest{
				LocaleCode: e.LocaleCode,
				Text:       e.Text,
				Status:     s.Status,
			},
		}
		if describes {
			req.Description = s.Description
		}
		if sib := s.Sibling(e.LocaleCode); sib != nil {
			req.ID = sib.ID
			if !statusSet && sib.Status.Valid() {
				req.Status = sib.Status
			}
			if describes && !descriptionSet {
				req.Description = sib.Description
			}
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}

// Save validates the session and writes every non-blank locale
// concurrently. It returns once all writes settled. A *ValidationError
// means nothing was sent; a *PersistenceError means at least one write
// failed, though others may have been committed.
func (d *Dispatcher) Save(ctx context.Context, s *Session) (*Result, error) {
	buf, err := s.beginSave()
	if err != nil {
		return nil, err
	}
	defer s.endSave()

	reqs, err := Plan(s, buf)
	if err != nil {
		return nil, err
	}

	key := s.Unit.Key()
	if !d.acquire(key) {
		return nil, ErrSaveInProgress
	}
	defer d.release(key)

	saved, failures := d.execute(ctx, reqs)
	if len(failures) > 0 {
		perr := &PersistenceError{UnitKey: key, Attempted: len(reqs), Failures: failures}
		log.Printf("Error saving %s: %v", key, perr)
		return nil, perr
	}

	res := &Result{Saved: saved}
	for _, r := range reqs {
		if r.IsCreate() {
			res.Created++
		} else {
			res.Updated++
		}
	}
	log.Printf("Saved %d translations for %s (%d created, %d updated)", len(saved), key, res.Created, res.Updated)

	if d.onSaved != nil {
		d.onSaved(s.Unit)
	}
	return res, nil
}

func (d *Dispatcher) acquire(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.inflight[key] {
		return false
	}
	d.inflight[key] = true
	d.active.Add(1)
	return true
}

func (d *Dispatcher) release(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.inflight, key)
	d.active.Add(-1)
}

// execute runs every request and waits for all of them. Writes are not
// cancelled when a sibling write fails.
func (d *Dispatcher) execute(ctx context.Context, reqs []Request) ([]*models.Translation, map[string]error) {
	var (
		mu       sync.Mutex
		saved    = make([]*models.Translation, 0, len(reqs))
		failures = make(map[string]error)
	)

	var g errgroup.Group
	g.SetLimit(d.maxConcurrent)
	for _, req := range reqs {
		req := req
		g.Go(func() error {
			rec, err := d.write(ctx, req)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures[req.LocaleCode] = err
				return err
			}
			saved = append(saved, rec)
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(saved, func(i, j int) bool {
		return saved[i].LocaleCode < saved[j].LocaleCode
	})
	return saved, failures
}

func (d *Dispatcher) write(ctx context.Context, req Request) (*models.Translation, error) {
	v := &writeVisitor{ctx: ctx, w: d.writer, req: req.SaveRequest}
	if err := models.Visit(req.Unit, v); err != nil {
		return nil, err
	}
	if v.out == nil {
		return nil, fmt.Errorf("gateway returned no record for %s", req.LocaleCode)
	}
	return v.out, nil
}

// writeVisitor routes a request to the writer method of its unit variant.
type writeVisitor struct {
	ctx context.Context
	w   gateway.Writer
	req gateway.SaveRequest
	out *models.Translation
}

func (v *writeVisitor) VisitUI(u models.UIUnit) (err error) {
	v.out, err = v.w.UpsertUI(v.ctx, u, v.req)
	return err
}

func (v *writeVisitor) VisitSchema(u models.SchemaUnit) (err error) {
	v.out, err = v.w.UpsertSchema(v.ctx, u, v.req)
	return err
}

func (v *writeVisitor) VisitEnum(u models.EnumUnit) (err error) {
	v.out, err = v.w.UpsertEnum(v.ctx, u, v.req)
	return err
}

func (v *writeVisitor) VisitContent(u models.ContentUnit) (err error) {
	v.out, err = v.w.UpsertContent(v.ctx, u, v.req)
	return err
}

func (v *writeVisitor) VisitMasterData(u models.MasterDataUnit) (err error) {
	v.out, err = v.w.UpsertMasterData(v.ctx, u, v.req)
	return err
}
