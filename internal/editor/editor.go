// Package editor drives the translation editing workflow: load and group
// translations, open a unit, save it and refetch.
package editor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/andrevicentegoncalves/pulwave-sub000/internal/editing"
	"github.com/andrevicentegoncalves/pulwave-sub000/internal/gateway"
	"github.com/andrevicentegoncalves/pulwave-sub000/internal/grouping"
	"github.com/andrevicentegoncalves/pulwave-sub000/internal/locales"
	"github.com/andrevicentegoncalves/pulwave-sub000/internal/models"
	"github.com/andrevicentegoncalves/pulwave-sub000/internal/viewmodel"
)

// ErrNotEditable is returned when opening a node that is not a unit.
var ErrNotEditable = errors.New("node is not a translation unit")

// Editor holds the loaded translations, their grouped tree and the
// expansion state of the view.
type Editor struct {
	gw         gateway.Gateway
	registry   *locales.Registry
	dispatcher *editing.Dispatcher
	expansion  *viewmodel.Expansion
	groupOpts  []grouping.Option

	stale atomic.Bool

	mu      sync.RWMutex
	filter  gateway.Filter
	records []*models.Translation
	tree    []*grouping.Node
}

// Option configures an Editor.
type Option func(*Editor)

// WithGrouping passes options to every regroup.
func WithGrouping(opts ...grouping.Option) Option {
	return func(e *Editor) { e.groupOpts = append(e.groupOpts, opts...) }
}

// WithExpansion replaces the default collapsed expansion state.
func WithExpansion(x *viewmodel.Expansion) Option {
	return func(e *Editor) { e.expansion = x }
}

// WithMaxConcurrentWrites bounds concurrent locale writes per save.
func WithMaxConcurrentWrites(n int) Option {
	return func(e *Editor) { e.dispatcher = newDispatcher(e, n) }
}

// New creates an editor over gw for the locales in reg.
func New(gw gateway.Gateway, reg *locales.Registry, opts ...Option) *Editor {
	e := &Editor{
		gw:        gw,
		registry:  reg,
		expansion: viewmodel.NewExpansion(),
	}
	e.dispatcher = newDispatcher(e, editing.DefaultMaxConcurrentWrites)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func newDispatcher(e *Editor, n int) *editing.Dispatcher {
	return editing.NewDispatcher(e.gw,
		editing.WithMaxConcurrentWrites(n),
		editing.WithOnSaved(func(models.Unit) { e.stale.Store(true) }),
	)
}

// Load fetches every translation matching f, regroups them and drops
// expansion state of groups that disappeared.
func (e *Editor) Load(ctx context.Context, f gateway.Filter) ([]*grouping.Node, error) {
	records, err := gateway.FetchAll(ctx, e.gw, f)
	if err != nil {
		return nil, err
	}
	tree := grouping.Group(records, e.Registry().Total(), e.groupOpts...)
	if dropped := e.expansion.Retain(tree); dropped > 0 {
		log.Printf("Dropped expansion state of %d vanished groups", dropped)
	}

	e.mu.Lock()
	e.filter = f
	e.records = records
	e.tree = tree
	e.mu.Unlock()
	e.stale.Store(false)
	return tree, nil
}

// Reload repeats the last Load.
func (e *Editor) Reload(ctx context.Context) ([]*grouping.Node, error) {
	e.mu.RLock()
	f := e.filter
	e.mu.RUnlock()
	return e.Load(ctx, f)
}

// Tree returns the current grouped tree.
func (e *Editor) Tree() []*grouping.Node {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tree
}

// Rows renders the tree with the current expansion state.
func (e *Editor) Rows() []viewmodel.Row {
	return e.expansion.Render(e.Tree())
}

// Expansion exposes the view state for toggling.
func (e *Editor) Expansion() *viewmodel.Expansion {
	return e.expansion
}

// Registry returns the active locales.
func (e *Editor) Registry() *locales.Registry {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.registry
}

// SetRegistry replaces the active locales and re-evaluates completeness of
// the loaded tree against the new locale count.
func (e *Editor) SetRegistry(reg *locales.Registry) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.registry = reg
	grouping.Recompute(e.tree, reg.Total())
}

// Saving reports whether any save is in flight.
func (e *Editor) Saving() bool {
	return e.dispatcher.Saving()
}

// Open starts a session for u seeded from the loaded records of that unit.
// A unit with no records opens an empty session for creation.
func (e *Editor) Open(u models.Unit) *editing.Session {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return editing.Open(u, e.records)
}

// OpenNode opens the unit shown at key in the tree.
func (e *Editor) OpenNode(key string) (*editing.Session, error) {
	n := grouping.Find(e.Tree(), key)
	if n == nil {
		return nil, fmt.Errorf("no node %q", key)
	}
	if n.Unit == nil {
		return nil, fmt.Errorf("%s: %w", key, ErrNotEditable)
	}
	return editing.Open(n.Unit, n.Items), nil
}

// Set records text for a locale after resolving it against the registry.
func (e *Editor) Set(s *editing.Session, code, text string) error {
	c, err := e.Registry().Resolve(code)
	if err != nil {
		return &editing.ValidationError{Field: editing.FieldTranslations, Message: err.Error()}
	}
	return s.Set(c, text)
}

// Save dispatches the session and refetches the list afterwards. The
// refetch also runs after a partial failure so committed writes show up.
func (e *Editor) Save(ctx context.Context, s *editing.Session) (*editing.Result, error) {
	res, err := e.dispatcher.Save(ctx, s)

	var perr *editing.PersistenceError
	if errors.As(err, &perr) && perr.Partial() {
		e.stale.Store(true)
	}
	if e.stale.Load() {
		if _, rerr := e.Reload(ctx); rerr != nil {
			log.Printf("Error refetching translations: %v", rerr)
		}
	}
	return res, err
}

// Delete removes one translation record and refetches.
func (e *Editor) Delete(ctx context.Context, id string) error {
	if err := e.gw.DeleteTranslation(ctx, id); err != nil {
		return err
	}
	_, err := e.Reload(ctx)
	return err
}

// Missing lists the active locales a node's unit has no record for.
func (e *Editor) Missing(n *grouping.Node) []string {
	return e.Registry().Missing(n.Items)
}
