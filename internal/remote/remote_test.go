package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/andrevicentegoncalves/pulwave-sub000/internal/gateway"
	"github.com/andrevicentegoncalves/pulwave-sub000/internal/models"
)

// mockLimiter never waits and allows a fixed number of retries.
type mockLimiter struct{ retries int }

func (mockLimiter) Wait(_ context.Context) error { return nil }
func (mockLimiter) Allow() bool                  { return true }
func (mockLimiter) RetryAfter(int) time.Duration { return time.Millisecond }
func (m mockLimiter) MaxRetries() int            { return m.retries }

// fakeAPI is an in-memory admin API.
type fakeAPI struct {
	mu      sync.Mutex
	records map[string]*models.Translation
	nextID  int
	auth    string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{records: make(map[string]*models.Translation)}
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.auth = r.Header.Get("Authorization")

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/translations":
		var rec models.Translation
		if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.nextID++
		rec.ID = "r" + strconv.Itoa(f.nextID)
		f.records[rec.ID] = &rec
		writeJSON(w, http.StatusCreated, rec)
	case r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, "/translations/"):
		id := strings.TrimPrefix(r.URL.Path, "/translations/")
		if _, ok := f.records[id]; !ok {
			http.Error(w, "no such translation", http.StatusNotFound)
			return
		}
		var rec models.Translation
		if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		rec.ID = id
		f.records[id] = &rec
		writeJSON(w, http.StatusOK, rec)
	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/translations/"):
		id := strings.TrimPrefix(r.URL.Path, "/translations/")
		if _, ok := f.records[id]; !ok {
			http.Error(w, "no such translation", http.StatusNotFound)
			return
		}
		delete(f.records, id)
		w.WriteHeader(http.StatusNoContent)
	case r.Method == http.MethodGet && r.URL.Path == "/translations":
		page := gateway.Page{}
		locale := r.URL.Query().Get("locale_code")
		for _, rec := range f.records {
			if locale != "" && rec.LocaleCode != locale {
				continue
			}
			page.Records = append(page.Records, rec)
		}
		page.TotalCount = len(page.Records)
		writeJSON(w, http.StatusOK, page)
	case r.Method == http.MethodGet && r.URL.Path == "/catalog/enums/order_status/values":
		writeJSON(w, http.StatusOK, []string{"pending", "shipped"})
	case r.Method == http.MethodGet && r.URL.Path == "/catalog/tables/users/records":
		if r.URL.Query().Get("limit") != "5" {
			http.Error(w, "missing limit", http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, []gateway.RecordLabel{{ID: "1", Label: "ana@example.com"}})
	case r.Method == http.MethodGet && r.URL.Path == "/locales":
		writeJSON(w, http.StatusOK, []models.Locale{{Code: "en-US", Name: "English", IsActive: true}})
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeAPI) lastAuth() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.auth
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", "secret", mockLimiter{retries: 2})
}

func TestUpsertCreatesThenUpdates(t *testing.T) {
	api := newFakeAPI()
	c := newTestClient(t, api)
	ctx := context.Background()
	u := models.MasterDataUnit{Target: models.TargetValue, TypeID: "country", ValueID: "pt"}

	created, err := c.UpsertMasterData(ctx, u, gateway.SaveRequest{LocaleCode: "en-US", Text: "Portugal", Description: "Country name"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" || created.UnitKey != u.Key() || created.Description != "Country name" {
		t.Fatalf("unexpected created record: %+v", created)
	}
	if auth := api.lastAuth(); auth != "Bearer secret" {
		t.Fatalf("expected bearer token, got %q", auth)
	}

	updated, err := c.UpsertMasterData(ctx, u, gateway.SaveRequest{ID: created.ID, LocaleCode: "en-US", Text: "Portuguese Republic"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != created.ID || updated.Text != "Portuguese Republic" {
		t.Fatalf("unexpected updated record: %+v", updated)
	}

	page, err := c.ListTranslations(ctx, gateway.Filter{LocaleCode: "en-US"})
	if err != nil {
		t.Fatalf("ListTranslations: %v", err)
	}
	if page.TotalCount != 1 {
		t.Fatalf("expected one record, got %d", page.TotalCount)
	}
}

func TestUpdateMissingIsNotFound(t *testing.T) {
	c := newTestClient(t, newFakeAPI())
	_, err := c.UpsertUI(context.Background(), models.UIUnit{TranslationKey: "nav.home"},
		gateway.SaveRequest{ID: "gone", LocaleCode: "en-US", Text: "Home"})
	if !errors.Is(err, gateway.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	var serr *StatusError
	if !errors.As(err, &serr) || serr.Code != http.StatusNotFound {
		t.Fatalf("expected StatusError 404, got %v", err)
	}
}

func TestInvalidUnitIsNotSent(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	_, err := c.UpsertEnum(context.Background(), models.EnumUnit{EnumName: "order_status"},
		gateway.SaveRequest{LocaleCode: "en-US", Text: "x"})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if calls.Load() != 0 {
		t.Fatalf("expected no request, got %d", calls.Load())
	}
}

func TestRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, http.StatusOK, []string{"users"})
	}))

	tables, err := c.ListConfiguredTables(context.Background())
	if err != nil {
		t.Fatalf("ListConfiguredTables: %v", err)
	}
	if len(tables) != 1 || calls.Load() != 3 {
		t.Fatalf("expected success on third attempt, got %v after %d calls", tables, calls.Load())
	}
}

func TestTransportErrorsRetryUpdatesOnly(t *testing.T) {
	var posts, puts atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			posts.Add(1)
		case http.MethodPut:
			puts.Add(1)
		}
		conn, _, err := w.(http.Hijacker).Hijack()
		if err != nil {
			t.Errorf("hijack: %v", err)
			return
		}
		_ = conn.Close()
	}))
	ctx := context.Background()
	u := models.EnumUnit{EnumName: "order_status", EnumValue: "pending"}

	if _, err := c.UpsertEnum(ctx, u, gateway.SaveRequest{LocaleCode: "en-US", Text: "Pending"}); err == nil {
		t.Fatalf("expected create to fail")
	}
	if posts.Load() != 1 {
		t.Fatalf("expected a create to be sent once, got %d", posts.Load())
	}

	if _, err := c.UpsertEnum(ctx, u, gateway.SaveRequest{ID: "r1", LocaleCode: "en-US", Text: "Pending"}); err == nil {
		t.Fatalf("expected update to fail")
	}
	if puts.Load() != 3 {
		t.Fatalf("expected an update plus 2 retries, got %d", puts.Load())
	}
}

func TestClientErrorsAreNotRetried(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad filter", http.StatusBadRequest)
	}))

	_, err := c.ListTranslations(context.Background(), gateway.Filter{})
	var serr *StatusError
	if !errors.As(err, &serr) || serr.Code != http.StatusBadRequest || serr.Body != "bad filter" {
		t.Fatalf("expected 400 StatusError, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single call, got %d", calls.Load())
	}
}

func TestCatalogAndDelete(t *testing.T) {
	api := newFakeAPI()
	c := newTestClient(t, api)
	ctx := context.Background()

	vals, err := c.ListEnumValues(ctx, "order_status")
	if err != nil || len(vals) != 2 {
		t.Fatalf("ListEnumValues: %v %v", vals, err)
	}
	recs, err := c.ListRecordsForContentTarget(ctx, "users", 5)
	if err != nil || len(recs) != 1 || recs[0].Label != "ana@example.com" {
		t.Fatalf("ListRecordsForContentTarget: %v %v", recs, err)
	}
	locs, err := c.ListLocales(ctx)
	if err != nil || len(locs) != 1 {
		t.Fatalf("ListLocales: %v %v", locs, err)
	}

	rec, err := c.UpsertUI(ctx, models.UIUnit{TranslationKey: "nav.home"}, gateway.SaveRequest{LocaleCode: "en-US", Text: "Home"})
	if err != nil {
		t.Fatalf("UpsertUI: %v", err)
	}
	if err := c.DeleteTranslation(ctx, rec.ID); err != nil {
		t.Fatalf("DeleteTranslation: %v", err)
	}
	if err := c.DeleteTranslation(ctx, rec.ID); !errors.Is(err, gateway.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRetryAfterHeader(t *testing.T) {
	if d := retryAfter("2"); d != 2*time.Second {
		t.Fatalf("expected 2s, got %v", d)
	}
	if d := retryAfter("soon"); d != 0 {
		t.Fatalf("expected 0 for unparseable header, got %v", d)
	}
}
