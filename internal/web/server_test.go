package web

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"strings"
	"testing"
	"time"

	"shoplist-cli/internal/items"
	"shoplist-cli/internal/model"
	"shoplist-cli/internal/store"
)

func newTestServer(t *testing.T, cfg ServerConfig, seed ...model.Item) (*Server, *store.ItemStore) {
	t.Helper()
	st := store.NewItemStore(store.NewMemoryBackend(), nil)
	if len(seed) > 0 {
		if err := st.Save(seed); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:0"
	}
	s, err := NewServer(cfg, items.New(st), nil)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return s, st
}

func post(t *testing.T, h http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func mustLoad(t *testing.T, st *store.ItemStore) []model.Item {
	t.Helper()
	got, err := st.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return got
}

func TestNewServer_RejectsEmptyAddr(t *testing.T) {
	st := store.NewItemStore(store.NewMemoryBackend(), nil)
	if _, err := NewServer(ServerConfig{Addr: "  "}, items.New(st), nil); err == nil {
		t.Fatalf("expected error for empty addr")
	}
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, ServerConfig{})
	rec := get(t, s.Handler(), "/health")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok\n" {
		t.Fatalf("unexpected health response: %d %q", rec.Code, rec.Body.String())
	}
}

func TestHome_RendersItemsAndChrome(t *testing.T) {
	s, _ := newTestServer(t, ServerConfig{ListName: "groceries"}, model.Item{Name: "Milk"}, model.Item{Name: "Bread", Bought: true})
	rec := get(t, s.Handler(), "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Shopping list: groceries", `id="shoplist-main"`, "Milk", "Bread", `class="item bought"`, "Add Item", "Clear All", `name="q"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in page", want)
		}
	}
}

func TestHome_EmptyListHidesClearAndFilter(t *testing.T) {
	s, _ := newTestServer(t, ServerConfig{})
	body := get(t, s.Handler(), "/").Body.String()
	if strings.Contains(body, "Clear All") || strings.Contains(body, `name="q"`) {
		t.Fatalf("clear and filter must be hidden for an empty list")
	}
	if !strings.Contains(body, "Nothing on the list.") {
		t.Fatalf("expected empty placeholder")
	}
}

func TestHome_FilterHidesRows(t *testing.T) {
	s, _ := newTestServer(t, ServerConfig{}, model.Item{Name: "Oat milk"}, model.Item{Name: "Bread"})
	body := get(t, s.Handler(), "/?q=MILK").Body.String()
	if !strings.Contains(body, `<li class="item" hidden>`) {
		t.Fatalf("expected Bread row to be hidden:\n%s", body)
	}
	if strings.Count(body, " hidden>") != 1 {
		t.Fatalf("expected exactly one hidden row")
	}
}

func TestPostItems_AddsCapitalizedAndRedirects(t *testing.T) {
	s, st := newTestServer(t, ServerConfig{})
	rec := post(t, s.Handler(), "/items", url.Values{"text": {"  milk "}})
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/" {
		t.Fatalf("expected 303 to /, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	want := []model.Item{{Name: "Milk"}}
	if got := mustLoad(t, st); !reflect.DeepEqual(want, got) {
		t.Fatalf("want %#v, got %#v", want, got)
	}
}

func TestPostItems_DuplicateShowsFlash(t *testing.T) {
	s, st := newTestServer(t, ServerConfig{}, model.Item{Name: "Milk"})
	h := s.Handler()
	post(t, h, "/items", url.Values{"text": {"milk"}})
	if got := mustLoad(t, st); len(got) != 1 {
		t.Fatalf("duplicate must not be stored: %#v", got)
	}
	body := get(t, h, "/").Body.String()
	if !strings.Contains(body, "Item already exists in the list") {
		t.Fatalf("expected duplicate flash")
	}

	// The next mutation clears the flash.
	post(t, h, "/items", url.Values{"text": {"bread"}})
	if strings.Contains(get(t, h, "/").Body.String(), "Item already exists") {
		t.Fatalf("flash should be cleared")
	}
}

func TestPostItems_JSONReportsValidation(t *testing.T) {
	s, _ := newTestServer(t, ServerConfig{})
	req := httptest.NewRequest(http.MethodPost, "/items", strings.NewReader("text=+++"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	var res mutationResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.OK || res.Error != "Please add an item" {
		t.Fatalf("unexpected result: %#v", res)
	}
}

func TestToggle_FlipsBought(t *testing.T) {
	s, st := newTestServer(t, ServerConfig{}, model.Item{Name: "Milk"})
	h := s.Handler()
	post(t, h, "/items/toggle", url.Values{"name": {"Milk"}})
	if got := mustLoad(t, st); !got[0].Bought {
		t.Fatalf("expected bought")
	}
	post(t, h, "/items/toggle", url.Values{"name": {"Milk"}})
	if got := mustLoad(t, st); got[0].Bought {
		t.Fatalf("expected not bought")
	}
}

func TestToggle_UnknownNameIsIgnored(t *testing.T) {
	s, st := newTestServer(t, ServerConfig{}, model.Item{Name: "Milk"})
	rec := post(t, s.Handler(), "/items/toggle", url.Values{"name": {"Eggs"}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", rec.Code)
	}
	if got := mustLoad(t, st); got[0].Bought {
		t.Fatalf("nothing should change")
	}
}

func TestEdit_ThenSubmitRenames(t *testing.T) {
	s, st := newTestServer(t, ServerConfig{}, model.Item{Name: "Milk", Bought: true}, model.Item{Name: "Bread"})
	h := s.Handler()
	post(t, h, "/items/edit", url.Values{"name": {"Milk"}})

	body := get(t, h, "/").Body.String()
	if !strings.Contains(body, "Update Item") || !strings.Contains(body, `value="Milk"`) || !strings.Contains(body, "edit-mode") {
		t.Fatalf("expected edit chrome:\n%s", body)
	}

	post(t, h, "/items", url.Values{"text": {"oat milk"}})
	want := []model.Item{{Name: "Bread"}, {Name: "Oat milk"}}
	if got := mustLoad(t, st); !reflect.DeepEqual(want, got) {
		t.Fatalf("want %#v, got %#v", want, got)
	}
	if strings.Contains(get(t, h, "/").Body.String(), "Update Item") {
		t.Fatalf("edit mode should end after submit")
	}
}

func TestCancelEdit_RestoresAddChrome(t *testing.T) {
	s, st := newTestServer(t, ServerConfig{}, model.Item{Name: "Milk"})
	h := s.Handler()
	post(t, h, "/items/edit", url.Values{"name": {"Milk"}})
	post(t, h, "/items/cancel", nil)
	body := get(t, h, "/").Body.String()
	if strings.Contains(body, "Update Item") || strings.Contains(body, "edit-mode") {
		t.Fatalf("expected normal chrome after cancel")
	}
	if got := mustLoad(t, st); len(got) != 1 {
		t.Fatalf("cancel must not mutate: %#v", got)
	}
}

func TestRemove_RequiresConfirmation(t *testing.T) {
	s, st := newTestServer(t, ServerConfig{}, model.Item{Name: "Milk"}, model.Item{Name: "Bread"})
	h := s.Handler()

	post(t, h, "/items/remove", url.Values{"name": {"Milk"}})
	if got := mustLoad(t, st); len(got) != 2 {
		t.Fatalf("remove without confirmation must not mutate: %#v", got)
	}
	body := get(t, h, "/").Body.String()
	if !strings.Contains(body, `role="dialog"`) || !strings.Contains(body, `name="confirmed" value="1"`) {
		t.Fatalf("expected confirm box")
	}

	post(t, h, "/items/remove", url.Values{"name": {"Milk"}, "confirmed": {"1"}})
	want := []model.Item{{Name: "Bread"}}
	if got := mustLoad(t, st); !reflect.DeepEqual(want, got) {
		t.Fatalf("want %#v, got %#v", want, got)
	}
}

func TestClear_Confirmed(t *testing.T) {
	s, st := newTestServer(t, ServerConfig{}, model.Item{Name: "Milk"})
	h := s.Handler()
	post(t, h, "/items/clear", nil)
	if got := mustLoad(t, st); len(got) != 1 {
		t.Fatalf("clear without confirmation must not mutate")
	}
	post(t, h, "/items/clear", url.Values{"confirmed": {"1"}})
	if got := mustLoad(t, st); len(got) != 0 {
		t.Fatalf("expected empty list, got %#v", got)
	}
}

func TestReadOnly_RejectsMutations(t *testing.T) {
	s, st := newTestServer(t, ServerConfig{ReadOnly: true}, model.Item{Name: "Milk"})
	h := s.Handler()
	rec := post(t, h, "/items", url.Values{"text": {"bread"}})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if got := mustLoad(t, st); len(got) != 1 {
		t.Fatalf("read-only server mutated the list")
	}
	if strings.Contains(get(t, h, "/").Body.String(), `action="/items"`) {
		t.Fatalf("read-only page should not render the add form")
	}
}

func TestAPIItems_PicksUpExternalWrites(t *testing.T) {
	s, st := newTestServer(t, ServerConfig{}, model.Item{Name: "Milk"})
	if err := st.Save([]model.Item{{Name: "Eggs", Bought: true}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	rec := get(t, s.Handler(), "/api/items")
	var got []model.Item
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []model.Item{{Name: "Eggs", Bought: true}}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("want %#v, got %#v", want, got)
	}
}

func TestHelp_RendersDocs(t *testing.T) {
	s, _ := newTestServer(t, ServerConfig{})
	h := s.Handler()
	rec := get(t, h, "/help")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `<article class="doc">`) {
		t.Fatalf("unexpected help response: %d", rec.Code)
	}
	if rec := get(t, h, "/help/storage"); rec.Code != http.StatusOK {
		t.Fatalf("expected storage topic, got %d", rec.Code)
	}
	if rec := get(t, h, "/help/nope"); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown topic, got %d", rec.Code)
	}
}

func TestAppCSS(t *testing.T) {
	s, _ := newTestServer(t, ServerConfig{})
	rec := get(t, s.Handler(), "/static/app.css")
	if rec.Code != http.StatusOK || !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/css") {
		t.Fatalf("unexpected css response: %d %q", rec.Code, rec.Header().Get("Content-Type"))
	}
}

func TestDatastarJS_ServedLocally(t *testing.T) {
	s, _ := newTestServer(t, ServerConfig{})
	h := s.Handler()

	if rec := get(t, h, "/"); !strings.Contains(rec.Body.String(), `src="/static/datastar.js"`) {
		t.Fatalf("page should load datastar from /static")
	}

	rec := get(t, h, "/static/datastar.js")
	if _, err := assetsFS.ReadFile("static/datastar.js"); err == nil {
		if rec.Code != http.StatusOK || !strings.HasPrefix(rec.Header().Get("Content-Type"), "application/javascript") {
			t.Fatalf("unexpected bundle response: %d %q", rec.Code, rec.Header().Get("Content-Type"))
		}
		return
	}
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != datastarCDN {
		t.Fatalf("expected redirect to %s without an embedded bundle, got %d %q", datastarCDN, rec.Code, rec.Header().Get("Location"))
	}
}

func TestEvents_StreamsPatchOnConnectAndChange(t *testing.T) {
	s, _ := newTestServer(t, ServerConfig{}, model.Item{Name: "Milk"})
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/events", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Fatalf("unexpected content type %q", ct)
	}

	sc := bufio.NewScanner(resp.Body)
	waitFor := func(want string) {
		t.Helper()
		for sc.Scan() {
			if strings.Contains(sc.Text(), want) {
				return
			}
		}
		t.Fatalf("stream ended before %q: %v", want, sc.Err())
	}
	waitFor("datastar-patch-elements")
	waitFor("Milk")

	form := url.Values{"text": {"bread"}}
	r, err := http.PostForm(ts.URL+"/items", form)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	r.Body.Close()
	waitFor("Bread")
}

func TestResourceHub_CoalescesAndUnsubscribes(t *testing.T) {
	h := newResourceHub()
	ch, cancel := h.subscribe()
	h.broadcast()
	h.broadcast()
	if len(ch) != 1 {
		t.Fatalf("expected coalesced signal, got %d", len(ch))
	}
	cancel()
	if h.len() != 0 {
		t.Fatalf("expected no subscribers")
	}
	h.broadcast()
}
