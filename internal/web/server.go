// Package web serves a list over HTTP: a server-rendered page with plain form
// posts, plus a datastar event stream that patches the page when the list
// changes (from this page, the TUI or the CLI).
package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"shoplist-cli/internal/controller"
	"shoplist-cli/internal/docs"
	"shoplist-cli/internal/listview"
	"shoplist-cli/internal/logging"
	"shoplist-cli/internal/model"
	"shoplist-cli/internal/store"

	"github.com/charmbracelet/log"
	"github.com/starfederation/datastar-go/datastar"
)

//go:generate curl -fsSL -o static/datastar.js https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0/bundles/datastar.js

// static/* also picks up static/datastar.js once it has been vendored.
//
//go:embed templates/*.html static/*
var assetsFS embed.FS

// datastarCDN is where /static/datastar.js points while no bundle is embedded.
const datastarCDN = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0/bundles/datastar.js"

const mainSelector = "#shoplist-main"

type ServerConfig struct {
	Addr     string
	Dir      string
	ListName string
	ReadOnly bool
}

type Server struct {
	mu     sync.Mutex
	cfg    ServerConfig
	tmpl   *template.Template
	logger *log.Logger
	hub    *resourceHub

	view   *listview.List
	prompt *requestPrompter
	ctrl   *controller.Controller

	// Shown on the page until the next mutation.
	flash   string
	confirm *confirmVM
}

func NewServer(cfg ServerConfig, repo controller.Repository, logger *log.Logger) (*Server, error) {
	cfg.Addr = strings.TrimSpace(cfg.Addr)
	cfg.Dir = strings.TrimSpace(cfg.Dir)
	cfg.ListName = strings.TrimSpace(cfg.ListName)
	if cfg.Addr == "" {
		return nil, errors.New("web: addr is empty")
	}
	if repo == nil {
		return nil, errors.New("web: nil repository")
	}
	if logger == nil {
		logger = logging.Discard()
	}

	tmpl, err := template.New("base").Funcs(template.FuncMap{
		"join": strings.Join,
	}).ParseFS(assetsFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	view := listview.New()
	prompt := &requestPrompter{}
	s := &Server{
		cfg:    cfg,
		tmpl:   tmpl,
		logger: logger,
		hub:    newResourceHub(),
		view:   view,
		prompt: prompt,
		ctrl:   controller.New(repo, view, prompt, logger),
	}
	if err := s.ctrl.Dispatch(controller.Load()); err != nil {
		return nil, fmt.Errorf("web: load list: %w", err)
	}
	return s, nil
}

func (s *Server) Addr() string { return s.cfg.Addr }

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /events", s.handleEvents)
	mux.HandleFunc("GET /static/app.css", s.handleAppCSS)
	mux.HandleFunc("GET /static/datastar.js", s.handleDatastarJS)
	mux.HandleFunc("GET /api/items", s.handleAPIItems)
	mux.HandleFunc("GET /help", s.handleHelp)
	mux.HandleFunc("GET /help/{topic}", s.handleHelp)
	mux.HandleFunc("POST /items", s.mutation(submitEvent))
	mux.HandleFunc("POST /items/toggle", s.mutation(rowEvent(controller.ClickToggle)))
	mux.HandleFunc("POST /items/edit", s.mutation(rowEvent(controller.ClickRow)))
	mux.HandleFunc("POST /items/remove", s.mutation(rowEvent(controller.ClickRemove)))
	mux.HandleFunc("POST /items/clear", s.mutation(func(*Server, *http.Request) controller.Event { return controller.ClearAll() }))
	mux.HandleFunc("POST /items/cancel", s.mutation(func(*Server, *http.Request) controller.Event { return controller.CancelEdit() }))
	mux.HandleFunc("GET /{$}", s.handleHome)
	return mux
}

// Watch pushes changes written by other processes to open pages. It blocks
// until ctx is done.
func (s *Server) Watch(ctx context.Context) error {
	if s.cfg.Dir == "" {
		return errors.New("web: dir is empty")
	}
	return store.Watch(ctx, s.cfg.Dir, s.reloadFromDisk)
}

func (s *Server) reloadFromDisk() {
	s.mu.Lock()
	changed, err := s.syncLocked()
	s.mu.Unlock()
	if err != nil {
		s.logger.Warn("reload list", "err", err)
		return
	}
	if changed {
		s.logger.Info("list changed on disk", "dir", s.cfg.Dir)
		s.hub.broadcast()
	}
}

// syncLocked reloads the rendered rows if the store moved on without us.
// An edit in progress is dropped in that case.
func (s *Server) syncLocked() (bool, error) {
	ok, err := s.ctrl.InSync()
	if err != nil || ok {
		return false, err
	}
	if err := s.ctrl.Dispatch(controller.Load()); err != nil {
		return false, err
	}
	return true, nil
}

type eventBuilder func(s *Server, r *http.Request) controller.Event

func submitEvent(_ *Server, r *http.Request) controller.Event {
	return controller.Submit(r.PostFormValue("text"))
}

// rowEvent resolves the posted name to its row. A stale name yields a nil row,
// which the controller ignores.
func rowEvent(mk func(*listview.Row) controller.Event) eventBuilder {
	return func(s *Server, r *http.Request) controller.Event {
		return mk(s.view.Find(r.PostFormValue("name")))
	}
}

type mutationResult struct {
	OK      bool         `json:"ok"`
	Error   string       `json:"error,omitempty"`
	Confirm string       `json:"confirm,omitempty"`
	Items   []model.Item `json:"items"`
}

func (s *Server) mutation(build eventBuilder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.ReadOnly {
			http.Error(w, "read-only", http.StatusForbidden)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		s.mu.Lock()
		s.flash = ""
		s.confirm = nil
		if _, err := s.syncLocked(); err != nil {
			s.mu.Unlock()
			s.logger.Error("load list", "err", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		s.prompt.reset(r.PostFormValue("confirmed") == "1")
		ev := build(s, r)
		err := s.ctrl.Dispatch(ev)
		if len(s.prompt.alerts) > 0 {
			s.flash = strings.Join(s.prompt.alerts, " ")
		}
		if s.prompt.pending != "" {
			s.confirm = &confirmVM{
				Message: s.prompt.pending,
				Action:  r.URL.Path,
				Name:    r.PostFormValue("name"),
			}
		}
		res := mutationResult{OK: err == nil && s.confirm == nil, Items: s.view.Items()}
		if s.confirm != nil {
			res.Confirm = s.confirm.Message
		}
		s.mu.Unlock()

		s.hub.broadcast()

		if err != nil && !controller.IsValidation(err) {
			s.logger.Error("dispatch failed", "event", ev.Kind, "err", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if err != nil {
			res.Error = err.Error()
		}
		if wantsJSON(r) {
			status := http.StatusOK
			if err != nil {
				status = http.StatusUnprocessableEntity
			}
			writeJSON(w, status, res)
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	if _, err := s.syncLocked(); err != nil {
		s.mu.Unlock()
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if q, ok := r.URL.Query()["q"]; ok {
		_ = s.ctrl.Dispatch(controller.FilterInput(q[0]))
	}
	vm := pageVM{
		Title:     s.title(),
		ListName:  s.cfg.ListName,
		StreamURL: "/events",
		Main:      s.mainVMLocked(),
	}
	s.mu.Unlock()
	s.writeHTMLTemplate(w, "page", vm)
}

func (s *Server) handleAPIItems(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	_, err := s.syncLocked()
	list := s.view.Items()
	s.mu.Unlock()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleHelp(w http.ResponseWriter, r *http.Request) {
	topic := r.PathValue("topic")
	if topic == "" {
		topic = "keys"
	}
	md, ok := docs.Get(topic)
	if !ok {
		http.NotFound(w, r)
		return
	}
	s.writeHTMLTemplate(w, "help", helpVM{
		Title:  docs.Title(topic),
		Topics: docs.Topics(),
		Body:   renderMarkdownHTML(md),
	})
}

// handleEvents streams the list region as datastar element patches: once on
// connect, then after every change.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	ch, cancel := s.hub.subscribe()
	defer cancel()

	sse := datastar.NewSSE(w, r)
	patch := func() {
		html, counts, err := s.renderMain()
		if err != nil {
			_ = sse.ExecuteScript(fmt.Sprintf(`console.error(%q)`, err.Error()))
			return
		}
		_ = sse.PatchElements(html, datastar.WithSelector(mainSelector), datastar.WithMode(datastar.ElementPatchModeOuter))
		_ = sse.MarshalAndPatchSignals(counts)
	}
	patch()

	keepAlive := time.NewTicker(25 * time.Second)
	defer keepAlive.Stop()
	for {
		select {
		case <-sse.Context().Done():
			return
		case <-keepAlive.C:
			_ = sse.PatchSignals([]byte(`{}`))
		case <-ch:
			patch()
		}
	}
}

func (s *Server) handleDatastarJS(w http.ResponseWriter, r *http.Request) {
	b, err := assetsFS.ReadFile("static/datastar.js")
	if err != nil || len(b) == 0 {
		http.Redirect(w, r, datastarCDN, http.StatusFound)
		return
	}
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func (s *Server) handleAppCSS(w http.ResponseWriter, r *http.Request) {
	b, err := assetsFS.ReadFile("static/app.css")
	if err != nil || len(b) == 0 {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) title() string {
	if s.cfg.ListName != "" && s.cfg.ListName != "default" {
		return "Shopping list: " + s.cfg.ListName
	}
	return "Shopping list"
}

func (s *Server) renderMain() (string, map[string]any, error) {
	s.mu.Lock()
	vm := s.mainVMLocked()
	s.mu.Unlock()
	html, err := s.renderTemplate("main", vm)
	return html, map[string]any{"total": vm.Total, "bought": vm.Bought}, err
}

func (s *Server) renderTemplate(name string, data any) (string, error) {
	var b strings.Builder
	if err := s.tmpl.ExecuteTemplate(&b, name, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (s *Server) writeHTMLTemplate(w http.ResponseWriter, name string, data any) {
	html, err := s.renderTemplate(name, data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, html)
}
