package livedom

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/livefir/livedom/internal/memory"
	"github.com/livefir/livedom/internal/session"
)

const sessionCookie = "livedom-session"

// Setup installs listeners and initial data on a freshly created component.
// It runs once per websocket connection and once per HTTP request, before the
// first render.
type Setup func(c *Component)

// Mount returns an http.Handler serving tmpl as a live component.
//
// GET renders the component with the client's session data and returns the
// host markup. A websocket connection owns one document for its lifetime;
// each message is a patch or a dispatch and is answered with the new host
// markup. POST accepts the same messages over plain HTTP, keeping the data in
// a cookie session.
func Mount(tmpl *Template, initial Data, setup Setup, opts ...Option) http.Handler {
	config := newConfig(opts)
	if config.Upgrader == nil {
		config.Upgrader = &websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		}
	}

	h := &liveHandler{
		tmpl:     tmpl,
		initial:  initial,
		setup:    setup,
		config:   config,
		opts:     opts,
		sessions: session.NewManager(24*time.Hour, session.WithMaxSessions(config.SessionLimit)),
		memory:   config.MemoryBudget,
	}
	if h.memory == nil && config.MemoryLimit > 0 {
		h.memory = memory.NewManagerBytes(config.MemoryLimit)
	}
	return h
}

// liveHandler handles both WebSocket and HTTP requests
type liveHandler struct {
	tmpl     *Template
	initial  Data
	setup    Setup
	config   Config
	opts     []Option
	sessions *session.Manager
	memory   *memory.Manager // nil without a memory limit
	views    atomic.Int64
}

// liveView is one document with a mounted component.
type liveView struct {
	doc       *Document
	host      *html.Node
	component *Component
}

func (h *liveHandler) newView(data Data) (*liveView, error) {
	var docOpts []DocumentOption
	if h.config.Collector != nil {
		docOpts = append(docOpts, WithObserver(h.config.Collector))
	}
	doc := NewDocument(docOpts...)

	host := doc.CreateElement("div")
	doc.SetAttribute(host, "data-livedom", h.tmpl.Name())
	if err := doc.AppendChild(doc.Body(), host); err != nil {
		return nil, err
	}

	component, err := UseComponent(h.tmpl, doc, host, h.opts...)
	if err != nil {
		return nil, err
	}
	component.PatchData(h.initial)
	component.PatchData(data)
	if h.setup != nil {
		h.setup(component)
	}
	if err := component.Render(nil); err != nil {
		return nil, fmt.Errorf("initial render failed: %w", err)
	}
	return &liveView{doc: doc, host: host, component: component}, nil
}

// markup returns the host element as the client sees it.
func (v *liveView) markup() string {
	return v.doc.Snapshot(v.doc.Body())
}

// handle applies one message to the view.
func (h *liveHandler) handle(v *liveView, msg message) error {
	switch msg.Action {
	case ActionPatch:
		return v.component.Render(Data(msg.Data))

	case ActionDispatch:
		var req DispatchRequest
		if err := bindAndValidate(msg.Data, &req); err != nil {
			return err
		}
		target := v.doc.FindByID(v.component.Target(), req.ID)
		if target == nil {
			return fmt.Errorf("no element with id %q", req.ID)
		}
		if req.Value != nil {
			v.doc.SetValue(target, *req.Value)
		}
		if req.Checked != nil {
			v.doc.SetChecked(target, *req.Checked)
		}
		if h.config.Collector != nil {
			h.config.Collector.IncrementEvent(req.Type)
		}
		v.doc.Dispatch(target, &Event{Type: req.Type, Detail: msg.Data})
		return nil
	}
	return fmt.Errorf("unknown action %q", msg.Action)
}

func (h *liveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if websocket.IsWebSocketUpgrade(r) {
		h.handleWebSocket(w, r)
		return
	}
	h.handleHTTP(w, r)
}

func (h *liveHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	logger := h.config.Logger

	conn, err := h.config.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	logger.Info("client connected", zap.String("remote", conn.RemoteAddr().String()))
	if c := h.config.Collector; c != nil {
		c.IncrementSessionOpened()
		defer c.IncrementSessionClosed()
	}

	view, err := h.newView(nil)
	if err != nil {
		logger.Error("failed to mount component", zap.Error(err))
		_ = writeReplyWebSocket(conn, reply{Error: err.Error()})
		return
	}

	viewID := fmt.Sprintf("view-%d", h.views.Add(1))
	if h.memory != nil {
		if err := h.memory.Allocate(viewID, int64(len(view.markup()))); err != nil {
			logger.Warn("view rejected", zap.String("view", viewID), zap.Error(err))
			_ = writeReplyWebSocket(conn, reply{Error: err.Error()})
			return
		}
		defer h.memory.Release(viewID)
	}

	if err := writeReplyWebSocket(conn, reply{HTML: view.markup()}); err != nil {
		logger.Warn("failed to send initial render", zap.Error(err))
		return
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("websocket error", zap.Error(err))
			}
			break
		}

		var resp reply
		msg, err := parseMessageFromWebSocket(data)
		if err == nil {
			err = h.handle(view, msg)
		}
		if err != nil {
			logger.Debug("message failed", zap.String("action", msg.Action), zap.Error(err))
			resp.Error = err.Error()
		}
		resp.HTML = view.markup()

		if h.memory != nil {
			if err := h.memory.Update(viewID, int64(len(resp.HTML))); err != nil {
				logger.Warn("view closed", zap.String("view", viewID), zap.Error(err))
				_ = writeReplyWebSocket(conn, reply{Error: err.Error()})
				break
			}
		}

		if err := writeReplyWebSocket(conn, resp); err != nil {
			logger.Warn("websocket write failed", zap.Error(err))
			break
		}
	}

	logger.Info("client disconnected")
}

func (h *liveHandler) handleHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sess, err := h.session(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	view, err := h.newView(sess.Data())
	if err != nil {
		h.config.Logger.Error("failed to mount component", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if r.Method == http.MethodGet {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(view.markup()))
		return
	}

	msg, err := parseMessageFromHTTP(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var resp reply
	if err := h.handle(view, msg); err != nil {
		resp.Error = err.Error()
	}
	sess.Patch(withoutListeners(view.component.GetData()))
	resp.HTML = view.markup()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.config.Logger.Warn("failed to write reply", zap.Error(err))
	}
}

// session returns the client's session, creating one and setting the cookie
// when the request carries none or an expired one.
func (h *liveHandler) session(w http.ResponseWriter, r *http.Request) (*session.Session, error) {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		if sess, ok := h.sessions.GetSession(cookie.Value); ok {
			return sess, nil
		}
	}

	sess, err := h.sessions.CreateSession(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess, nil
}

// withoutListeners drops values that only make sense inside one document.
// Setup installs them again on every request.
func withoutListeners(data Data) Data {
	for k, v := range data {
		if _, ok := v.(EventListener); ok {
			delete(data, k)
		}
	}
	return data
}
