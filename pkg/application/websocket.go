package application

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/go-faster/errors"
	"github.com/gorilla/mux"
	"github.com/iota-uz/go-i18n/v2/i18n"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"

	"github.com/cams7/cadferias/pkg/composables"
	"github.com/cams7/cadferias/pkg/intl"
	"github.com/cams7/cadferias/pkg/session"
	"github.com/cams7/cadferias/pkg/ws"
)

// FormVar is the route variable naming the form a websocket belongs to.
const FormVar = "form"

func SessionChannel(sessionID string) string {
	return "session/" + sessionID
}

func FormChannel(sessionID, formID string) string {
	return fmt.Sprintf("session/%s/forms/%s", sessionID, formID)
}

type HuberOptions struct {
	Bundle             *i18n.Bundle
	Logger             *logrus.Logger
	CheckOrigin        func(r *http.Request) bool
	Sessions           *session.Store
	SupportedLanguages []string
}

type Connection interface {
	ws.Connectioner
	SessionID() string
	FormID() string
}

type WsCallback func(ctx context.Context, conn Connection) error

// MessageHandler receives client messages with a context carrying the
// connection's session, localizer and logger.
type MessageHandler func(ctx context.Context, conn Connection, message []byte)

type Huber interface {
	http.Handler
	ForEach(channel string, f WsCallback) error
	Broadcast(channel string, payload any) error
	OnMessage(handler MessageHandler)
}

func NewHub(opts *HuberOptions) Huber {
	supported := intl.GetSupportedLanguages(opts.SupportedLanguages)
	supportedTags := make([]language.Tag, 0, len(supported))
	for _, lang := range supported {
		supportedTags = append(supportedTags, lang.Tag)
	}

	appHub := &huber{
		bundle:          opts.Bundle,
		logger:          opts.Logger,
		sessions:        opts.Sessions,
		connectionsMeta: make(map[*ws.Connection]*MetaInfo),
		supportedTags:   supportedTags,
	}
	appHub.hub = ws.NewHub(&ws.HubOptions{
		Logger:       opts.Logger,
		CheckOrigin:  opts.CheckOrigin,
		OnConnect:    appHub.onConnect,
		OnDisconnect: appHub.onDisconnect,
		OnMessage:    appHub.onMessage,
	})
	return appHub
}

type MetaInfo struct {
	SessionID string
	FormID    string
	Locale    language.Tag
}

type huber struct {
	hub           *ws.Hub
	bundle        *i18n.Bundle
	logger        *logrus.Logger
	sessions      *session.Store
	supportedTags []language.Tag

	mu              sync.RWMutex
	connectionsMeta map[*ws.Connection]*MetaInfo
	handlers        []MessageHandler
}

func (h *huber) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.hub.ServeHTTP(w, r)
}

func (h *huber) OnMessage(handler MessageHandler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handlers = append(h.handlers, handler)
}

func (h *huber) onConnect(r *http.Request, hub *ws.Hub, conn *ws.Connection) error {
	sess, err := composables.UseSession(r.Context())
	if err != nil {
		return errors.Wrap(err, "websocket without session")
	}
	meta := &MetaInfo{
		SessionID: sess.ID,
		FormID:    mux.Vars(r)[FormVar],
		Locale:    h.locale(r.Context()),
	}
	hub.JoinChannel(SessionChannel(sess.ID), conn)
	if meta.FormID != "" {
		hub.JoinChannel(FormChannel(sess.ID, meta.FormID), conn)
	}

	h.mu.Lock()
	h.connectionsMeta[conn] = meta
	h.mu.Unlock()
	return nil
}

func (h *huber) onDisconnect(conn *ws.Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.connectionsMeta, conn)
}

func (h *huber) locale(ctx context.Context) language.Tag {
	if tag, ok := intl.UseLocale(ctx); ok {
		return tag
	}
	if len(h.supportedTags) > 0 {
		return h.supportedTags[0]
	}
	return language.English
}

func (h *huber) meta(conn *ws.Connection) (*MetaInfo, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	meta, ok := h.connectionsMeta[conn]
	return meta, ok
}

func (h *huber) buildContext(meta *MetaInfo) (context.Context, bool) {
	sess, ok := h.sessions.Get(meta.SessionID)
	if !ok {
		return nil, false
	}
	ctx := composables.WithLogger(context.Background(), h.logger.WithFields(logrus.Fields{
		"session": meta.SessionID,
		"form":    meta.FormID,
	}))
	ctx = composables.WithSession(ctx, sess)
	if h.bundle != nil {
		ctx = intl.WithLocalizer(ctx, i18n.NewLocalizer(h.bundle, meta.Locale.String()))
	}
	ctx = intl.WithLocale(ctx, meta.Locale)
	return ctx, true
}

func (h *huber) onMessage(conn *ws.Connection, message []byte) {
	meta, ok := h.meta(conn)
	if !ok {
		h.logger.Error("connection meta not found")
		return
	}
	ctx, ok := h.buildContext(meta)
	if !ok {
		_ = conn.Close()
		return
	}
	h.mu.RLock()
	handlers := append([]MessageHandler(nil), h.handlers...)
	h.mu.RUnlock()

	c := &connection{conn: conn, meta: meta}
	for _, handler := range handlers {
		handler(ctx, c, message)
	}
}

func (h *huber) ForEach(channel string, f WsCallback) error {
	for _, conn := range h.hub.ConnectionsInChannel(channel) {
		meta, ok := h.meta(conn)
		if !ok {
			h.logger.Error("connection meta not found")
			continue
		}
		ctx, ok := h.buildContext(meta)
		if !ok {
			continue
		}
		if err := f(ctx, &connection{conn: conn, meta: meta}); err != nil {
			return err
		}
	}
	return nil
}

func (h *huber) Broadcast(channel string, payload any) error {
	message, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "encode websocket payload")
	}
	h.hub.BroadcastToChannel(channel, message)
	return nil
}

type connection struct {
	conn *ws.Connection
	meta *MetaInfo
}

func (c *connection) SendMessage(message []byte) error {
	return c.conn.SendMessage(message)
}

func (c *connection) Close() error {
	return c.conn.Close()
}

func (c *connection) SessionID() string {
	return c.meta.SessionID
}

func (c *connection) FormID() string {
	return c.meta.FormID
}
