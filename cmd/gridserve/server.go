package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/gogpu/gridview"
	"github.com/gogpu/gridview/internal/cache"
	"github.com/gogpu/gridview/internal/config"
	"github.com/gogpu/gridview/internal/session"
	"github.com/gogpu/gridview/internal/worker"
	"github.com/gogpu/gridview/recording/backends/raster"
)

const announceTimeout = 2 * time.Second

var (
	errMissingEvent    = errors.New("pointer message without event")
	errClientConnected = errors.New("client already connected")
)

// encodedFrame is a frame rendered to PNG.
type encodedFrame struct {
	id   string
	data []byte
}

// server shares one grid view between all connected clients.
type server struct {
	view    *gridview.View
	viewID  string
	origins []string

	hub    *hub
	frames *cache.Cache[uint64, encodedFrame]

	// announcer tells clients about new frames once the worker caught up.
	announcer *worker.Coalescer[struct{}]
}

func newServer(cfg *config.Config) (*server, error) {
	s := &server{
		viewID:  session.NewViewID(),
		origins: cfg.Origins(),
		hub:     newHub(),
		frames:  cache.New[uint64, encodedFrame](cfg.FrameCache),
	}
	opts := append(cfg.ViewOptions(), gridview.WithCellHandler(s.onCell))
	v, err := gridview.New(float64(cfg.Width), float64(cfg.Height), opts...)
	if err != nil {
		return nil, fmt.Errorf("create view: %w", err)
	}
	s.view = v
	s.announcer = worker.New(s.announce)
	return s, nil
}

func (s *server) close() {
	s.announcer.Close()
	if err := s.view.Close(); err != nil {
		slog.Error("close view", "error", err)
	}
}

func (s *server) routes() http.Handler {
	r := mux.NewRouter()
	r.Use(requestLog)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	r.HandleFunc("/state", s.handleState).Methods("GET")
	r.HandleFunc("/frame.png", s.handleFrame).Methods("GET")
	r.HandleFunc("/resize", s.handleResize).Methods("POST")
	r.HandleFunc("/reset", s.handleReset).Methods("POST")
	r.HandleFunc("/ws", s.handleWebSocket)
	return r
}

// requestLog tags each request with an ID and logs it.
func requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", id)
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Debug("request", "id", id, "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

// apply feeds one client message into the view.
func (s *server) apply(msg inbound) error {
	switch msg.Type {
	case msgPointer:
		if msg.Event == nil {
			return errMissingEvent
		}
		s.view.HandlePointerEvent(*msg.Event)
	case msgPinch:
		s.view.HandlePinch(msg.Factor, msg.X, msg.Y)
	case msgScroll:
		s.view.HandleScroll(msg.DX, msg.DY)
	case msgLongPress:
		s.view.HandleLongPress(msg.X, msg.Y)
	case msgReset:
		s.view.Reset()
	default:
		return fmt.Errorf("unknown message type %q", msg.Type)
	}
	s.announcer.Submit(struct{}{})
	return nil
}

func (s *server) onCell(ev gridview.CellEvent) {
	s.hub.broadcast(outbound{Type: msgCell, Cell: &ev})
}

func (s *server) announce(uint64, struct{}) {
	ctx, cancel := context.WithTimeout(context.Background(), announceTimeout)
	defer cancel()
	if err := s.view.Flush(ctx); err != nil {
		slog.Debug("frame announce skipped", "error", err)
		return
	}
	s.hub.broadcast(outbound{Type: msgFrame, Seq: s.view.CurrentFrame().Seq})
}

type stateResponse struct {
	ViewID      string  `json:"viewId"`
	Seq         uint64  `json:"seq"`
	Mode        string  `json:"mode"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Scale       float64 `json:"scale"`
	RotationDeg float64 `json:"rotationDeg"`
	TranslateX  float64 `json:"translateX"`
	TranslateY  float64 `json:"translateY"`
	Spacing     float64 `json:"spacing"`
	OriginCellX int64   `json:"originCellX"`
	OriginCellY int64   `json:"originCellY"`
	Clients     int     `json:"clients"`
}

func (s *server) handleState(w http.ResponseWriter, r *http.Request) {
	tr := s.view.Transform()
	g := s.view.Grid()
	width, height := s.view.Size()
	writeJSON(w, http.StatusOK, stateResponse{
		ViewID:      s.viewID,
		Seq:         s.view.CurrentFrame().Seq,
		Mode:        s.view.Mode().String(),
		Width:       width,
		Height:      height,
		Scale:       tr.Scale(),
		RotationDeg: tr.RotationDeg,
		TranslateX:  tr.TranslateX,
		TranslateY:  tr.TranslateY,
		Spacing:     g.Spacing,
		OriginCellX: g.OriginCellX,
		OriginCellY: g.OriginCellY,
		Clients:     s.hub.count(),
	})
}

func (s *server) handleFrame(w http.ResponseWriter, r *http.Request) {
	f := s.view.CurrentFrame()
	etag := fmt.Sprintf(`"%s-%d"`, s.viewID, f.Seq)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	enc, err := s.frames.GetOrCreate(f.Seq, func() (encodedFrame, error) {
		return encodePNG(f)
	})
	if err != nil {
		slog.Error("encode frame", "error", err, "seq", f.Seq)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	h := w.Header()
	h.Set("Content-Type", "image/png")
	h.Set("Cache-Control", "no-cache")
	h.Set("ETag", etag)
	h.Set("X-Frame-ID", enc.id)
	h.Set("X-Frame-Seq", strconv.FormatUint(f.Seq, 10))
	w.Write(enc.data)
}

func encodePNG(f *gridview.Frame) (encodedFrame, error) {
	b := raster.NewBackend()
	if err := f.Paint(b); err != nil {
		return encodedFrame{}, err
	}
	var buf bytes.Buffer
	if _, err := b.WriteTo(&buf); err != nil {
		return encodedFrame{}, err
	}
	return encodedFrame{id: session.NewFrameID(), data: buf.Bytes()}, nil
}

type resizeRequest struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (s *server) handleResize(w http.ResponseWriter, r *http.Request) {
	var req resizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if !(req.Width > 0) || !(req.Height > 0) {
		http.Error(w, "width and height must be positive", http.StatusBadRequest)
		return
	}
	s.view.Resize(req.Width, req.Height)
	s.announcer.Submit(struct{}{})
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.view.Reset()
	s.announcer.Submit(struct{}{})
	w.WriteHeader(http.StatusNoContent)
}

// clientID returns the identity for a websocket request. A client that
// reconnects passes its previous ID in the "client" query parameter.
func (s *server) clientID(r *http.Request) (string, error) {
	id := r.URL.Query().Get("client")
	if id == "" {
		return session.NewClientID(), nil
	}
	if err := session.Validate(id, session.PrefixClient); err != nil {
		return "", err
	}
	if s.hub.has(id) {
		return "", fmt.Errorf("%w: %s", errClientConnected, id)
	}
	return id, nil
}

func (s *server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	id, err := s.clientID(r)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, errClientConnected) {
			status = http.StatusConflict
		}
		http.Error(w, err.Error(), status)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.origins,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	c := newClient(s, conn, id)
	ctx := r.Context()

	// Joined before the hello so the ID is taken once the client sees it.
	// Broadcasts queue in c.send until the write pump starts.
	s.hub.add(c)
	hello := outbound{Type: msgHello, ClientID: c.id, ViewID: s.viewID, Seq: s.view.CurrentFrame().Seq}
	if err := wsjson.Write(ctx, conn, hello); err != nil {
		slog.Debug("write error", "error", err, "client", c.id)
		s.hub.remove(c)
		conn.Close(websocket.StatusInternalError, "")
		return
	}

	go c.writePump(ctx)
	c.readPump(ctx)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("write response", "error", err)
	}
}
