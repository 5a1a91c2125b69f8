package ws

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/coreman2200/glowstrip/internal/app"
	diag "github.com/coreman2200/glowstrip/internal/diagnostics"
)

const writeWait = 200 * time.Millisecond

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// Hub mirrors strip frames to browser preview clients. It satisfies
// led.Driver so a Strip can flush into it like hardware.
type Hub struct {
	mu          sync.RWMutex
	wmu         sync.Mutex // one writer per conn
	log         zerolog.Logger
	count       int
	fps         int
	active      int
	rgb         []byte
	frameID     uint64
	startTime   time.Time
	clients     map[*websocket.Conn]bool
	diagClients map[*websocket.Conn]bool
	ctlClients  map[*websocket.Conn]bool
	closed      bool

	// OnControl receives each /control message; its error is sent back
	// to the client. Nil rejects every message.
	OnControl func(app.Control) error
}

func NewHub(count, fps int, log zerolog.Logger) *Hub {
	return &Hub{
		log:         log,
		count:       count,
		fps:         fps,
		rgb:         make([]byte, count*3),
		startTime:   time.Now(),
		clients:     map[*websocket.Conn]bool{},
		diagClients: map[*websocket.Conn]bool{},
		ctlClients:  map[*websocket.Conn]bool{},
	}
}

// SetFPS updates the frame rate reported by /health.
func (h *Hub) SetFPS(fps int) {
	h.mu.Lock()
	h.fps = fps
	h.mu.Unlock()
}

// SetActive records the number of fading pixels reported by /health.
func (h *Hub) SetActive(n int) {
	h.mu.Lock()
	h.active = n
	h.mu.Unlock()
}

func (h *Hub) FrameID() uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.frameID
}

func (h *Hub) Write(rgb []byte) error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	if cap(h.rgb) < len(rgb) {
		h.rgb = make([]byte, len(rgb))
	}
	h.rgb = h.rgb[:len(rgb)]
	copy(h.rgb, rgb)
	h.frameID++
	b, err := json.Marshal(frame{T: time.Now().UnixNano(), FrameID: h.frameID, RGB: h.rgb})
	h.mu.Unlock()
	if err != nil {
		return err
	}
	h.broadcast(false, b)
	return nil
}

type frame struct {
	T       int64  `json:"t"`
	FrameID uint64 `json:"frame_id"`
	RGB     []byte `json:"rgb"`
}

func (h *Hub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	for c := range h.clients {
		c.Close()
	}
	for c := range h.diagClients {
		c.Close()
	}
	for c := range h.ctlClients {
		c.Close()
	}
	h.clients = map[*websocket.Conn]bool{}
	h.diagClients = map[*websocket.Conn]bool{}
	h.ctlClients = map[*websocket.Conn]bool{}
	return nil
}

func (h *Hub) HandleFramesWS(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, func() map[*websocket.Conn]bool { return h.clients })
}

func (h *Hub) HandleDiagWS(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, func() map[*websocket.Conn]bool { return h.diagClients })
}

// serve upgrades the request and parks the connection in the chosen set
// until the client goes away. Inbound messages are ignored.
func (h *Hub) serve(w http.ResponseWriter, r *http.Request, set func() map[*websocket.Conn]bool) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug().Err(err).Msg("upgrade")
		return
	}
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	set()[conn] = true
	h.mu.Unlock()

	go func() {
		defer func() {
			h.mu.Lock()
			delete(set(), conn)
			h.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// ControlReply acknowledges one /control message.
type ControlReply struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// HandleControlWS applies settings sent as JSON objects, e.g.
// {"brightness":120,"fps":60,"runTest":"index_sweep"}, one reply per message.
func (h *Hub) HandleControlWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug().Err(err).Msg("upgrade")
		return
	}
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.ctlClients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.ctlClients, conn)
		h.mu.Unlock()
		conn.Close()
	}()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		reply := ControlReply{OK: true}
		if err := h.control(data); err != nil {
			h.log.Warn().Err(err).Msg("control rejected")
			reply = ControlReply{Error: err.Error()}
		}
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(reply); err != nil {
			return
		}
	}
}

func (h *Hub) control(data []byte) error {
	var c app.Control
	if err := json.Unmarshal(data, &c); err != nil {
		return err
	}
	if h.OnControl == nil {
		return errors.New("control disabled")
	}
	if err := h.OnControl(c); err != nil {
		return err
	}
	if c.FPS != nil {
		h.SetFPS(*c.FPS)
	}
	return nil
}

// Health is the /health response body.
type Health struct {
	FrameID uint64  `json:"frame_id"`
	Uptime  float64 `json:"uptime_s"`
	Count   int     `json:"count"`
	FPS     int     `json:"fps"`
	Active  int     `json:"active"`
}

func (h *Hub) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	resp := Health{
		FrameID: h.frameID,
		Uptime:  time.Since(h.startTime).Seconds(),
		Count:   h.count,
		FPS:     h.fps,
		Active:  h.active,
	}
	h.mu.RUnlock()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (h *Hub) PushDiag(d diag.Diagnostic) {
	b, err := json.Marshal(d)
	if err != nil {
		h.log.Warn().Err(err).Str("code", d.Code).Msg("marshal diagnostic")
		return
	}
	h.broadcast(true, b)
}

func (h *Hub) broadcast(toDiag bool, b []byte) {
	h.wmu.Lock()
	defer h.wmu.Unlock()
	h.mu.RLock()
	defer h.mu.RUnlock()
	set := h.clients
	if toDiag {
		set = h.diagClients
	}
	for c := range set {
		c.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.WriteMessage(websocket.TextMessage, b); err != nil {
			h.log.Debug().Err(err).Msg("write frame")
		}
	}
}

// Routes registers the preview endpoints on mux.
func (h *Hub) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/ws", h.HandleFramesWS)
	mux.HandleFunc("/diag", h.HandleDiagWS)
	mux.HandleFunc("/control", h.HandleControlWS)
	mux.HandleFunc("/health", h.HandleHealth)
}
