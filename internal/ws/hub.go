package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
	"nhooyr.io/websocket"

	"example.com/galactic_wars/internal/command"
	"example.com/galactic_wars/internal/lobby"
)

const welcome = `Welcome to Galactic Wars! Type "help" for command info.`

// ---------- message envelope ----------

type Msg struct {
	Broadcast bool   `json:"broadcast"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
}

// ---------- hub ----------

// Hub tracks which connections watch which lobby and relays command results.
type Hub struct {
	allowOrigins map[string]bool
	dir          *lobby.Directory
	limit        rate.Limit
	burst        int

	mu      sync.RWMutex
	viewers map[string]map[*Client]struct{} // lobby id -> viewers
}

// NewHub serves the lobbies in dir. Each connection may issue limit commands
// per second with the given burst.
func NewHub(dir *lobby.Directory, allow []string, limit rate.Limit, burst int) *Hub {
	m := map[string]bool{}
	for _, a := range allow {
		if a != "" {
			m[a] = true
		}
	}
	return &Hub{
		allowOrigins: m,
		dir:          dir,
		limit:        limit,
		burst:        burst,
		viewers:      map[string]map[*Client]struct{}{},
	}
}

// ---------- websockets ----------

// ServeWS upgrades a request for /ws/lobby/{lobbyId}. Each text frame is one
// command.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	origin := r.Header.Get("Origin")
	if origin != "" && !h.allowOrigins[origin] {
		http.Error(w, "forbidden origin", http.StatusForbidden)
		return
	}
	lobbyID := r.PathValue("lobbyId")
	lb, err := h.dir.Get(lobbyID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		return
	}

	client := &Client{
		id:      randID(),
		lobby:   lobbyID,
		send:    make(chan []byte, 64),
		limiter: rate.NewLimiter(h.limit, h.burst),
	}
	h.add(client)
	log.Printf("client %s connected to lobby %s", client.id, lobbyID)

	// writer
	go func() {
		ping := time.NewTicker(15 * time.Second)
		defer func() { ping.Stop(); _ = c.Close(websocket.StatusNormalClosure, "bye") }()
		for {
			select {
			case msg, ok := <-client.send:
				if !ok {
					return
				}
				_ = c.Write(r.Context(), websocket.MessageText, msg)
			case <-ping.C:
				_ = c.Ping(r.Context())
			}
		}
	}()

	h.sendTo(client, Msg{Message: welcome})

	// reader
	for {
		typ, data, err := c.Read(r.Context())
		if err != nil {
			break
		}
		if typ != websocket.MessageText {
			continue
		}
		cmd, err := command.Parse(string(data))
		if err != nil {
			continue
		}
		if !client.limiter.Allow() {
			h.sendTo(client, Msg{Error: "Rate limit exceeded"})
			continue
		}
		h.deliver(client, lb.Exec(r.Context(), cmd))
	}

	h.remove(client)
	log.Printf("client %s disconnected from lobby %s", client.id, lobbyID)
}

// deliver unicasts errors and help, and broadcasts state changes.
func (h *Hub) deliver(c *Client, res lobby.Result) {
	if res.Err != nil {
		h.sendTo(c, Msg{Error: res.Err.Error()})
		if res.GameOver {
			h.Broadcast(c.lobby, lobby.GameOverMessage(res.Winner))
		}
		return
	}
	if res.Broadcast {
		h.Broadcast(c.lobby, res.Message)
		return
	}
	h.sendTo(c, Msg{Message: res.Message})
}

// ---------- helpers (send/broadcast) ----------

func (h *Hub) add(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set := h.viewers[c.lobby]
	if set == nil {
		set = map[*Client]struct{}{}
		h.viewers[c.lobby] = set
	}
	set[c] = struct{}{}
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set := h.viewers[c.lobby]; set != nil {
		delete(set, c)
		if len(set) == 0 {
			delete(h.viewers, c.lobby)
		}
	}
	close(c.send)
}

func (h *Hub) sendTo(c *Client, msg Msg) {
	b, _ := json.Marshal(msg)
	select {
	case c.send <- b:
	default:
	}
}

// Broadcast sends message to every viewer of the lobby. Slow viewers with a
// full queue miss it.
func (h *Hub) Broadcast(lobbyID, message string) {
	b, _ := json.Marshal(Msg{Broadcast: true, Message: message})
	h.mu.RLock()
	for c := range h.viewers[lobbyID] {
		select {
		case c.send <- b:
		default:
		}
	}
	h.mu.RUnlock()
}

// Viewers counts the open connections on a lobby.
func (h *Hub) Viewers(lobbyID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.viewers[lobbyID])
}
