// Package api serves the lobby and highscore HTTP endpoints.
package api

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"html/template"
	"log"
	"net/http"

	"lukechampine.com/blake3"

	"example.com/galactic_wars/internal/lobby"
	"example.com/galactic_wars/internal/scoreboard"
)

// Scores lists finished games.
type Scores interface {
	List(ctx context.Context) ([]scoreboard.Score, error)
}

// Notifier relays a message to the viewers of a lobby.
type Notifier interface {
	Broadcast(lobbyID, message string)
}

type Server struct {
	dir    *lobby.Directory
	scores Scores
	notify Notifier
}

func New(dir *lobby.Directory, scores Scores, notify Notifier) *Server {
	return &Server{dir: dir, scores: scores, notify: notify}
}

// Routes registers the API on mux.
func (s *Server) Routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/lobby/new", s.newLobby)
	mux.HandleFunc("POST /api/lobby/{lobbyId}/join", s.joinLobby)
	mux.HandleFunc("GET /api/lobby/list", s.listLobbies)
	mux.HandleFunc("GET /api/lobby/{lobbyId}/state", s.lobbyState)
	mux.HandleFunc("GET /api/highscores", s.highscores)
	mux.HandleFunc("GET /api/highscores/view", s.highscoresView)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) newLobby(w http.ResponseWriter, r *http.Request) {
	l := s.dir.Create()
	writeJSON(w, http.StatusOK, map[string]string{"lobbyId": l.ID})
}

func (s *Server) joinLobby(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PlayerName string `json:"playerName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.PlayerName == "" {
		writeError(w, http.StatusBadRequest, `Missing "playerName" in JSON body`)
		return
	}
	l, err := s.dir.Get(r.PathValue("lobbyId"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if _, err := l.Join(body.PlayerName); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if s.notify != nil {
		s.notify.Broadcast(l.ID, "Player "+body.PlayerName+" joined (via HTTP).")
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"message": "Joined lobby " + l.ID + " as " + body.PlayerName,
	})
}

func (s *Server) listLobbies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"lobbies": s.dir.List()})
}

// lobbyState serves the snapshot with a BLAKE3 ETag so pollers can skip
// unchanged boards.
func (s *Server) lobbyState(w http.ResponseWriter, r *http.Request) {
	l, err := s.dir.Get(r.PathValue("lobbyId"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	body, err := json.Marshal(l.Snapshot())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	sum := blake3.Sum256(body)
	etag := `"` + hex.EncodeToString(sum[:]) + `"`
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

func (s *Server) highscores(w http.ResponseWriter, r *http.Request) {
	rows, err := s.scores.List(r.Context())
	if err != nil {
		log.Printf("highscores: %v", err)
		writeError(w, http.StatusInternalServerError, "scoreboard unavailable")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

var highscoresPage = template.Must(template.New("highscores").Parse(`<html>
  <head>
    <title>Galactic Wars - Highscores</title>
  </head>
  <body>
    <h1>Highscores</h1>
    <table border="1" cellpadding="5" cellspacing="0">
      <tr>
        <th>Date</th>
        <th>Winner</th>
        <th>Lobby ID</th>
      </tr>
{{- range .}}
      <tr>
        <td>{{.Time.UTC.Format "2006-01-02 15:04:05"}}</td>
        <td>{{if .Winner}}{{.Winner}}{{else}}(nobody){{end}}</td>
        <td>{{.LobbyID}}</td>
      </tr>
{{- end}}
    </table>
  </body>
</html>
`))

func (s *Server) highscoresView(w http.ResponseWriter, r *http.Request) {
	rows, err := s.scores.List(r.Context())
	if err != nil {
		log.Printf("highscores view: %v", err)
		http.Error(w, "scoreboard unavailable", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := highscoresPage.Execute(&buf, rows); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
