package main

import (
	"log"
	"net/http"

	"golang.org/x/time/rate"

	"example.com/galactic_wars/internal/api"
	"example.com/galactic_wars/internal/config"
	"example.com/galactic_wars/internal/lobby"
	"example.com/galactic_wars/internal/scoreboard"
	"example.com/galactic_wars/internal/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	scores, err := scoreboard.Open(cfg.ScoreboardDB)
	if err != nil {
		log.Fatal(err)
	}
	defer scores.Close()

	dir := lobby.NewDirectory(scores, nil)
	hub := ws.NewHub(dir, cfg.Origins, rate.Limit(cfg.CommandRate), cfg.CommandBurst)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws/lobby/{lobbyId}", hub.ServeWS)
	api.New(dir, scores, hub).Routes(mux)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	log.Printf("server listening on :%s (scoreboard %s)", cfg.Port, cfg.ScoreboardDB)
	if err := http.ListenAndServe(":"+cfg.Port, cors(cfg.Origins, mux)); err != nil {
		log.Fatal(err)
	}
}

func cors(allow []string, next http.Handler) http.Handler {
	allowSet := map[string]struct{}{}
	for _, a := range allow {
		if a != "" {
			allowSet[a] = struct{}{}
		}
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			if _, ok := allowSet[origin]; ok {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
			}
		}
		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, If-None-Match")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
