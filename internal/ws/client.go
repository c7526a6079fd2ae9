package ws

import (
	"crypto/rand"
	"encoding/hex"

	"golang.org/x/time/rate"
)

// Client is one websocket viewer of a lobby.
type Client struct {
	id      string
	lobby   string
	send    chan []byte
	limiter *rate.Limiter
}

func randID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
