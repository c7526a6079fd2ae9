// Package lobby keeps the directory of running games and serializes every
// command delivered to one game.
package lobby

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"example.com/galactic_wars/internal/command"
	"example.com/galactic_wars/internal/game"
)

var (
	ErrNotFound = errors.New("Lobby not found")
	ErrGameOver = errors.New("Game is over")
)

// Recorder receives one call per finished game. winner is "" when nobody
// survived.
type Recorder interface {
	Record(ctx context.Context, lobbyID, winner string) error
}

// Result is what the transport delivers for one command. Err goes to the
// issuing connection only; Message goes to every viewer when Broadcast is set.
type Result struct {
	Message   string
	Err       error
	Broadcast bool
	GameOver  bool
	Winner    string
}

// Lobby is one game session. All access to its engine goes through mu.
type Lobby struct {
	ID string

	mu       sync.Mutex
	engine   game.Engine
	finished bool
	winner   string
	rec      Recorder
}

// Exec runs one parsed command against the game.
func (l *Lobby) Exec(ctx context.Context, c command.Command) Result {
	switch c.Verb {
	case command.VerbHelp:
		return Result{Message: helpText()}
	case command.VerbUnknown:
		return Result{Err: fmt.Errorf("Unrecognized command: %s", c.Raw)}
	}
	if err := checkUsage(c); err != nil {
		return Result{Err: err}
	}

	l.mu.Lock()
	if l.finished {
		l.mu.Unlock()
		return Result{Err: ErrGameOver}
	}
	out, err := l.apply(c)
	over := errors.Is(err, game.ErrNoAlivePlayers) ||
		(err == nil && c.Verb == command.VerbAttack && l.engine.AliveCount() <= 1)
	var winner string
	if over {
		l.finished = true
		winner = l.engine.Winner()
		l.winner = winner
	}
	l.mu.Unlock()

	if over {
		l.record(ctx, winner)
	}
	if err != nil {
		return Result{Err: err, GameOver: over}
	}
	msg := out.Message
	if over {
		msg += " " + GameOverMessage(winner)
	}
	return Result{Message: msg, Broadcast: true, GameOver: over, Winner: winner}
}

func (l *Lobby) apply(c command.Command) (game.Outcome, error) {
	switch c.Verb {
	case command.VerbJoin:
		return l.engine.Join(c.Arg(0))
	case command.VerbStart:
		return l.engine.Start()
	case command.VerbMove:
		n, _ := c.Ints(3)
		return l.engine.MoveShip(n[0], n[1], n[2])
	case command.VerbAttack:
		n, _ := c.Ints(2)
		return l.engine.AttackShip(n[0], n[1])
	case command.VerbBuild:
		return l.engine.BuildShip(c.Arg(0))
	case command.VerbEndTurn:
		return l.engine.EndTurn()
	}
	return game.Outcome{}, fmt.Errorf("Unrecognized command: %s", c.Raw)
}

// checkUsage rejects missing arguments and non-numeric ids or coordinates
// before the engine sees them.
func checkUsage(c command.Command) error {
	var need int
	var numeric bool
	var usage string
	switch c.Verb {
	case command.VerbJoin:
		need, usage = 1, "joinGame <playerName>"
	case command.VerbMove:
		need, numeric, usage = 3, true, "move <shipId> <x> <y>"
	case command.VerbAttack:
		need, numeric, usage = 2, true, "attack <shipId> <targetShipId>"
	case command.VerbBuild:
		need, usage = 1, "build <shipType>"
	}
	if len(c.Args) < need {
		return fmt.Errorf("Usage: %s", usage)
	}
	if numeric {
		if _, ok := c.Ints(need); !ok {
			return fmt.Errorf("Usage: %s", usage)
		}
	}
	return nil
}

const recordTimeout = 5 * time.Second

func (l *Lobby) record(ctx context.Context, winner string) {
	log.Printf("lobby %s game over winner=%q", l.ID, winner)
	if l.rec == nil {
		return
	}
	// The issuing connection may already be gone; the row must still land.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()
	if err := l.rec.Record(ctx, l.ID, winner); err != nil {
		log.Printf("lobby %s scoreboard: %v", l.ID, err)
	}
}

func helpText() string {
	return command.Help + "Ship types: " + strings.Join(game.ShipTypes(), ", ") + "\n"
}

// GameOverMessage is appended to the final broadcast of a game.
func GameOverMessage(winner string) string {
	if winner == "" {
		return "Game over! No winner."
	}
	return "Game over! Winner: " + winner
}

// Join adds a player outside the command channel (HTTP join).
func (l *Lobby) Join(playerName string) (game.Outcome, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.finished {
		return game.Outcome{}, ErrGameOver
	}
	return l.engine.Join(playerName)
}

// Snapshot returns a copy of the game for rendering.
func (l *Lobby) Snapshot() game.Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.engine.Snapshot()
}

// Finished reports whether the game is over and who won.
func (l *Lobby) Finished() (bool, string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.finished, l.winner
}

// Directory maps lobby ids to lobbies. Lobbies live until the process exits.
type Directory struct {
	mu        sync.RWMutex
	lobbies   map[string]*Lobby
	newEngine func() game.Engine
	rec       Recorder
}

// NewDirectory creates an empty directory. newEngine may be nil, in which
// case each lobby gets a game with a random map and entropy-seeded rolls.
func NewDirectory(rec Recorder, newEngine func() game.Engine) *Directory {
	if newEngine == nil {
		newEngine = func() game.Engine { return game.New(game.DefaultRand()) }
	}
	return &Directory{
		lobbies:   map[string]*Lobby{},
		newEngine: newEngine,
		rec:       rec,
	}
}

// Create starts a new lobby with a fresh game.
func (d *Directory) Create() *Lobby {
	l := &Lobby{ID: uuid.NewString(), engine: d.newEngine(), rec: d.rec}
	d.mu.Lock()
	d.lobbies[l.ID] = l
	d.mu.Unlock()
	log.Printf("lobby %s created", l.ID)
	return l
}

func (d *Directory) Get(id string) (*Lobby, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	l, ok := d.lobbies[id]
	if !ok {
		return nil, ErrNotFound
	}
	return l, nil
}

// List returns all lobby ids, sorted.
func (d *Directory) List() []string {
	d.mu.RLock()
	ids := make([]string, 0, len(d.lobbies))
	for id := range d.lobbies {
		ids = append(ids, id)
	}
	d.mu.RUnlock()
	sort.Strings(ids)
	return ids
}
