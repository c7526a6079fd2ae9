package game

// Outcome is the success value of an engine operation. Failures are
// reported through the returned error, which is always a *Error.
type Outcome struct {
	OK      bool    `json:"ok"`
	Message string  `json:"message,omitempty"`
	Player  *Player `json:"player,omitempty"`
	Ship    *Ship   `json:"ship,omitempty"`
}

// Engine is the rule set a lobby drives. Implementations are not safe for
// concurrent use; callers serialize access per lobby.
type Engine interface {
	Join(playerName string) (Outcome, error)
	Start() (Outcome, error)
	MoveShip(shipID, targetX, targetY int) (Outcome, error)
	AttackShip(shipID, targetShipID int) (Outcome, error)
	BuildShip(shipType string) (Outcome, error)
	EndTurn() (Outcome, error)

	Snapshot() Snapshot
	AliveCount() int
	Winner() string
}

var _ Engine = (*GameState)(nil)
