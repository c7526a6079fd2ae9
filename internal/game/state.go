package game

import (
	"fmt"
	"strings"
)

// Ship is one unit on the board. IDs are unique within a game and never reused.
type Ship struct {
	ID      int    `json:"id"`
	Type    string `json:"type"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	OwnerID int    `json:"ownerId"`
	Health  int    `json:"health"`
	Ammo    int    `json:"ammo"`
	Fuel    int    `json:"fuel"`
}

// Player is a roster entry. Players are never removed; Alive turns false when
// the last ship is destroyed.
type Player struct {
	ID            int       `json:"id"`
	Name          string    `json:"name"`
	Resources     Resources `json:"resources"`
	Ships         []*Ship   `json:"ships"`
	Alive         bool      `json:"alive"`
	StartPosition Position  `json:"startPosition"`
}

func (p *Player) ship(id int) *Ship {
	for _, s := range p.Ships {
		if s.ID == id {
			return s
		}
	}
	return nil
}

func (p *Player) removeShip(id int) {
	out := p.Ships[:0]
	for _, s := range p.Ships {
		if s.ID != id {
			out = append(out, s)
		}
	}
	p.Ships = out
}

func (p *Player) clone() *Player {
	c := *p
	c.Ships = make([]*Ship, len(p.Ships))
	for i, s := range p.Ships {
		cs := *s
		c.Ships[i] = &cs
	}
	return &c
}

// Snapshot is a detached copy of the game for rendering.
type Snapshot struct {
	Players            []*Player          `json:"players"`
	ResourceMap        []ResourceLocation `json:"resourceMap"`
	CurrentPlayerIndex int                `json:"currentPlayerIndex"`
	GameStarted        bool               `json:"gameStarted"`
}

// GameState owns all mutable truth of one game.
type GameState struct {
	players            []*Player
	currentPlayerIndex int
	gameStarted        bool
	nextShipID         int
	resourceMap        []ResourceLocation
	rng                Rand
}

// New creates an empty game with a freshly generated resource map.
func New(rng Rand) *GameState {
	return NewWithMap(RandomResourceMap(rng), rng)
}

// NewWithMap creates an empty game over a caller supplied map.
func NewWithMap(resourceMap []ResourceLocation, rng Rand) *GameState {
	if rng == nil {
		rng = DefaultRand()
	}
	return &GameState{
		resourceMap: resourceMap,
		nextShipID:  1,
		rng:         rng,
	}
}

// Started reports whether Start has succeeded.
func (g *GameState) Started() bool { return g.gameStarted }

// CurrentPlayer returns the player whose turn it is, or nil with an empty roster.
func (g *GameState) CurrentPlayer() *Player {
	if g.currentPlayerIndex < 0 || g.currentPlayerIndex >= len(g.players) {
		return nil
	}
	return g.players[g.currentPlayerIndex]
}

func (g *GameState) createShip(st ShipType, typ string, x, y, ownerID int) *Ship {
	s := &Ship{
		ID:      g.nextShipID,
		Type:    typ,
		X:       x,
		Y:       y,
		OwnerID: ownerID,
		Health:  st.Health,
		Ammo:    st.Ammo,
		Fuel:    st.Fuel,
	}
	g.nextShipID++
	return s
}

// Join adds a player with one Scout at its corner.
func (g *GameState) Join(playerName string) (Outcome, error) {
	if len(g.players) >= MaxPlayers {
		return fail(CapacityExceeded, "Max players reached (%d)", MaxPlayers)
	}
	id := len(g.players) + 1
	pos := startPosition(id)
	p := &Player{
		ID:            id,
		Name:          playerName,
		Alive:         true,
		StartPosition: pos,
	}
	p.Ships = append(p.Ships, g.createShip(shipStats[Scout], Scout, pos.X, pos.Y, id))
	g.players = append(g.players, p)

	return Outcome{
		OK:      true,
		Message: fmt.Sprintf("Player %s joined the game!", playerName),
		Player:  p.clone(),
	}, nil
}

// Start begins play with the first player and grants its turn-start income.
func (g *GameState) Start() (Outcome, error) {
	if len(g.players) < 2 {
		return fail(InsufficientPlayers, "Need at least 2 players to start (have %d)", len(g.players))
	}
	g.gameStarted = true
	g.grantTurnIncome(g.players[g.currentPlayerIndex])
	return Outcome{OK: true, Message: "Game started. Player 1 goes first!"}, nil
}

// MoveShip relocates one of the current player's ships, then resolves
// pickups and recruit sites at the destination.
func (g *GameState) MoveShip(shipID, targetX, targetY int) (Outcome, error) {
	if !g.gameStarted {
		return fail(NotStarted, "Game not started yet.")
	}
	cur := g.CurrentPlayer()
	ship := cur.ship(shipID)
	if ship == nil {
		return fail(ShipNotFound, "No ship with id %d for current player.", shipID)
	}

	st := shipStats[ship.Type]
	dist := chebyshev(ship.X, ship.Y, targetX, targetY)
	if dist > st.Speed {
		return fail(SpeedExceeded, "Ship %d cannot move %d squares, speed is %d.", shipID, dist, st.Speed)
	}
	if ship.Type != Scout {
		if ship.Fuel < dist {
			return fail(InsufficientFuel, "Not enough fuel (%d) to move %d squares.", ship.Fuel, dist)
		}
		ship.Fuel -= dist
	}
	ship.X, ship.Y = targetX, targetY

	parts := []string{fmt.Sprintf("Ship %d moved to (%d,%d).", shipID, targetX, targetY)}
	parts = append(parts, g.pickUp(ship, cur)...)
	parts = append(parts, g.recruit(ship, cur)...)

	sc := *ship
	return Outcome{OK: true, Message: strings.Join(parts, " "), Ship: &sc}, nil
}

// pickUp credits every single-square resource spot under the ship. Spots are
// not consumed.
func (g *GameState) pickUp(ship *Ship, p *Player) []string {
	var msgs []string
	for _, loc := range g.resourceMap {
		if loc.RecruitAs != "" || loc.MultiSquare || loc.Resources == nil {
			continue
		}
		for _, sq := range loc.Squares {
			if sq[0] == ship.X && sq[1] == ship.Y {
				p.Resources.add(*loc.Resources)
				msgs = append(msgs, fmt.Sprintf("Picked up resources from %s.", loc.Name))
			}
		}
	}
	return msgs
}

// recruit spawns a free ship for every recruit site within one square of the
// mover, including diagonals and the same square.
func (g *GameState) recruit(ship *Ship, p *Player) []string {
	var msgs []string
	for _, loc := range g.resourceMap {
		if loc.RecruitAs == "" {
			continue
		}
		st, ok := shipStats[loc.RecruitAs]
		if !ok {
			continue
		}
		for _, sq := range loc.Squares {
			if chebyshev(ship.X, ship.Y, sq[0], sq[1]) > 1 {
				continue
			}
			ns := g.createShip(st, loc.RecruitAs, ship.X, ship.Y, p.ID)
			p.Ships = append(p.Ships, ns)
			msgs = append(msgs, fmt.Sprintf("%s at (%d,%d) recruited as %s (id=%d)!", loc.Name, sq[0], sq[1], loc.RecruitAs, ns.ID))
		}
	}
	return msgs
}

// AttackShip fires one of the current player's ships at any ship on the
// board. Ammo is spent on every in-range attempt; a hit is a coin flip.
func (g *GameState) AttackShip(shipID, targetShipID int) (Outcome, error) {
	if !g.gameStarted {
		return fail(NotStarted, "Game not started yet.")
	}
	cur := g.CurrentPlayer()
	ship := cur.ship(shipID)
	if ship == nil {
		return fail(ShipNotFound, "No ship with id %d for current player.", shipID)
	}
	if ship.Ammo <= 0 {
		return fail(NoAmmo, "No ammo left on ship %d", shipID)
	}

	var target *Ship
	var owner *Player
	for _, p := range g.players {
		if s := p.ship(targetShipID); s != nil {
			target, owner = s, p
			break
		}
	}
	if target == nil {
		return fail(TargetNotFound, "No target with id %d", targetShipID)
	}
	if !owner.Alive {
		return fail(TargetEliminated, "Target %d belongs to eliminated player %s", targetShipID, owner.Name)
	}

	st := shipStats[ship.Type]
	if dist := chebyshev(ship.X, ship.Y, target.X, target.Y); dist > st.Range {
		return fail(OutOfRange, "Target %d is out of range (distance=%d, range=%d).", targetShipID, dist, st.Range)
	}

	ship.Ammo--
	if g.rng.IntN(2) != 0 {
		return Outcome{OK: true, Message: fmt.Sprintf("Attack from ship %d on %d MISSED!", shipID, targetShipID)}, nil
	}

	target.Health -= st.Attack
	msg := fmt.Sprintf("Attack from ship %d on %d HIT for %d damage.", shipID, targetShipID, st.Attack)
	if target.Health <= 0 {
		msg += fmt.Sprintf(" Ship %d destroyed!", targetShipID)
		owner.removeShip(target.ID)
		if len(owner.Ships) == 0 {
			owner.Alive = false
			msg += fmt.Sprintf(" Player %s has no ships left and is eliminated!", owner.Name)
		}
	}
	return Outcome{OK: true, Message: msg}, nil
}

// BuildShip spends materials on a new ship at the current player's start
// position.
func (g *GameState) BuildShip(shipType string) (Outcome, error) {
	if !g.gameStarted {
		return fail(NotStarted, "Game not started yet.")
	}
	st, ok := shipStats[shipType]
	if !ok {
		return fail(UnknownShipType, "Unknown ship type %s", shipType)
	}
	cur := g.CurrentPlayer()
	if cur.Resources.Materials < st.Cost {
		return fail(InsufficientMaterials, "Not enough materials to build %s (have %d, need %d)", shipType, cur.Resources.Materials, st.Cost)
	}
	cur.Resources.Materials -= st.Cost
	ns := g.createShip(st, shipType, cur.StartPosition.X, cur.StartPosition.Y, cur.ID)
	cur.Ships = append(cur.Ships, ns)

	sc := *ns
	return Outcome{OK: true, Message: fmt.Sprintf("Building %s (id=%d).", shipType, ns.ID), Ship: &sc}, nil
}

// EndTurn passes play to the next alive player in join order.
func (g *GameState) EndTurn() (Outcome, error) {
	if !g.gameStarted {
		return fail(NotStarted, "Game not started yet.")
	}
	n := len(g.players)
	next := -1
	for i := 1; i <= n; i++ {
		idx := (g.currentPlayerIndex + i) % n
		if g.players[idx].Alive {
			next = idx
			break
		}
	}
	if next < 0 {
		return fail(NoAlivePlayers, "No alive players left, game ends!")
	}
	g.currentPlayerIndex = next
	np := g.players[next]
	g.grantTurnIncome(np)
	return Outcome{OK: true, Message: fmt.Sprintf("It's now Player %d (%s)'s turn.", np.ID, np.Name)}, nil
}

// grantTurnIncome adds the bundle of every territory the player occupies at
// least one square of.
func (g *GameState) grantTurnIncome(p *Player) {
	var gain Resources
	for _, loc := range g.resourceMap {
		if !loc.MultiSquare || loc.Resources == nil {
			continue
		}
		if occupies(p, loc.Squares) {
			gain.add(*loc.Resources)
		}
	}
	p.Resources.add(gain)
}

func occupies(p *Player, squares []Square) bool {
	for _, sq := range squares {
		for _, s := range p.Ships {
			if s.X == sq[0] && s.Y == sq[1] {
				return true
			}
		}
	}
	return false
}

// AliveCount is the number of players that still own a ship.
func (g *GameState) AliveCount() int {
	n := 0
	for _, p := range g.players {
		if p.Alive {
			n++
		}
	}
	return n
}

// Winner names the sole alive player, or "" when zero or several remain.
func (g *GameState) Winner() string {
	var w *Player
	for _, p := range g.players {
		if !p.Alive {
			continue
		}
		if w != nil {
			return ""
		}
		w = p
	}
	if w == nil {
		return ""
	}
	return w.Name
}

// Snapshot deep-copies the renderable state.
func (g *GameState) Snapshot() Snapshot {
	s := Snapshot{
		Players:            make([]*Player, len(g.players)),
		ResourceMap:        make([]ResourceLocation, len(g.resourceMap)),
		CurrentPlayerIndex: g.currentPlayerIndex,
		GameStarted:        g.gameStarted,
	}
	for i, p := range g.players {
		s.Players[i] = p.clone()
	}
	for i, l := range g.resourceMap {
		s.ResourceMap[i] = l.clone()
	}
	return s
}
