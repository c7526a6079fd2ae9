package game

// BoardSize is the edge length of the square grid. Valid coordinates are
// 1..BoardSize inclusive.
const BoardSize = 20

// MaxPlayers caps the roster of one game.
const MaxPlayers = 4

const (
	Scout      = "Scout"
	Fighter    = "Fighter"
	Stinger    = "Stinger"
	Warrior    = "Warrior"
	Bulk       = "Bulk"
	BigBoss    = "BigBoss"
	Mothership = "Mothership"
	Titan      = "TITAN"
)

// ShipType holds the static stats of one ship class.
type ShipType struct {
	Health int `json:"health"`
	Attack int `json:"attack"`
	Range  int `json:"range"`
	Speed  int `json:"speed"`
	Cost   int `json:"cost"`
	Ammo   int `json:"ammo"`
	Fuel   int `json:"fuel"`
}

var shipStats = map[string]ShipType{
	Scout:      {Health: 1, Attack: 0, Range: 0, Speed: 3, Cost: 3, Ammo: 0, Fuel: 0},
	Fighter:    {Health: 2, Attack: 1, Range: 1, Speed: 2, Cost: 5, Ammo: 1, Fuel: 1},
	Stinger:    {Health: 1, Attack: 2, Range: 1, Speed: 3, Cost: 5, Ammo: 1, Fuel: 2},
	Warrior:    {Health: 3, Attack: 2, Range: 1, Speed: 2, Cost: 7, Ammo: 2, Fuel: 1},
	Bulk:       {Health: 5, Attack: 3, Range: 1, Speed: 1, Cost: 10, Ammo: 3, Fuel: 2},
	BigBoss:    {Health: 10, Attack: 5, Range: 2, Speed: 1, Cost: 20, Ammo: 5, Fuel: 3},
	Mothership: {Health: 20, Attack: 10, Range: 3, Speed: 1, Cost: 30, Ammo: 10, Fuel: 5},
	Titan:      {Health: 30, Attack: 15, Range: 5, Speed: 1, Cost: 50, Ammo: 15, Fuel: 15},
}

// shipOrder lists the catalog from cheapest to most expensive.
var shipOrder = []string{Scout, Fighter, Stinger, Warrior, Bulk, BigBoss, Mothership, Titan}

// Stats looks up a ship type by its exact name.
func Stats(name string) (ShipType, bool) {
	s, ok := shipStats[name]
	return s, ok
}

// ShipTypes returns the catalog names in ascending cost order.
func ShipTypes() []string {
	return append([]string(nil), shipOrder...)
}

// Position is a grid coordinate.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

var startPositions = []Position{
	{X: 1, Y: 1},
	{X: 20, Y: 20},
	{X: 20, Y: 1},
	{X: 1, Y: 20},
}

func startPosition(playerID int) Position {
	if playerID < 1 || playerID > len(startPositions) {
		return Position{X: 1, Y: 1}
	}
	return startPositions[playerID-1]
}

// chebyshev is max(|dx|,|dy|); diagonal steps cost the same as orthogonal ones.
func chebyshev(x1, y1, x2, y2 int) int {
	dx := abs(x1 - x2)
	dy := abs(y1 - y2)
	if dx > dy {
		return dx
	}
	return dy
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
