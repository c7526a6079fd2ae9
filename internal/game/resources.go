package game

import "fmt"

// Resources is a stockpile or a bundle granted by a map location.
type Resources struct {
	Materials int `json:"materials"`
	Ammo      int `json:"ammo"`
	Fuel      int `json:"fuel"`
}

func (r *Resources) add(o Resources) {
	r.Materials += o.Materials
	r.Ammo += o.Ammo
	r.Fuel += o.Fuel
}

// Square is an [x, y] pair.
type Square [2]int

// ResourceLocation is a pickup spot, a controlled territory (MultiSquare) or
// a recruit site (RecruitAs set, no Resources).
type ResourceLocation struct {
	Name        string     `json:"name"`
	Squares     []Square   `json:"squares"`
	Resources   *Resources `json:"resources,omitempty"`
	RecruitAs   string     `json:"recruitAs,omitempty"`
	MultiSquare bool       `json:"multiSquare"`
}

func (l ResourceLocation) clone() ResourceLocation {
	c := l
	c.Squares = append([]Square(nil), l.Squares...)
	if l.Resources != nil {
		r := *l.Resources
		c.Resources = &r
	}
	return c
}

const (
	recruitSites = 5
	pickupSites  = 5
)

// RandomResourceMap builds a fresh layout: the central planet on rows and
// columns 9..12, five Warrior recruit sites and five +2 materials pickups at
// uniformly random squares. Random squares may coincide.
func RandomResourceMap(rng Rand) []ResourceLocation {
	locs := make([]ResourceLocation, 0, 1+recruitSites+pickupSites)

	planet := ResourceLocation{
		Name:        "Planet Alpha",
		Resources:   &Resources{Materials: 5, Ammo: 5, Fuel: 5},
		MultiSquare: true,
	}
	for x := 9; x <= 12; x++ {
		for y := 9; y <= 12; y++ {
			planet.Squares = append(planet.Squares, Square{x, y})
		}
	}
	locs = append(locs, planet)

	for i := 1; i <= recruitSites; i++ {
		locs = append(locs, ResourceLocation{
			Name:      fmt.Sprintf("Lost Warrior %d", i),
			Squares:   []Square{randomSquare(rng)},
			RecruitAs: Warrior,
		})
	}

	for i := 1; i <= pickupSites; i++ {
		locs = append(locs, ResourceLocation{
			Name:      fmt.Sprintf("Random Spot #%d", i),
			Squares:   []Square{randomSquare(rng)},
			Resources: &Resources{Materials: 2},
		})
	}
	return locs
}

func randomSquare(rng Rand) Square {
	x := rng.IntN(BoardSize) + 1
	y := rng.IntN(BoardSize) + 1
	return Square{x, y}
}
