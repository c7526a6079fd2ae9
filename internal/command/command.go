// Package command parses the whitespace separated text commands players
// type into the lobby chat.
package command

import (
	"errors"
	"strconv"
	"strings"
)

type Verb string

const (
	VerbJoin    Verb = "joingame"
	VerbStart   Verb = "startgame"
	VerbMove    Verb = "move"
	VerbAttack  Verb = "attack"
	VerbBuild   Verb = "build"
	VerbEndTurn Verb = "endturn"
	VerbHelp    Verb = "help"
	VerbUnknown Verb = ""
)

var verbs = map[string]Verb{
	string(VerbJoin):    VerbJoin,
	string(VerbStart):   VerbStart,
	string(VerbMove):    VerbMove,
	string(VerbAttack):  VerbAttack,
	string(VerbBuild):   VerbBuild,
	string(VerbEndTurn): VerbEndTurn,
	string(VerbHelp):    VerbHelp,
}

var ErrEmpty = errors.New("empty command")

// Command is one parsed line. Raw keeps the verb as typed.
type Command struct {
	Verb Verb
	Raw  string
	Args []string
}

// Parse splits text on whitespace and matches the verb case-insensitively.
// Unknown verbs yield VerbUnknown with Raw set.
func Parse(text string) (Command, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return Command{}, ErrEmpty
	}
	c := Command{Raw: fields[0], Args: fields[1:]}
	c.Verb = verbs[strings.ToLower(fields[0])]
	return c, nil
}

// Arg returns the i-th argument or "".
func (c Command) Arg(i int) string {
	if i < 0 || i >= len(c.Args) {
		return ""
	}
	return c.Args[i]
}

// Int converts the i-th argument. ok is false when it is missing or not a
// base-10 integer.
func (c Command) Int(i int) (int, bool) {
	n, err := strconv.Atoi(c.Arg(i))
	if err != nil {
		return 0, false
	}
	return n, true
}

// Ints converts the first n arguments, failing on the first bad one.
func (c Command) Ints(n int) ([]int, bool) {
	out := make([]int, n)
	for i := range out {
		v, ok := c.Int(i)
		if !ok {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

const Help = `
Available Commands:
- joinGame <playerName>
- startGame
- move <shipId> <x> <y>
- attack <shipId> <targetShipId>
- build <shipType>
- endTurn
`
