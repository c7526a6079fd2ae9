package game

import "fmt"

// Reason names a rule violation.
type Reason string

const (
	NotStarted            Reason = "NotStarted"
	CapacityExceeded      Reason = "CapacityExceeded"
	InsufficientPlayers   Reason = "InsufficientPlayers"
	ShipNotFound          Reason = "ShipNotFound"
	SpeedExceeded         Reason = "SpeedExceeded"
	InsufficientFuel      Reason = "InsufficientFuel"
	NoAmmo                Reason = "NoAmmo"
	TargetNotFound        Reason = "TargetNotFound"
	TargetEliminated      Reason = "TargetEliminated"
	OutOfRange            Reason = "OutOfRange"
	UnknownShipType       Reason = "UnknownShipType"
	InsufficientMaterials Reason = "InsufficientMaterials"
	NoAlivePlayers        Reason = "NoAlivePlayers"
)

// Error is a rejected operation. Detail is meant for players and carries the
// offending id or value.
type Error struct {
	Reason Reason
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return string(e.Reason)
	}
	return e.Detail
}

// Is matches any *Error with the same Reason, so the sentinels below work
// with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Reason == e.Reason
}

var (
	ErrNotStarted            = &Error{Reason: NotStarted}
	ErrCapacityExceeded      = &Error{Reason: CapacityExceeded}
	ErrInsufficientPlayers   = &Error{Reason: InsufficientPlayers}
	ErrShipNotFound          = &Error{Reason: ShipNotFound}
	ErrSpeedExceeded         = &Error{Reason: SpeedExceeded}
	ErrInsufficientFuel      = &Error{Reason: InsufficientFuel}
	ErrNoAmmo                = &Error{Reason: NoAmmo}
	ErrTargetNotFound        = &Error{Reason: TargetNotFound}
	ErrTargetEliminated      = &Error{Reason: TargetEliminated}
	ErrOutOfRange            = &Error{Reason: OutOfRange}
	ErrUnknownShipType       = &Error{Reason: UnknownShipType}
	ErrInsufficientMaterials = &Error{Reason: InsufficientMaterials}
	ErrNoAlivePlayers        = &Error{Reason: NoAlivePlayers}
)

func fail(r Reason, format string, args ...any) (Outcome, error) {
	return Outcome{}, &Error{Reason: r, Detail: fmt.Sprintf(format, args...)}
}
