package duel

import "errors"

var (
	ErrShotInFlight = errors.New("a shot is already in flight")
	ErrGameOver     = errors.New("game is over")
	ErrNoOrigin     = errors.New("point is neither the active king nor an own pawn")
	ErrZeroAim      = errors.New("cursor is on the aim centre")
	ErrNotAimed     = errors.New("no direction has been aimed")
)
