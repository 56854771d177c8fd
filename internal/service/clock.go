package service

import "time"

// Clock supplies the current time so retention and last-update stamping can
// be tested without real time passing.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// SystemClock returns the wall clock, normalized to UTC.
func SystemClock() Clock { return systemClock{} }
