// Package license exposes the full-access entitlement the renderer consults.
package license

import "sync/atomic"

// Gate reports whether the full feature set is unlocked.
type Gate interface {
	HasFullAccess() bool
}

// Flag is a Gate whose state is set by the host, typically from the
// settings file. It is safe for concurrent use.
type Flag struct {
	v atomic.Bool
}

// NewFlag returns a Flag with the given initial state.
func NewFlag(full bool) *Flag {
	f := &Flag{}
	f.v.Store(full)
	return f
}

// HasFullAccess implements Gate.
func (f *Flag) HasFullAccess() bool { return f.v.Load() }

// Set stores full and reports whether the state changed.
func (f *Flag) Set(full bool) bool {
	return f.v.Swap(full) != full
}
