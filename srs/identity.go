// srs/identity.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package srs

import "sync"

// UnitBinding optionally ties a ClientIdentity to a simulated aircraft or
// ship unit, advertised in heartbeats once set.
type UnitBinding struct {
	ID   uint32
	Name string
}

// ClientIdentity is the per-voice-client-session registration state: an
// sguid, display name, broadcast frequency, and a position/unit binding
// that the supervisor mutates and the voice client reads when building
// Sync/Update/RadioUpdate messages. It is created per session and
// discarded on shutdown.
type ClientIdentity struct {
	Sguid       string
	Name        string
	FrequencyHz uint64

	mu   sync.RWMutex
	pos  Position
	unit *UnitBinding
}

// NewClientIdentity creates a fresh identity with a newly-generated sguid.
func NewClientIdentity(name string, frequencyHz uint64) *ClientIdentity {
	return &ClientIdentity{
		Sguid:       NewSguid(),
		Name:        name,
		FrequencyHz: frequencyHz,
	}
}

// SetPosition updates the shared position; the next heartbeat reflects
// the change.
func (c *ClientIdentity) SetPosition(pos Position) {
	c.mu.Lock()
	c.pos = pos
	c.mu.Unlock()
}

// Position returns the current shared position.
func (c *ClientIdentity) Position() Position {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pos
}

// SetUnit binds the identity to a unit; the next heartbeat reflects the
// change.
func (c *ClientIdentity) SetUnit(id uint32, name string) {
	c.mu.Lock()
	c.unit = &UnitBinding{ID: id, Name: name}
	c.mu.Unlock()
}

// Unit returns the current unit binding, or nil if unset.
func (c *ClientIdentity) Unit() *UnitBinding {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.unit
}
