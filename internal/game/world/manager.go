package world

import (
	"fmt"
	"sort"
	"sync"
)

// Manager provides thread-safe access to the loaded areas.
// It indexes rooms across all areas for O(1) lookup by vnum.
type Manager struct {
	mu        sync.RWMutex
	areas     map[Vnum]*Area
	rooms     map[Vnum]*Room
	startRoom Vnum
}

// NewManager creates a Manager from the given areas.
//
// Precondition: the first area's start room is the global start room.
// Postcondition: Returns a Manager with all rooms indexed by vnum, or an error on duplicate vnums.
func NewManager(areas []*Area) (*Manager, error) {
	m := &Manager{
		areas: make(map[Vnum]*Area, len(areas)),
		rooms: make(map[Vnum]*Room),
	}
	for _, a := range areas {
		if _, exists := m.areas[a.Vnum]; exists {
			return nil, fmt.Errorf("duplicate area vnum %d", a.Vnum)
		}
		m.areas[a.Vnum] = a
		for _, room := range a.rooms {
			if existing, exists := m.rooms[room.Vnum]; exists {
				return nil, fmt.Errorf("duplicate room vnum %d: in area %d and %d", room.Vnum, existing.Area, a.Vnum)
			}
			m.rooms[room.Vnum] = room
		}
	}
	if len(areas) > 0 {
		m.startRoom = areas[0].StartRoom
	}
	return m, nil
}

// ValidateExits checks that every exit destination resolves to a known room.
//
// Postcondition: Returns nil if all exits resolve, or an error naming the first dangling exit.
func (m *Manager) ValidateExits() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, vnum := range m.sortedRoomVnums() {
		room := m.rooms[vnum]
		for _, e := range room.Exits {
			if _, ok := m.rooms[e.Destination]; !ok {
				return fmt.Errorf("room %d: exit %s targets unknown room %d", room.Vnum, e.Direction, e.Destination)
			}
		}
	}
	return nil
}

// Room returns the room with the given vnum.
//
// Postcondition: Returns (room, true) if found, or (nil, false) otherwise.
func (m *Manager) Room(vnum Vnum) (*Room, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rooms[vnum]
	return r, ok
}

// Area returns the area with the given vnum.
func (m *Manager) Area(vnum Vnum) (*Area, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.areas[vnum]
	return a, ok
}

// AreaOf returns the area containing room.
func (m *Manager) AreaOf(room *Room) (*Area, bool) {
	if room == nil {
		return nil, false
	}
	return m.Area(room.Area)
}

// Destination resolves the room reached from room by moving in dir.
//
// Postcondition: Returns the exit and its destination room. The room is nil
// when the exit leads nowhere; ok is false when there is no exit at all.
func (m *Manager) Destination(room *Room, dir Direction) (dest *Room, exit Exit, ok bool) {
	exit, ok = room.FindExit(dir)
	if !ok {
		return nil, Exit{}, false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rooms[exit.Destination], exit, true
}

// StartRoom returns the vnum of the global start room.
func (m *Manager) StartRoom() Vnum {
	return m.startRoom
}

// StartRoomFor returns the start room of the area containing vnum, falling
// back to the global start room.
func (m *Manager) StartRoomFor(vnum Vnum) Vnum {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.rooms[vnum]; ok {
		if a, ok := m.areas[r.Area]; ok && a.StartRoom != 0 {
			return a.StartRoom
		}
	}
	return m.startRoom
}

// Areas returns every loaded area ordered by vnum.
func (m *Manager) Areas() []*Area {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Area, 0, len(m.areas))
	for _, a := range m.areas {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Vnum < out[j].Vnum })
	return out
}

// AreaCount returns the number of loaded areas.
func (m *Manager) AreaCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.areas)
}

// RoomCount returns the total number of rooms across all areas.
func (m *Manager) RoomCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}

// sortedRoomVnums requires m.mu to be held.
func (m *Manager) sortedRoomVnums() []Vnum {
	out := make([]Vnum, 0, len(m.rooms))
	for v := range m.rooms {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
