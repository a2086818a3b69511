package models

import (
	"fmt"
	"strconv"
	"strings"
)

type RoomID int

const (
	Room1 RoomID = 1 // most recent book
	Room2 RoomID = 2 // concept intersection
	Room3 RoomID = 3 // labyrinth
)

var AllRooms = []RoomID{Room1, Room2, Room3}

func (r RoomID) Valid() bool {
	return r >= Room1 && r <= Room3
}

// Trigger is the id of the button that starts the room on the page.
func (r RoomID) Trigger() string {
	return fmt.Sprintf("solveRoom%d", int(r))
}

// Output is the id of the element the room writes its result into.
func (r RoomID) Output() string {
	return fmt.Sprintf("room%dResult", int(r))
}

// ParseRoomID accepts "1", "room1", "solveRoom1" or "room1Result".
func ParseRoomID(s string) (RoomID, error) {
	raw := strings.ToLower(strings.TrimSpace(s))
	raw = strings.TrimPrefix(raw, "solve")
	raw = strings.TrimPrefix(raw, "room")
	raw = strings.TrimSuffix(raw, "result")

	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("unknown room %q", s)
	}
	r := RoomID(n)
	if !r.Valid() {
		return 0, fmt.Errorf("unknown room %q", s)
	}
	return r, nil
}
