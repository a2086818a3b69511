package sync

import "time"

const (
	EventWelcome       = "welcome"
	EventRoomResult    = "room.result"
	EventLabyrinthStep = "labyrinth.step"
)

type RoomEvent struct {
	Type   string    `json:"type"` // "room.result" or "labyrinth.step"
	Room   int       `json:"room"`
	Output string    `json:"output,omitempty"`
	Text   string    `json:"text,omitempty"`
	Step   string    `json:"step,omitempty"`
	Index  int       `json:"index"`
	Total  int       `json:"total,omitempty"`
	RunID  string    `json:"run_id,omitempty"`
	Failed bool      `json:"failed,omitempty"`
	At     time.Time `json:"at"`
}
