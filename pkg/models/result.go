package models

import "time"

type Result struct {
	Room   RoomID    `json:"room"`
	Output string    `json:"output"` // e.g. "room1Result"
	Text   string    `json:"text"`
	RunID  string    `json:"run_id"`
	Failed bool      `json:"failed,omitempty"`
	At     time.Time `json:"at"`
}
