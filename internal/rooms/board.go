package rooms

import (
	"sort"
	"sync"

	synchub "escaperoom/internal/sync"
	"escaperoom/pkg/models"
)

// Publisher receives every board write and labyrinth step.
type Publisher interface {
	Publish(ev synchub.RoomEvent)
}

// Board holds the text of each output element. A write replaces the whole
// entry, so overlapping runs of a room resolve to whichever finished last.
//
// order is held across the assignment and the publish: watchers see writes
// in the same order the board applied them.
type Board struct {
	order   sync.Mutex
	mu      sync.RWMutex
	entries map[string]models.Result
	pub     Publisher
}

func NewBoard(pub Publisher) *Board {
	return &Board{entries: make(map[string]models.Result), pub: pub}
}

func (b *Board) Write(r models.Result) {
	b.order.Lock()
	defer b.order.Unlock()

	b.mu.Lock()
	b.entries[r.Output] = r
	b.mu.Unlock()

	if b.pub != nil {
		b.pub.Publish(resultEvent(r))
	}
}

func (b *Board) Get(output string) (models.Result, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	r, ok := b.entries[output]
	return r, ok
}

// Snapshot returns the written entries ordered by room.
func (b *Board) Snapshot() []models.Result {
	b.mu.RLock()
	out := make([]models.Result, 0, len(b.entries))
	for _, r := range b.entries {
		out = append(out, r)
	}
	b.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Room < out[j].Room })
	return out
}

// Events is the snapshot as room.result events, for replay to new watchers.
func (b *Board) Events() []synchub.RoomEvent {
	snap := b.Snapshot()
	out := make([]synchub.RoomEvent, 0, len(snap))
	for _, r := range snap {
		out = append(out, resultEvent(r))
	}
	return out
}

func resultEvent(r models.Result) synchub.RoomEvent {
	return synchub.RoomEvent{
		Type:   synchub.EventRoomResult,
		Room:   int(r.Room),
		Output: r.Output,
		Text:   r.Text,
		RunID:  r.RunID,
		Failed: r.Failed,
		At:     r.At,
	}
}
