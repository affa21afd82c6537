package engine

import "fmt"

// maxEvents bounds the in-memory event log.
const maxEvents = 500

// Event is a notable occurrence in the game.
type Event struct {
	Turn        int            `json:"turn"`
	Description string         `json:"description"`
	Category    string         `json:"category"` // "command", "turn", "defection", "dissolution", "victory"
	Meta        map[string]any `json:"meta,omitempty"`
}

// emit appends an event, dropping the oldest once the log is full.
func (g *Game) emit(turn int, category string, meta map[string]any, format string, args ...any) {
	g.events = append(g.events, Event{
		Turn:        turn,
		Description: fmt.Sprintf(format, args...),
		Category:    category,
		Meta:        meta,
	})
	if over := len(g.events) - maxEvents; over > 0 {
		g.events = append(g.events[:0:0], g.events[over:]...)
	}
}

// Events returns up to limit of the most recent events, oldest first.
func (g *Game) Events(limit int) []Event {
	if limit <= 0 || limit > len(g.events) {
		limit = len(g.events)
	}
	out := make([]Event, limit)
	copy(out, g.events[len(g.events)-limit:])
	return out
}
