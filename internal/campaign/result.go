package campaign

import "fmt"

// Result is the outcome of a player-facing domain action. A failed action is
// a normal result, not an error: Success is false and Message says why. An
// inert result carries no effects at all.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Effects
}

// Inert returns a failed result with no effects, used for rejected or
// impossible requests such as unknown ids or unaffordable costs.
func Inert(format string, args ...any) Result {
	return Result{Message: fmt.Sprintf(format, args...)}
}

// NewEvent builds an event for the given turn.
func NewEvent(turn int, source, kind string, imp Importance, message string) Event {
	return Event{Turn: turn, Source: source, Kind: kind, Importance: imp, Message: message}
}

// With returns a copy of the event carrying an extra metadata pair.
func (e Event) With(key, value string) Event {
	meta := make(map[string]string, len(e.Meta)+1)
	for k, v := range e.Meta {
		meta[k] = v
	}
	meta[key] = value
	e.Meta = meta
	return e
}

// Outcome is the one-line record of an order's resolution, kept for traces.
type Outcome struct {
	Order   string `json:"order"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// OutcomeOf summarises a result under an order name.
func OutcomeOf(order string, r Result) Outcome {
	return Outcome{Order: order, Success: r.Success, Message: r.Message}
}
