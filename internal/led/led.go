package led

import (
	"errors"
	"fmt"
	"sync"
)

// ErrInvalidType is returned when a colour value is not an integer
var ErrInvalidType = errors.New("expected variable type INT")

// State holds the brightness of each colour, as a percentage
type State struct {
	Red   int `json:"red"`
	Green int `json:"green"`
	Blue  int `json:"blue"`
}

// Holder keeps the last accepted State
type Holder struct {
	lock  sync.RWMutex
	state State
}

// SetState validates red, green and blue and, if all three are integers, stores them as the new State.
// On failure, the current State is left unchanged.
func (h *Holder) SetState(red, green, blue any) error {
	if !Validate(red, green, blue) {
		return fmt.Errorf("red=%v green=%v blue=%v: %w", red, green, blue, ErrInvalidType)
	}

	// Validate guarantees these succeed
	r, _ := toInt(red)
	g, _ := toInt(green)
	b, _ := toInt(blue)

	h.lock.Lock()
	defer h.lock.Unlock()
	h.state = State{Red: r, Green: g, Blue: b}
	return nil
}

// GetState returns the current State
func (h *Holder) GetState() State {
	h.lock.RLock()
	defer h.lock.RUnlock()
	return h.state
}
