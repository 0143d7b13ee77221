package state

import "time"

// State records the follower's read position for crash recovery.
// It is saved to disk after each successful ship.
type State struct {
	// InputPath is the span file being followed.
	InputPath string `json:"input_path"`

	// Offset is the byte position up to which records were shipped.
	Offset int64 `json:"offset"`

	// LastShipAt is the timestamp of the last successful ship.
	LastShipAt time.Time `json:"last_ship_at"`
}

// IsEmpty returns true if the state has not been initialized.
func (s State) IsEmpty() bool {
	return s.InputPath == ""
}

// UpdateAfterShip records the new read position after a successful ship.
func (s *State) UpdateAfterShip(path string, offset int64) {
	s.InputPath = path
	s.Offset = offset
	s.LastShipAt = time.Now()
}
