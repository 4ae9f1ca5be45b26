package sim

import "sort"

// KeyCoord addresses one key switch on the keyboard matrix.
type KeyCoord struct {
	Row, Col uint8
}

// KeyMatrix is the pressed-key membership set the simulator owns and the
// device observes on its next cycle advance. Press and release mutate it
// immediately; no cycle is consumed.
type KeyMatrix struct {
	pressed map[KeyCoord]bool
}

// NewKeyMatrix creates a matrix with no keys pressed.
func NewKeyMatrix() *KeyMatrix {
	return &KeyMatrix{pressed: make(map[KeyCoord]bool)}
}

// Press marks the key at (row, col) as held. Pressing an already-held
// key is a no-op.
func (m *KeyMatrix) Press(row, col uint8) {
	m.pressed[KeyCoord{Row: row, Col: col}] = true
}

// Release clears the key at (row, col). Releasing an unpressed key is a
// no-op.
func (m *KeyMatrix) Release(row, col uint8) {
	delete(m.pressed, KeyCoord{Row: row, Col: col})
}

// Clear releases every pressed key.
func (m *KeyMatrix) Clear() {
	m.pressed = make(map[KeyCoord]bool)
}

// IsPressed reports whether the key at (row, col) is held.
func (m *KeyMatrix) IsPressed(row, col uint8) bool {
	return m.pressed[KeyCoord{Row: row, Col: col}]
}

// NumPressed returns how many keys are held.
func (m *KeyMatrix) NumPressed() int { return len(m.pressed) }

// Pressed returns the held keys sorted by row then column, so devices
// scanning the matrix produce deterministic reports.
func (m *KeyMatrix) Pressed() []KeyCoord {
	keys := make([]KeyCoord, 0, len(m.pressed))
	for k := range m.pressed {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Row != keys[j].Row {
			return keys[i].Row < keys[j].Row
		}
		return keys[i].Col < keys[j].Col
	})
	return keys
}
