package gridview

import "fmt"

// CellEventKind tells a click from a long press.
type CellEventKind uint8

const (
	CellClick CellEventKind = iota
	CellLongPress
)

// String returns "click" or "long-press".
func (k CellEventKind) String() string {
	if k == CellLongPress {
		return "long-press"
	}
	return "click"
}

// CellEvent reports a tap on a grid cell. CellX and CellY are absolute
// cell indices: they keep counting across an unbounded pan.
type CellEvent struct {
	Kind  CellEventKind `json:"kind"`
	CellX int64         `json:"cellX"`
	CellY int64         `json:"cellY"`
}

// CellHandler receives cell events.
type CellHandler func(CellEvent)

// MarshalText implements encoding.TextMarshaler.
func (k CellEventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *CellEventKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "click":
		*k = CellClick
	case "long-press":
		*k = CellLongPress
	default:
		return fmt.Errorf("gridview: unknown cell event kind %q", b)
	}
	return nil
}
