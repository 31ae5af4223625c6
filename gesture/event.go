package gesture

import (
	"fmt"
	"strings"

	"github.com/gogpu/gridview/geom"
)

// Phase identifies where in a touch sequence a pointer event occurs.
type Phase uint8

const (
	PhaseDown        Phase = iota // First contact touches down
	PhasePointerDown              // An additional contact touches down
	PhaseMove                     // One or more contacts moved
	PhaseUp                       // The last contact lifted
	PhasePointerUp                // A contact lifted while others remain
	PhaseCancel                   // The host aborted the sequence
)

var phaseNames = [...]string{
	PhaseDown:        "Down",
	PhasePointerDown: "PointerDown",
	PhaseMove:        "Move",
	PhaseUp:          "Up",
	PhasePointerUp:   "PointerUp",
	PhaseCancel:      "Cancel",
}

// String returns the string representation of a Phase.
func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "Unknown"
}

// ParsePhase parses a phase name as returned by String, ignoring case.
func ParsePhase(s string) (Phase, error) {
	for i, name := range phaseNames {
		if strings.EqualFold(s, name) {
			return Phase(i), nil
		}
	}
	return 0, fmt.Errorf("gesture: unknown phase %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Phase) UnmarshalText(b []byte) error {
	v, err := ParsePhase(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Contact is one active touch point.
type Contact struct {
	ID int     `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// Point returns the contact position.
func (c Contact) Point() geom.Point { return geom.Pt(c.X, c.Y) }

// Event is a pointer event delivered by the input source. Events arrive in
// monotonic time order and are never modified by the classifier.
type Event struct {
	Phase Phase `json:"phase"`

	// PointerID, X and Y describe the pointer that changed. For PhaseUp
	// this is the release position.
	PointerID int     `json:"pointer,omitempty"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`

	// Time is a monotonic timestamp in milliseconds.
	Time int64 `json:"t"`

	// Contacts lists the contacts active after the event, primary first.
	// Contacts lifted by PhaseUp or PhasePointerUp are not included.
	Contacts []Contact `json:"contacts,omitempty"`
}

// Position returns the event pointer position.
func (e Event) Position() geom.Point { return geom.Pt(e.X, e.Y) }

// primary returns the position of the first active contact, or the event
// position when no contacts are listed.
func (e Event) primary() geom.Point {
	if len(e.Contacts) > 0 {
		return e.Contacts[0].Point()
	}
	return e.Position()
}

// pair returns the first two contacts, if present.
func (e Event) pair() ([2]geom.Point, bool) {
	if len(e.Contacts) < 2 {
		return [2]geom.Point{}, false
	}
	return [2]geom.Point{e.Contacts[0].Point(), e.Contacts[1].Point()}, true
}
