package stream

import (
	"fmt"

	"github.com/dweve/hedl-format/go-hedl/ir"
)

// Event is one structural step of a document body. Type selects which
// fields carry meaning; fields outside the sets below are zero.
type Event struct {
	Type EventType

	// Key is the field name that introduced the construct. For a nested
	// child list and its rows it is the child type name.
	Key string

	// Line is the 1-based source line. End events report the line that
	// closed the construct.
	Line int

	// Value is set for Scalar events.
	Value ir.Value

	// TypeName and Schema describe a list. TypeName is set on BeginList
	// and EndList, Schema on BeginList only.
	TypeName string
	Schema   []string

	// Count is the declared count hint on BeginList (0 when absent) and
	// the number of rows decoded on EndList.
	Count int

	// Node is set for Row events. Its children are never populated;
	// nested rows arrive as separate events.
	Node *ir.Node

	// Depth is the list nesting depth of a Row, 0 for rows of a
	// top-level list. ParentType and ParentID name the parent row when
	// the row belongs to a nested child list.
	Depth      int
	ParentType string
	ParentID   string
}

// EventType represents the type of a structural event.
type EventType int

const (
	EventBeginObject EventType = iota
	EventEndObject
	EventBeginList
	EventEndList
	EventRow
	EventScalar
)

func (t EventType) String() string {
	switch t {
	case EventBeginObject:
		return "BeginObject"
	case EventEndObject:
		return "EndObject"
	case EventBeginList:
		return "BeginList"
	case EventEndList:
		return "EndList"
	case EventRow:
		return "Row"
	case EventScalar:
		return "Scalar"
	default:
		return "Unknown"
	}
}

// IsEnd reports whether the event closes a structure.
func (t EventType) IsEnd() bool {
	return t == EventEndObject || t == EventEndList
}

func (t EventType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *EventType) UnmarshalText(d []byte) error {
	k := string(d)
	pt, ok := map[string]EventType{
		"BeginObject": EventBeginObject,
		"EndObject":   EventEndObject,
		"BeginList":   EventBeginList,
		"EndList":     EventEndList,
		"Row":         EventRow,
		"Scalar":      EventScalar,
	}[k]
	if ok {
		*t = pt
		return nil
	}
	return fmt.Errorf("unknown event type %q", k)
}
