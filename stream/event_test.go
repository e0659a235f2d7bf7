package stream

import (
	"strings"
	"testing"
)

func TestEventTypeString(t *testing.T) {
	for _, tc := range []struct {
		typ  EventType
		want string
	}{
		{EventBeginObject, "BeginObject"},
		{EventEndObject, "EndObject"},
		{EventBeginList, "BeginList"},
		{EventEndList, "EndList"},
		{EventRow, "Row"},
		{EventScalar, "Scalar"},
		{EventType(99), "Unknown"},
	} {
		if got := tc.typ.String(); got != tc.want {
			t.Errorf("String(%d) = %q, want %q", int(tc.typ), got, tc.want)
		}
	}
}

func TestEventTypeTextRoundTrip(t *testing.T) {
	for _, typ := range []EventType{
		EventBeginObject, EventEndObject,
		EventBeginList, EventEndList,
		EventRow, EventScalar,
	} {
		text, err := typ.MarshalText()
		if err != nil {
			t.Fatalf("%v: MarshalText: %v", typ, err)
		}
		var back EventType
		if err := back.UnmarshalText(text); err != nil {
			t.Fatalf("%v: UnmarshalText(%q): %v", typ, text, err)
		}
		if back != typ {
			t.Errorf("round trip %v -> %q -> %v", typ, text, back)
		}
	}
}

func TestEventTypeUnmarshalUnknown(t *testing.T) {
	var typ EventType
	err := typ.UnmarshalText([]byte("Bogus"))
	if err == nil || !strings.Contains(err.Error(), "unknown event type") {
		t.Fatalf("err = %v", err)
	}
}

func TestEventTypeIsEnd(t *testing.T) {
	ends := map[EventType]bool{
		EventBeginObject: false,
		EventEndObject:   true,
		EventBeginList:   false,
		EventEndList:     true,
		EventRow:         false,
		EventScalar:      false,
	}
	for typ, want := range ends {
		if got := typ.IsEnd(); got != want {
			t.Errorf("%v.IsEnd() = %v, want %v", typ, got, want)
		}
	}
}
