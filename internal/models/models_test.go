package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDateTime_RoundTrip(t *testing.T) {
	dt := NewDateTime(time.Date(2024, 6, 1, 18, 30, 0, 0, time.UTC))
	b, err := json.Marshal(dt)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `"2024-06-01T18:30:00"` {
		t.Fatalf("marshaled %s", b)
	}

	var back DateTime
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatal(err)
	}
	if !back.Equal(dt.Time) {
		t.Fatalf("round trip: %v", back)
	}
}

func TestDateTime_AcceptsFractionalSeconds(t *testing.T) {
	var dt DateTime
	if err := json.Unmarshal([]byte(`"2024-06-01T18:30:00.123456"`), &dt); err != nil {
		t.Fatal(err)
	}
	if dt.Hour() != 18 || dt.Minute() != 30 {
		t.Fatalf("parsed %v", dt)
	}
}

func TestDateTime_RejectsGarbage(t *testing.T) {
	var dt DateTime
	if err := json.Unmarshal([]byte(`"next tuesday"`), &dt); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestTag_Label(t *testing.T) {
	cases := map[Tag]string{
		TagArtificialIntelligence: "Artificial Intelligence",
		TagUXDesign:               "Ux Design",
		TagRobotics:               "Robotics",
	}
	for tag, want := range cases {
		if got := tag.Label(); got != want {
			t.Fatalf("%s label = %q, want %q", tag, got, want)
		}
	}
}

func TestParseTag(t *testing.T) {
	if tag, ok := ParseTag("DATABASES"); !ok || tag != TagDatabases {
		t.Fatalf("ParseTag = %v, %v", tag, ok)
	}
	if _, ok := ParseTag("KNITTING"); ok {
		t.Fatal("unknown tag accepted")
	}
}

func TestEventConnection_EventsKeepsServerOrder(t *testing.T) {
	conn := EventConnection{
		Edges: []EventEdge{
			{Cursor: "a", Edge: Event{ID: 2}},
			{Cursor: "b", Edge: Event{ID: 1}},
			{Cursor: "c", Edge: Event{ID: 3}},
		},
	}
	events := conn.Events()
	if len(events) != 3 || events[0].ID != 2 || events[1].ID != 1 || events[2].ID != 3 {
		t.Fatalf("events = %+v", events)
	}
}

func TestAPIError_Format(t *testing.T) {
	err := &APIError{Msg: "Event does not exist", Code: CodeEventNotFound}
	if got := err.Error(); got != "EVENT_NOT_FOUND: Event does not exist" {
		t.Fatalf("error = %q", got)
	}
}
