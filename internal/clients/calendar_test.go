package clients

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/HaseebAmer/bytecon/internal/models"
)

func TestCalendarClient_GetCalendar(t *testing.T) {
	g := newGQLServer(t, `{"getCalendar": {
		"__typename": "GetCalendarResult",
		"calendar": [
			{"id": 3, "name": "Go Meetup", "description": "", "location": "Berlin",
			 "tags": ["WEB_APPS"], "createdBy": 1, "datetime": "2024-06-01T18:30:00"},
			{"id": 4, "name": "DB Workshop", "description": "", "location": "Online",
			 "tags": ["DATABASES"], "createdBy": 2, "datetime": "2024-06-12T09:00:00"}
		]
	}}`)
	client := NewCalendarClient(g.srv.URL, time.Second, zap.NewNop())

	anchor := models.NewDateTime(time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC))
	events, err := client.GetCalendar(context.Background(), anchor)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 || events[0].ID != 3 || events[1].ID != 4 {
		t.Fatalf("events = %+v", events)
	}

	input, _ := g.lastVars["input"].(map[string]interface{})
	if input["datetime"] != "2024-06-02T00:00:00" {
		t.Fatalf("datetime variable = %v", input["datetime"])
	}
}

func TestCalendarClient_GetCalendarError(t *testing.T) {
	g := newGQLServer(t, `{"getCalendar": {"__typename": "Error", "msg": "Not authorized", "code": "PERMISSION_ERROR"}}`)
	client := NewCalendarClient(g.srv.URL, time.Second, zap.NewNop())

	_, err := client.GetCalendar(context.Background(), models.NewDateTime(time.Now()))
	var apiErr *models.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *models.APIError, got %T: %v", err, err)
	}
}

func TestCalendarClient_AddAndRemove(t *testing.T) {
	g := newGQLServer(t, `{"addToCalendar": {"__typename": "Success", "success": true}}`)
	client := NewCalendarClient(g.srv.URL, time.Second, zap.NewNop())

	input := CalendarEventInput{
		EventID:   3,
		Name:      "Go Meetup",
		Tags:      []models.Tag{models.TagWebApps},
		Location:  "Berlin",
		Datetime:  models.NewDateTime(time.Date(2024, 6, 1, 18, 30, 0, 0, time.UTC)),
		CreatedBy: 1,
	}
	if err := client.AddToCalendar(context.Background(), input); err != nil {
		t.Fatal(err)
	}
	sent, _ := g.lastVars["input"].(map[string]interface{})
	if sent["eventId"] != float64(3) {
		t.Fatalf("input = %v", sent)
	}

	g2 := newGQLServer(t, `{"removeFromCalendar": {"__typename": "Success", "success": true}}`)
	client2 := NewCalendarClient(g2.srv.URL, time.Second, zap.NewNop())
	if err := client2.RemoveFromCalendar(context.Background(), 3); err != nil {
		t.Fatal(err)
	}
	if g2.lastVars["id"] != float64(3) {
		t.Fatalf("id variable = %v", g2.lastVars["id"])
	}
}
