package clients

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/HaseebAmer/bytecon/internal/models"
)

// gqlServer records the last posted document and variables and replies
// with a fixed data payload.
type gqlServer struct {
	srv       *httptest.Server
	lastQuery string
	lastVars  map[string]interface{}
}

func newGQLServer(t *testing.T, data string) *gqlServer {
	t.Helper()
	g := &gqlServer{}
	g.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Query     string                 `json:"query"`
			Variables map[string]interface{} `json:"variables"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		g.lastQuery = body.Query
		g.lastVars = body.Variables
		w.Write([]byte(`{"data": ` + data + `}`))
	}))
	t.Cleanup(g.srv.Close)
	return g
}

const connectionPayload = `{
	"getEvents": {
		"__typename": "EventConnection",
		"pageInfo": {"endCursor": "eyJpZCI6IDN9", "hasNextPage": true},
		"edges": [
			{"cursor": "eyJpZCI6IDN9", "edge": {
				"id": 3,
				"name": "Go Meetup",
				"description": "Monthly meetup",
				"location": "Berlin",
				"tags": ["WEB_APPS", "DATABASES"],
				"createdBy": 1,
				"datetime": "2024-06-01T18:30:00",
				"image": ""
			}}
		]
	}
}`

func TestEventClient_GetEvents_SendsPaginationInput(t *testing.T) {
	g := newGQLServer(t, connectionPayload)
	client := NewEventClient(g.srv.URL, time.Second, zap.NewNop())

	filter := &models.FilterInput{SearchFilter: &models.SearchFilter{Search: "go"}}
	conn, err := client.GetEvents(context.Background(), 8, "cursor-1", filter)
	if err != nil {
		t.Fatal(err)
	}

	input, ok := g.lastVars["input"].(map[string]interface{})
	if !ok {
		t.Fatalf("variables = %v", g.lastVars)
	}
	if input["first"] != float64(8) {
		t.Fatalf("first = %v", input["first"])
	}
	if input["after"] != "cursor-1" {
		t.Fatalf("after = %v", input["after"])
	}
	f, ok := input["filter"].(map[string]interface{})
	if !ok {
		t.Fatalf("filter = %v", input["filter"])
	}
	sf, _ := f["searchFilter"].(map[string]interface{})
	if sf["search"] != "go" {
		t.Fatalf("search filter = %v", f)
	}

	if !conn.PageInfo.HasNextPage || conn.PageInfo.EndCursor != "eyJpZCI6IDN9" {
		t.Fatalf("page info = %+v", conn.PageInfo)
	}
	events := conn.Events()
	if len(events) != 1 || events[0].ID != 3 || events[0].Name != "Go Meetup" {
		t.Fatalf("events = %+v", events)
	}
	if len(events[0].Tags) != 2 || events[0].Tags[0] != models.TagWebApps {
		t.Fatalf("tags = %v", events[0].Tags)
	}
}

func TestEventClient_GetEvents_FirstPageOmitsCursorAndFilter(t *testing.T) {
	g := newGQLServer(t, connectionPayload)
	client := NewEventClient(g.srv.URL, time.Second, zap.NewNop())

	if _, err := client.GetEvents(context.Background(), 8, "", nil); err != nil {
		t.Fatal(err)
	}

	input := g.lastVars["input"].(map[string]interface{})
	if _, present := input["after"]; present {
		t.Fatal("first page must not carry a cursor")
	}
	if _, present := input["filter"]; present {
		t.Fatal("unfiltered page must not carry a filter")
	}
}

func TestEventClient_GetEvents_UnionError(t *testing.T) {
	g := newGQLServer(t, `{"getEvents": {"__typename": "Error", "msg": "Event does not exist", "code": "EVENT_NOT_FOUND"}}`)
	client := NewEventClient(g.srv.URL, time.Second, zap.NewNop())

	_, err := client.GetEvents(context.Background(), 8, "", nil)
	var apiErr *models.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *models.APIError, got %T: %v", err, err)
	}
	if apiErr.Code != models.CodeEventNotFound {
		t.Fatalf("code = %q", apiErr.Code)
	}
}

func TestEventClient_GetEventByID(t *testing.T) {
	g := newGQLServer(t, `{"getEventById": {
		"__typename": "Event",
		"id": 9,
		"name": "DB Workshop",
		"description": "Hands on",
		"location": "Online",
		"tags": ["DATABASES"],
		"createdBy": 4,
		"datetime": "2024-07-10T09:00:00",
		"image": "data:image/png;base64,AAAA"
	}}`)
	client := NewEventClient(g.srv.URL, time.Second, zap.NewNop())

	ev, err := client.GetEventByID(context.Background(), 9)
	if err != nil {
		t.Fatal(err)
	}
	if g.lastVars["id"] != float64(9) {
		t.Fatalf("id variable = %v", g.lastVars["id"])
	}
	if ev.ID != 9 || ev.CreatedBy != 4 {
		t.Fatalf("event = %+v", ev)
	}
	if ev.Datetime.Hour() != 9 || ev.Datetime.Month() != time.July {
		t.Fatalf("datetime = %v", ev.Datetime)
	}
}

func TestEventClient_CreateEvent_PermissionError(t *testing.T) {
	g := newGQLServer(t, `{"createEvent": {"__typename": "Error", "msg": "Not authorized", "code": "PERMISSION_ERROR"}}`)
	client := NewEventClient(g.srv.URL, time.Second, zap.NewNop())

	dt := models.NewDateTime(time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC))
	_, err := client.CreateEvent(context.Background(), EventInput{
		Name:     "X",
		Datetime: dt,
	})
	var apiErr *models.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *models.APIError, got %T", err)
	}
	if apiErr.Code != models.CodePermissionError {
		t.Fatalf("code = %q", apiErr.Code)
	}
}

func TestEventClient_DeleteEvent(t *testing.T) {
	g := newGQLServer(t, `{"deleteEvent": {"__typename": "Success", "success": true}}`)
	client := NewEventClient(g.srv.URL, time.Second, zap.NewNop())

	if err := client.DeleteEvent(context.Background(), 11); err != nil {
		t.Fatal(err)
	}
	if g.lastVars["id"] != float64(11) {
		t.Fatalf("id variable = %v", g.lastVars["id"])
	}
}

func TestEventClient_EditEvent_PartialInput(t *testing.T) {
	g := newGQLServer(t, `{"editEvent": {
		"__typename": "Event",
		"id": 5, "name": "Renamed", "description": "d", "location": "l",
		"tags": [], "createdBy": 1, "datetime": "2024-07-10T09:00:00", "image": ""
	}}`)
	client := NewEventClient(g.srv.URL, time.Second, zap.NewNop())

	name := "Renamed"
	ev, err := client.EditEvent(context.Background(), EditEventInput{ID: 5, Name: &name})
	if err != nil {
		t.Fatal(err)
	}
	if ev.Name != "Renamed" {
		t.Fatalf("event = %+v", ev)
	}

	input := g.lastVars["input"].(map[string]interface{})
	if input["name"] != "Renamed" {
		t.Fatalf("name variable = %v", input["name"])
	}
	for _, key := range []string{"description", "location", "tags", "datetime", "image"} {
		if _, present := input[key]; present {
			t.Fatalf("untouched field %q sent in partial edit", key)
		}
	}
}
