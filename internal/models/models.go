package models

import (
	"fmt"
	"strings"
	"time"
)

// dateTimeLayout matches the backend's naive ISO-8601 timestamps.
const dateTimeLayout = "2006-01-02T15:04:05"

// DateTime wraps time.Time with the backend's timestamp encoding.
type DateTime struct {
	time.Time
}

func NewDateTime(t time.Time) DateTime {
	return DateTime{Time: t}
}

func (d DateTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateTimeLayout) + `"`), nil
}

func (d *DateTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" || s == "" {
		d.Time = time.Time{}
		return nil
	}
	// Some responses carry fractional seconds or a zone offset.
	for _, layout := range []string{dateTimeLayout, time.RFC3339, "2006-01-02T15:04:05.999999"} {
		t, err := time.Parse(layout, s)
		if err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("invalid datetime %q", s)
}

// Event is an event as returned by the events and calendar services.
type Event struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Tags        []Tag    `json:"tags"`
	CreatedBy   int      `json:"createdBy"`
	Datetime    DateTime `json:"datetime"`
	Image       string   `json:"image,omitempty"`
}

// User is the account identity carried in login payloads.
type User struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// UserProfile is the profile record behind /profile.
type UserProfile struct {
	User      User   `json:"user"`
	Bio       string `json:"bio"`
	Interests []Tag  `json:"interests"`
	Image     string `json:"image,omitempty"`
}

// PageInfo is the relay-style paging record attached to a connection.
type PageInfo struct {
	EndCursor   string `json:"endCursor"`
	HasNextPage bool   `json:"hasNextPage"`
}

// EventEdge pairs an event with the cursor that positions it.
type EventEdge struct {
	Cursor string `json:"cursor"`
	Edge   Event  `json:"edge"`
}

// EventConnection is one page of events plus its paging record.
type EventConnection struct {
	PageInfo PageInfo    `json:"pageInfo"`
	Edges    []EventEdge `json:"edges"`
}

// Events unwraps the edges in server order.
func (c EventConnection) Events() []Event {
	events := make([]Event, 0, len(c.Edges))
	for _, e := range c.Edges {
		events = append(events, e.Edge)
	}
	return events
}

// Error codes reported by the backend services.
const (
	CodePermissionError = "PERMISSION_ERROR"
	CodeBadRequest      = "BAD_REQUEST"
	CodeEventExists     = "EVENT_EXISTS"
	CodeEventNotFound   = "EVENT_NOT_FOUND"
	CodeUserExists      = "USER_EXISTS"
	CodeUserNotFound    = "USER_NOT_FOUND"
	CodeUnauthorized    = "UNAUTHORIZED"
)

// APIError is the typed business-error payload every mutation can return
// instead of its success variant.
type APIError struct {
	Msg  string `json:"msg"`
	Code string `json:"code"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}
