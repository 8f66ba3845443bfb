package clients

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/HaseebAmer/bytecon/internal/graphql"
	"github.com/HaseebAmer/bytecon/internal/models"
)

const getEventsDoc = `
query GetEvents($input: GetEventInput!) {
  getEvents(input: $input) {
    __typename
    ... on EventConnection {
      edges {
        cursor
        edge { id name tags location description datetime createdBy image }
      }
      pageInfo { endCursor hasNextPage }
    }
    ... on Error { msg code }
  }
}`

const myEventsDoc = `
query GetMyEvents($first: Int!, $after: String) {
  myEvents(first: $first, after: $after) {
    __typename
    ... on EventConnection {
      pageInfo { endCursor hasNextPage }
      edges {
        cursor
        edge { id name tags location description datetime createdBy image }
      }
    }
    ... on Error { msg code }
  }
}`

const getEventByIDDoc = `
query GetEventById($id: Int!) {
  getEventById(id: $id) {
    __typename
    ... on Event { id name tags location description datetime createdBy image }
    ... on Error { msg code }
  }
}`

const createEventDoc = `
mutation CreateEvent($input: EventInput!) {
  createEvent(input: $input) {
    __typename
    ... on Event { id name description datetime createdBy image tags }
    ... on Error { code msg }
  }
}`

const editEventDoc = `
mutation EditEvent($input: EditEvent!) {
  editEvent(input: $input) {
    __typename
    ... on Event { id name description datetime tags location }
    ... on Error { code msg }
  }
}`

const deleteEventDoc = `
mutation DeleteEvent($id: Int!) {
  deleteEvent(id: $id) {
    __typename
    ... on Success { success }
    ... on Error { msg code }
  }
}`

// EventInput is the create-event payload.
type EventInput struct {
	Name        string          `json:"name"`
	Tags        []models.Tag    `json:"tags"`
	Location    string          `json:"location"`
	Description string          `json:"description"`
	Datetime    models.DateTime `json:"datetime"`
	Image       string          `json:"image,omitempty"`
}

// EditEventInput updates an existing event; nil members are left
// untouched by the backend.
type EditEventInput struct {
	ID          int              `json:"id"`
	Name        *string          `json:"name,omitempty"`
	Tags        []models.Tag     `json:"tags,omitempty"`
	Location    *string          `json:"location,omitempty"`
	Description *string          `json:"description,omitempty"`
	Datetime    *models.DateTime `json:"datetime,omitempty"`
	Image       *string          `json:"image,omitempty"`
}

// connectionResult decodes the EventConnection | Error union.
type connectionResult struct {
	Typename string             `json:"__typename"`
	PageInfo models.PageInfo    `json:"pageInfo"`
	Edges    []models.EventEdge `json:"edges"`
	Msg      string             `json:"msg"`
	Code     string             `json:"code"`
}

func (r connectionResult) connection() (*models.EventConnection, error) {
	if r.Typename == "Error" {
		return nil, &models.APIError{Msg: r.Msg, Code: r.Code}
	}
	return &models.EventConnection{PageInfo: r.PageInfo, Edges: r.Edges}, nil
}

// eventResult decodes the Event | Error union.
type eventResult struct {
	Typename string `json:"__typename"`
	models.Event
	Msg  string `json:"msg"`
	Code string `json:"code"`
}

func (r eventResult) event() (*models.Event, error) {
	if r.Typename == "Error" {
		return nil, &models.APIError{Msg: r.Msg, Code: r.Code}
	}
	ev := r.Event
	return &ev, nil
}

// successResult decodes the Success | Error union.
type successResult struct {
	Typename string `json:"__typename"`
	Success  bool   `json:"success"`
	Msg      string `json:"msg"`
	Code     string `json:"code"`
}

func (r successResult) err() error {
	if r.Typename == "Error" {
		return &models.APIError{Msg: r.Msg, Code: r.Code}
	}
	return nil
}

// EventClient talks to the events service.
type EventClient struct {
	gql    *graphql.Client
	logger *zap.Logger
}

func NewEventClient(endpoint string, timeout time.Duration, logger *zap.Logger) *EventClient {
	return &EventClient{
		gql:    graphql.NewClient(endpoint, timeout, logger),
		logger: logger,
	}
}

// GetEvents fetches one page of the discovery feed. after and filter may
// be zero-valued for the first unfiltered page.
func (c *EventClient) GetEvents(ctx context.Context, first int, after string, filter *models.FilterInput) (*models.EventConnection, error) {
	input := map[string]interface{}{"first": first}
	if after != "" {
		input["after"] = after
	}
	if filter != nil {
		input["filter"] = filter
	}

	var out struct {
		GetEvents connectionResult `json:"getEvents"`
	}
	if err := c.gql.Do(ctx, getEventsDoc, map[string]interface{}{"input": input}, &out); err != nil {
		return nil, err
	}
	return out.GetEvents.connection()
}

// MyEvents fetches one page of the signed-in user's own events.
func (c *EventClient) MyEvents(ctx context.Context, first int, after string) (*models.EventConnection, error) {
	vars := map[string]interface{}{"first": first}
	if after != "" {
		vars["after"] = after
	}

	var out struct {
		MyEvents connectionResult `json:"myEvents"`
	}
	if err := c.gql.Do(ctx, myEventsDoc, vars, &out); err != nil {
		return nil, err
	}
	return out.MyEvents.connection()
}

func (c *EventClient) GetEventByID(ctx context.Context, id int) (*models.Event, error) {
	var out struct {
		GetEventByID eventResult `json:"getEventById"`
	}
	if err := c.gql.Do(ctx, getEventByIDDoc, map[string]interface{}{"id": id}, &out); err != nil {
		return nil, err
	}
	return out.GetEventByID.event()
}

func (c *EventClient) CreateEvent(ctx context.Context, input EventInput) (*models.Event, error) {
	var out struct {
		CreateEvent eventResult `json:"createEvent"`
	}
	if err := c.gql.Do(ctx, createEventDoc, map[string]interface{}{"input": input}, &out); err != nil {
		return nil, err
	}
	return out.CreateEvent.event()
}

func (c *EventClient) EditEvent(ctx context.Context, input EditEventInput) (*models.Event, error) {
	var out struct {
		EditEvent eventResult `json:"editEvent"`
	}
	if err := c.gql.Do(ctx, editEventDoc, map[string]interface{}{"input": input}, &out); err != nil {
		return nil, err
	}
	return out.EditEvent.event()
}

func (c *EventClient) DeleteEvent(ctx context.Context, id int) error {
	var out struct {
		DeleteEvent successResult `json:"deleteEvent"`
	}
	if err := c.gql.Do(ctx, deleteEventDoc, map[string]interface{}{"id": id}, &out); err != nil {
		return err
	}
	return out.DeleteEvent.err()
}
