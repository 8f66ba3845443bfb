package clients

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/HaseebAmer/bytecon/internal/graphql"
	"github.com/HaseebAmer/bytecon/internal/models"
)

const getCalendarDoc = `
query GetCalendar($input: GetCalendarInput!) {
  getCalendar(input: $input) {
    __typename
    ... on GetCalendarResult {
      calendar { id name description location tags createdBy datetime }
    }
    ... on Error { msg code }
  }
}`

const addToCalendarDoc = `
mutation AddToCalendar($input: EventInput!) {
  addToCalendar(input: $input) {
    __typename
    ... on Success { success }
    ... on Error { msg code }
  }
}`

const removeFromCalendarDoc = `
mutation RemoveFromCalendar($id: Int!) {
  removeFromCalendar(id: $id) {
    __typename
    ... on Success { success }
    ... on Error { msg code }
  }
}`

// CalendarEventInput registers an existing event on the user's calendar.
type CalendarEventInput struct {
	EventID     int             `json:"eventId"`
	Name        string          `json:"name"`
	Tags        []models.Tag    `json:"tags"`
	Location    string          `json:"location"`
	Description string          `json:"description"`
	Datetime    models.DateTime `json:"datetime"`
	CreatedBy   int             `json:"createdBy"`
}

// CalendarClient talks to the calendar service.
type CalendarClient struct {
	gql    *graphql.Client
	logger *zap.Logger
}

func NewCalendarClient(endpoint string, timeout time.Duration, logger *zap.Logger) *CalendarClient {
	return &CalendarClient{
		gql:    graphql.NewClient(endpoint, timeout, logger),
		logger: logger,
	}
}

// GetCalendar returns the user's saved events for the month containing the
// given datetime.
func (c *CalendarClient) GetCalendar(ctx context.Context, datetime models.DateTime) ([]models.Event, error) {
	var out struct {
		GetCalendar struct {
			Typename string         `json:"__typename"`
			Calendar []models.Event `json:"calendar"`
			Msg      string         `json:"msg"`
			Code     string         `json:"code"`
		} `json:"getCalendar"`
	}
	vars := map[string]interface{}{
		"input": map[string]interface{}{"datetime": datetime},
	}
	if err := c.gql.Do(ctx, getCalendarDoc, vars, &out); err != nil {
		return nil, err
	}
	if out.GetCalendar.Typename == "Error" {
		return nil, &models.APIError{Msg: out.GetCalendar.Msg, Code: out.GetCalendar.Code}
	}
	return out.GetCalendar.Calendar, nil
}

func (c *CalendarClient) AddToCalendar(ctx context.Context, input CalendarEventInput) error {
	var out struct {
		AddToCalendar successResult `json:"addToCalendar"`
	}
	if err := c.gql.Do(ctx, addToCalendarDoc, map[string]interface{}{"input": input}, &out); err != nil {
		return err
	}
	return out.AddToCalendar.err()
}

func (c *CalendarClient) RemoveFromCalendar(ctx context.Context, id int) error {
	var out struct {
		RemoveFromCalendar successResult `json:"removeFromCalendar"`
	}
	if err := c.gql.Do(ctx, removeFromCalendarDoc, map[string]interface{}{"id": id}, &out); err != nil {
		return err
	}
	return out.RemoveFromCalendar.err()
}
