package handlers

import (
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/HaseebAmer/bytecon/internal/clients"
	"github.com/HaseebAmer/bytecon/internal/models"
	"github.com/HaseebAmer/bytecon/internal/session"
)

const monthLayout = "2006-01"

// CalendarHandler renders the month view of the user's saved events.
type CalendarHandler struct {
	calendars *clients.CalendarClient
	sessions  *session.Store
	logger    *zap.Logger
	now       func() time.Time
}

func NewCalendarHandler(calendars *clients.CalendarClient, sessions *session.Store, logger *zap.Logger) *CalendarHandler {
	return &CalendarHandler{
		calendars: calendars,
		sessions:  sessions,
		logger:    logger,
		now:       time.Now,
	}
}

// calendarDay is one rendered day with its saved events.
type calendarDay struct {
	Date   time.Time
	Events []models.Event
}

// CalendarPage fetches the saved events for the visible month and groups
// them by day. Moving to another month refetches for that month's range.
func (h *CalendarHandler) CalendarPage(c *gin.Context) {
	month, err := time.Parse(monthLayout, c.Query("month"))
	if err != nil {
		t := h.now()
		month = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	}

	// The calendar service keys entries by any datetime inside the month.
	anchor := month.AddDate(0, 0, 1)
	events, err := h.calendars.GetCalendar(authContext(c, h.sessions), models.NewDateTime(anchor))
	var feedErr string
	if err != nil {
		h.logger.Error("Calendar fetch failed", zap.Error(err))
		feedErr = "Could not load your calendar. Please try again."
	}

	byDay := make(map[int][]models.Event)
	for _, event := range events {
		byDay[event.Datetime.Day()] = append(byDay[event.Datetime.Day()], event)
	}

	var days []calendarDay
	last := month.AddDate(0, 1, -1).Day()
	for d := 1; d <= last; d++ {
		day := calendarDay{Date: month.AddDate(0, 0, d-1), Events: byDay[d]}
		sort.Slice(day.Events, func(i, j int) bool {
			return day.Events[i].Datetime.Before(day.Events[j].Datetime.Time)
		})
		days = append(days, day)
	}

	c.HTML(http.StatusOK, "calendar.html", gin.H{
		"Month":     month,
		"PrevMonth": month.AddDate(0, -1, 0).Format(monthLayout),
		"NextMonth": month.AddDate(0, 1, 0).Format(monthLayout),
		"Days":      days,
		"FeedErr":   feedErr,
	})
}
