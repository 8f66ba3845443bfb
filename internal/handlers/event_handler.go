package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/HaseebAmer/bytecon/internal/clients"
	"github.com/HaseebAmer/bytecon/internal/feed"
	"github.com/HaseebAmer/bytecon/internal/models"
	"github.com/HaseebAmer/bytecon/internal/session"
)

// Display-side limits enforced by the create and edit forms.
const maxNameLen = 25

// dateOnlyLayout and dateTimeLocalLayout parse the HTML date and
// datetime-local inputs.
const (
	dateOnlyLayout      = "2006-01-02"
	dateTimeLocalLayout = "2006-01-02T15:04"
)

var collapseSpace = regexp.MustCompile(`\s+`)

// cleanText folds newlines and runs of whitespace into single spaces.
func cleanText(s string) string {
	return collapseSpace.ReplaceAllString(strings.TrimSpace(s), " ")
}

// EventHandler serves the event feeds and the event CRUD views.
type EventHandler struct {
	events    *clients.EventClient
	calendars *clients.CalendarClient
	users     *clients.UserClient
	sessions  *session.Store
	feeds     *feed.Registry
	logger    *zap.Logger
}

func NewEventHandler(events *clients.EventClient, calendars *clients.CalendarClient, users *clients.UserClient, sessions *session.Store, feeds *feed.Registry, logger *zap.Logger) *EventHandler {
	return &EventHandler{
		events:    events,
		calendars: calendars,
		users:     users,
		sessions:  sessions,
		feeds:     feeds,
		logger:    logger,
	}
}

// buildSpec resolves the builder's active mode into a filter argument. In
// relevance mode with no explicit selection the signed-in user's profile
// interests back the filter; a profile that cannot be loaded degrades to
// the empty tag set instead of failing the page.
func (h *EventHandler) buildSpec(ctx context.Context, b *feed.Builder) *models.FilterInput {
	var interests []models.Tag
	if b.Mode() == feed.ModeRelevance && len(b.Selected()) == 0 {
		profile, err := h.users.Profile(ctx)
		if err != nil {
			h.logger.Warn("Profile fetch for relevance fallback failed", zap.Error(err))
		} else {
			interests = profile.Interests
		}
	}
	return b.Spec(interests)
}

// MainPage renders the discovery feed. Navigating to it with fresh=1 (or
// before the feed ever loaded) restarts pagination so newly created or
// edited events show up.
func (h *EventHandler) MainPage(c *gin.Context) {
	userID := h.sessions.UserID(c)
	f := h.feeds.For(userID)
	ctx := authContext(c, h.sessions)

	snap := f.Main.Snapshot()
	if c.Query("fresh") == "1" || snap.State == feed.StateIdle {
		if err := f.Main.Reset(ctx, h.buildSpec(ctx, f.Builder)); err != nil {
			h.logger.Error("Feed reset failed", zap.Error(err))
		}
		snap = f.Main.Snapshot()
	}

	from, to := f.Builder.Dates()
	c.HTML(http.StatusOK, "main.html", gin.H{
		"Events":   snap.Events,
		"HasMore":  snap.HasMore,
		"FeedErr":  errText(snap.Err),
		"Mode":     string(f.Builder.Mode()),
		"Search":   f.Builder.Search(),
		"From":     from.Format(dateOnlyLayout),
		"To":       to.Format(dateOnlyLayout),
		"Selected": f.Builder.Selected(),
		"AllTags":  models.AllTags,
	})
}

// LoadMore appends the next page of the discovery feed.
func (h *EventHandler) LoadMore(c *gin.Context) {
	f := h.feeds.For(h.sessions.UserID(c))
	if err := f.Main.LoadMore(authContext(c, h.sessions)); err != nil {
		h.logger.Error("Load more failed", zap.Error(err))
	}
	c.Redirect(http.StatusSeeOther, "/main")
}

// Search updates the free-text query; a non-empty query forces search
// mode.
func (h *EventHandler) Search(c *gin.Context) {
	f := h.feeds.For(h.sessions.UserID(c))
	f.Builder.SetSearch(c.PostForm("search"))
	c.Redirect(http.StatusSeeOther, "/main?fresh=1")
}

// SetFilterMode switches the filter mode, clearing the other modes'
// inputs and restarting the feed.
func (h *EventHandler) SetFilterMode(c *gin.Context) {
	f := h.feeds.For(h.sessions.UserID(c))
	f.Builder.SetMode(feed.ParseMode(c.PostForm("mode")))
	c.Redirect(http.StatusSeeOther, "/main?fresh=1")
}

// SetDates moves the date window. Only the bound the user changed is
// applied, so the auto-advance of the upper bound survives the round
// trip.
func (h *EventHandler) SetDates(c *gin.Context) {
	f := h.feeds.For(h.sessions.UserID(c))
	curFrom, curTo := f.Builder.Dates()

	if from, err := time.Parse(dateOnlyLayout, c.PostForm("from")); err == nil {
		if !from.Equal(truncateToDay(curFrom)) {
			f.Builder.SetFrom(from)
		}
	}
	if to, err := time.Parse(dateOnlyLayout, c.PostForm("to")); err == nil {
		if !to.Equal(truncateToDay(curTo)) {
			f.Builder.SetTo(to)
		}
	}
	c.Redirect(http.StatusSeeOther, "/main?fresh=1")
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SetTags replaces the explicit relevance tag selection.
func (h *EventHandler) SetTags(c *gin.Context) {
	f := h.feeds.For(h.sessions.UserID(c))
	f.Builder.SetTags(parseTags(c.PostFormArray("tags")))
	c.Redirect(http.StatusSeeOther, "/main?fresh=1")
}

func parseTags(values []string) []models.Tag {
	var tags []models.Tag
	for _, v := range values {
		if t, ok := models.ParseTag(v); ok {
			tags = append(tags, t)
		}
	}
	return tags
}

// MyEventsPage renders the signed-in user's own events feed.
func (h *EventHandler) MyEventsPage(c *gin.Context) {
	f := h.feeds.For(h.sessions.UserID(c))
	ctx := authContext(c, h.sessions)

	snap := f.Mine.Snapshot()
	if c.Query("fresh") == "1" || snap.State == feed.StateIdle {
		if err := f.Mine.Reset(ctx, nil); err != nil {
			h.logger.Error("My-events reset failed", zap.Error(err))
		}
		snap = f.Mine.Snapshot()
	}

	c.HTML(http.StatusOK, "my_events.html", gin.H{
		"Events":  snap.Events,
		"HasMore": snap.HasMore,
		"FeedErr": errText(snap.Err),
		"Err":     c.Query("err"),
	})
}

// MyEventsLoadMore appends the next page of the my-events feed.
func (h *EventHandler) MyEventsLoadMore(c *gin.Context) {
	f := h.feeds.For(h.sessions.UserID(c))
	if err := f.Mine.LoadMore(authContext(c, h.sessions)); err != nil {
		h.logger.Error("Load more failed", zap.Error(err))
	}
	c.Redirect(http.StatusSeeOther, "/my-events")
}

func (h *EventHandler) CreateEventPage(c *gin.Context) {
	c.HTML(http.StatusOK, "create_event.html", gin.H{"AllTags": models.AllTags})
}

type eventForm struct {
	name        string
	location    string
	description string
	datetime    time.Time
	tags        []models.Tag
	image       string
}

func (h *EventHandler) bindEventForm(c *gin.Context) (eventForm, string) {
	form := eventForm{
		name:        cleanText(c.PostForm("name")),
		location:    cleanText(c.PostForm("location")),
		description: cleanText(c.PostForm("description")),
		tags:        parseTags(c.PostFormArray("tags")),
	}

	if form.name == "" || form.description == "" || form.location == "" {
		return form, "Please fill out all relevant fields."
	}
	if utf8.RuneCountInString(form.name) > maxNameLen || utf8.RuneCountInString(form.location) > maxNameLen {
		return form, "Name and location must be at most 25 characters."
	}

	datetime, err := time.Parse(dateTimeLocalLayout, c.PostForm("datetime"))
	if err != nil {
		return form, "Please pick a valid date and time."
	}
	form.datetime = datetime

	image, err := readImageDataURI(c, "image")
	if err != nil {
		return form, "The image could not be read."
	}
	form.image = image

	return form, ""
}

func (h *EventHandler) CreateEvent(c *gin.Context) {
	form, msg := h.bindEventForm(c)
	if msg != "" {
		c.HTML(http.StatusOK, "create_event.html", gin.H{"AllTags": models.AllTags, "Err": msg})
		return
	}

	_, err := h.events.CreateEvent(authContext(c, h.sessions), clients.EventInput{
		Name:        form.name,
		Tags:        form.tags,
		Location:    form.location,
		Description: form.description,
		Datetime:    models.NewDateTime(form.datetime),
		Image:       form.image,
	})
	if err != nil {
		var apiErr *models.APIError
		if errors.As(err, &apiErr) {
			c.HTML(http.StatusOK, "create_event.html", gin.H{"AllTags": models.AllTags, "Err": apiErr.Msg})
			return
		}
		h.logger.Error("Create event failed", zap.Error(err))
		c.HTML(http.StatusOK, "create_event.html", gin.H{"AllTags": models.AllTags, "Err": "Something went wrong. Please try again."})
		return
	}

	c.Redirect(http.StatusSeeOther, "/main?fresh=1")
}

// loadEvent resolves the id query parameter into a full event.
func (h *EventHandler) loadEvent(c *gin.Context) (*models.Event, error) {
	id, err := strconv.Atoi(c.Query("id"))
	if err != nil {
		return nil, err
	}
	return h.events.GetEventByID(authContext(c, h.sessions), id)
}

// DetailPage renders one event. Edit and delete controls appear only for
// the creator; that check is a UI affordance, the backend enforces
// ownership itself.
func (h *EventHandler) DetailPage(c *gin.Context) {
	event, err := h.loadEvent(c)
	if err != nil {
		h.logger.Error("Event lookup failed", zap.Error(err))
		c.Redirect(http.StatusSeeOther, "/main")
		return
	}

	ctx := authContext(c, h.sessions)

	// The calendar service keys saved events by month.
	inCalendar := false
	monthStart := time.Date(event.Datetime.Year(), event.Datetime.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	saved, err := h.calendars.GetCalendar(ctx, models.NewDateTime(monthStart))
	if err != nil {
		h.logger.Warn("Calendar lookup failed", zap.Error(err))
	} else {
		for _, item := range saved {
			if item.ID == event.ID {
				inCalendar = true
				break
			}
		}
	}

	c.HTML(http.StatusOK, "event_detail.html", gin.H{
		"Event":      event,
		"IsOwner":    event.CreatedBy == h.sessions.UserID(c),
		"InCalendar": inCalendar,
		"Flash":      c.Query("flash"),
	})
}

func detailURL(event *models.Event, flash string) string {
	u := "/event/" + url.PathEscape(event.Name) + "?id=" + strconv.Itoa(event.ID)
	if flash != "" {
		u += "&flash=" + url.QueryEscape(flash)
	}
	return u
}

// AddToCalendar saves the event on the user's calendar.
func (h *EventHandler) AddToCalendar(c *gin.Context) {
	event, err := h.loadEvent(c)
	if err != nil {
		c.Redirect(http.StatusSeeOther, "/main")
		return
	}

	err = h.calendars.AddToCalendar(authContext(c, h.sessions), clients.CalendarEventInput{
		EventID:     event.ID,
		Name:        event.Name,
		Tags:        event.Tags,
		Location:    event.Location,
		Description: event.Description,
		Datetime:    event.Datetime,
		CreatedBy:   event.CreatedBy,
	})
	if err != nil {
		h.logger.Error("Add to calendar failed", zap.Error(err))
		c.Redirect(http.StatusSeeOther, detailURL(event, "Could not add the event to your calendar."))
		return
	}
	c.Redirect(http.StatusSeeOther, detailURL(event, "Added to your calendar."))
}

// RemoveFromCalendar takes the event off the user's calendar.
func (h *EventHandler) RemoveFromCalendar(c *gin.Context) {
	event, err := h.loadEvent(c)
	if err != nil {
		c.Redirect(http.StatusSeeOther, "/main")
		return
	}

	if err := h.calendars.RemoveFromCalendar(authContext(c, h.sessions), event.ID); err != nil {
		h.logger.Error("Remove from calendar failed", zap.Error(err))
		c.Redirect(http.StatusSeeOther, detailURL(event, "Could not remove the event from your calendar."))
		return
	}
	c.Redirect(http.StatusSeeOther, detailURL(event, "Removed from your calendar."))
}

// DeleteEvent deletes an event after the confirmation dialog.
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	id, err := strconv.Atoi(c.PostForm("id"))
	if err != nil {
		c.Redirect(http.StatusSeeOther, "/my-events")
		return
	}

	if err := h.events.DeleteEvent(authContext(c, h.sessions), id); err != nil {
		h.logger.Error("Delete event failed", zap.Error(err))
		msg := "Could not delete the event. Please try again."
		var apiErr *models.APIError
		if errors.As(err, &apiErr) {
			msg = apiErr.Msg
		}
		c.Redirect(http.StatusSeeOther, "/my-events?err="+url.QueryEscape(msg))
		return
	}
	c.Redirect(http.StatusSeeOther, "/my-events?fresh=1")
}

func (h *EventHandler) EditEventPage(c *gin.Context) {
	event, err := h.loadEvent(c)
	if err != nil {
		c.Redirect(http.StatusSeeOther, "/main")
		return
	}

	c.HTML(http.StatusOK, "edit_event.html", gin.H{
		"Event":    event,
		"AllTags":  models.AllTags,
		"Datetime": event.Datetime.Format(dateTimeLocalLayout),
	})
}

func (h *EventHandler) EditEvent(c *gin.Context) {
	id, err := strconv.Atoi(c.PostForm("id"))
	if err != nil {
		c.Redirect(http.StatusSeeOther, "/my-events")
		return
	}

	form, msg := h.bindEventForm(c)
	if msg != "" {
		event, loadErr := h.events.GetEventByID(authContext(c, h.sessions), id)
		if loadErr != nil {
			c.Redirect(http.StatusSeeOther, "/my-events")
			return
		}
		c.HTML(http.StatusOK, "edit_event.html", gin.H{
			"Event":    event,
			"AllTags":  models.AllTags,
			"Datetime": event.Datetime.Format(dateTimeLocalLayout),
			"Err":      msg,
		})
		return
	}

	datetime := models.NewDateTime(form.datetime)
	input := clients.EditEventInput{
		ID:          id,
		Name:        &form.name,
		Tags:        form.tags,
		Location:    &form.location,
		Description: &form.description,
		Datetime:    &datetime,
	}
	if form.image != "" {
		input.Image = &form.image
	}

	ctx := authContext(c, h.sessions)
	event, err := h.events.EditEvent(ctx, input)
	if err != nil {
		h.logger.Error("Edit event failed", zap.Error(err))
		msg := "Could not save the event. Please try again."
		var apiErr *models.APIError
		if errors.As(err, &apiErr) {
			msg = apiErr.Msg
		}
		orig, loadErr := h.events.GetEventByID(ctx, id)
		if loadErr != nil {
			c.Redirect(http.StatusSeeOther, "/my-events?err="+url.QueryEscape(msg))
			return
		}
		c.HTML(http.StatusOK, "edit_event.html", gin.H{
			"Event":    orig,
			"AllTags":  models.AllTags,
			"Datetime": orig.Datetime.Format(dateTimeLocalLayout),
			"Err":      msg,
		})
		return
	}
	c.Redirect(http.StatusSeeOther, detailURL(event, ""))
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return "Could not load events. Please try again."
}
