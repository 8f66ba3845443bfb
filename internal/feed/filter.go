package feed

import (
	"sync"
	"time"

	"github.com/HaseebAmer/bytecon/internal/models"
)

// Mode selects which event filter is active. Exactly one mode is in
// effect at a time.
type Mode string

const (
	ModeNone      Mode = ""
	ModeSearch    Mode = "searchFilter"
	ModeDate      Mode = "dateFilter"
	ModeRelevance Mode = "relevanceFilter"
)

// ParseMode maps a form value to a filter mode, defaulting to none.
func ParseMode(s string) Mode {
	switch Mode(s) {
	case ModeSearch, ModeDate, ModeRelevance:
		return Mode(s)
	}
	return ModeNone
}

// Builder accumulates the UI filter inputs and translates them into the
// single filter argument the events service accepts. Switching modes
// clears the other modes' transient inputs; any mutation invalidates the
// feed built under the previous inputs, so callers reset after calling
// one. A Builder is shared by every request of one user, so all methods
// are safe for concurrent use.
type Builder struct {
	mu       sync.Mutex
	mode     Mode
	search   string
	from     time.Time
	to       time.Time
	selected []models.Tag

	now func() time.Time
}

// NewBuilder seeds the date window at now .. now+1 month. now may be nil
// to use the wall clock.
func NewBuilder(now func() time.Time) *Builder {
	if now == nil {
		now = time.Now
	}
	b := &Builder{now: now}
	b.resetDates()
	return b
}

func (b *Builder) resetDates() {
	t := b.now()
	b.from = t
	b.to = t.AddDate(0, 1, 0)
}

// Mode returns the active filter mode.
func (b *Builder) Mode() Mode {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mode
}

// Search returns the current free-text query.
func (b *Builder) Search() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.search
}

// Dates returns the current date window.
func (b *Builder) Dates() (from, to time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.from, b.to
}

// Selected returns a copy of the explicitly chosen relevance tags.
func (b *Builder) Selected() []models.Tag {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.Tag(nil), b.selected...)
}

// SetMode switches the filter mode, clearing every other mode's inputs.
func (b *Builder) SetMode(m Mode) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.setMode(m)
}

// setMode is SetMode with the lock already held.
func (b *Builder) setMode(m Mode) {
	b.mode = m
	if m != ModeSearch {
		b.search = ""
	}
	b.selected = nil
	b.resetDates()
}

// SetSearch updates the free-text query and forces search mode.
func (b *Builder) SetSearch(q string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.mode != ModeSearch {
		b.setMode(ModeSearch)
	}
	b.search = q
}

// SetFrom moves the window's lower bound. A lower bound past the current
// upper bound drags the upper bound to exactly one month after it.
func (b *Builder) SetFrom(t time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.from = t
	if t.After(b.to) {
		b.to = t.AddDate(0, 1, 0)
	}
}

// SetTo moves the window's upper bound.
func (b *Builder) SetTo(t time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.to = t
}

// SetTags replaces the explicit relevance tag selection.
func (b *Builder) SetTags(tags []models.Tag) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.selected = append([]models.Tag(nil), tags...)
}

// ToggleTag flips one tag in the relevance selection.
func (b *Builder) ToggleTag(tag models.Tag) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, t := range b.selected {
		if t == tag {
			b.selected = append(b.selected[:i], b.selected[i+1:]...)
			return
		}
	}
	b.selected = append(b.selected, tag)
}

// Spec produces the filter argument for the active mode. interests is the
// signed-in user's profile interest set, used as the relevance fallback
// when no tags are explicitly selected; it may be nil, in which case the
// fallback is the empty tag set rather than a failure. A nil return means
// no filtering.
func (b *Builder) Spec(interests []models.Tag) *models.FilterInput {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch b.mode {
	case ModeSearch:
		if b.search == "" {
			return nil
		}
		return &models.FilterInput{
			SearchFilter: &models.SearchFilter{Search: b.search},
		}
	case ModeDate:
		from := models.NewDateTime(b.from)
		to := models.NewDateTime(b.to)
		return &models.FilterInput{
			DateFilter: &models.DateFilter{From: &from, To: &to},
		}
	case ModeRelevance:
		tags := append([]models.Tag(nil), b.selected...)
		if len(tags) == 0 {
			tags = interests
		}
		if tags == nil {
			tags = []models.Tag{}
		}
		return &models.FilterInput{
			RelevanceFilter: &models.RelevanceFilter{Tags: tags},
		}
	default:
		return nil
	}
}
