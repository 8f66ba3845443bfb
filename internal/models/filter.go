package models

// SearchFilter matches events against free text.
type SearchFilter struct {
	Search string `json:"search"`
}

// RelevanceFilter ranks events by overlap with a tag set.
type RelevanceFilter struct {
	Tags []Tag `json:"tags"`
}

// DateFilter keeps events inside a datetime window. The wire name of the
// lower bound is "from_", after the backend input type.
type DateFilter struct {
	From *DateTime `json:"from_,omitempty"`
	To   *DateTime `json:"to,omitempty"`
}

// FilterInput is the oneOf filter argument of getEvents: at most one of
// the three members may be set.
type FilterInput struct {
	SearchFilter    *SearchFilter    `json:"searchFilter,omitempty"`
	RelevanceFilter *RelevanceFilter `json:"relevanceFilter,omitempty"`
	DateFilter      *DateFilter      `json:"dateFilter,omitempty"`
}
