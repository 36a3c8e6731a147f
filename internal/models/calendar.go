package models

import "time"

// DateLayout is the wire and storage format for entry dates.
const DateLayout = "2006-01-02"

// MonthLayout is the wire format for month queries.
const MonthLayout = "2006-01"

// MoodTags holds the mood descriptors attached to an entry. Weather is a
// single value; the rest allow multiple selections.
type MoodTags struct {
	Weather  string   `json:"weather,omitempty"`
	Emotion  []string `json:"emotion,omitempty"`
	Activity []string `json:"activity,omitempty"`
	Daily    []string `json:"daily,omitempty"`
}

// IsEmpty reports whether no mood descriptor is set at all.
func (m *MoodTags) IsEmpty() bool {
	if m == nil {
		return true
	}
	return m.Weather == "" && len(m.Emotion) == 0 && len(m.Activity) == 0 && len(m.Daily) == 0
}

// Recommendation is a (platform, title) pair extracted from the model's
// free-text response.
type Recommendation struct {
	Platform string `json:"platform"`
	Title    string `json:"title"`
}

// Entry is one user's record for a single calendar date. Recommendation and
// ResultText stay nil until a recommendation has been generated; both are
// overwritten on re-runs.
type Entry struct {
	Date           string          `json:"date"`
	Moods          *MoodTags       `json:"moods,omitempty"`
	Diary          string          `json:"diary,omitempty"`
	Recommendation *Recommendation `json:"recommendation,omitempty"`
	ResultText     *string         `json:"result_text,omitempty"`
}

// Calendar is the per-user document: profile tags plus the date-keyed entry
// map. Stored and rewritten as a whole; there is no per-entry addressing in
// the store.
type Calendar struct {
	UserID          string            `json:"user_id"`
	PersonalityType string            `json:"personality_type,omitempty"`
	Platform        string            `json:"platform,omitempty"`
	Entries         map[string]*Entry `json:"entries"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// NewCalendar creates an empty calendar for a user.
func NewCalendar(userID string) *Calendar {
	return &Calendar{
		UserID:  userID,
		Entries: make(map[string]*Entry),
	}
}

// Entry returns the entry for a date, or nil.
func (c *Calendar) Entry(date string) *Entry {
	if c.Entries == nil {
		return nil
	}
	return c.Entries[date]
}

// WrittenDates returns the dates of all entries whose date falls in the
// given "YYYY-MM" month, sorted by the caller if order matters.
func (c *Calendar) WrittenDates(month string) []string {
	var dates []string
	for date := range c.Entries {
		if len(date) >= len(month) && date[:len(month)] == month {
			dates = append(dates, date)
		}
	}
	return dates
}
