// ABOUTME: Core data models for stufflog categories, entries, and query filters.
// ABOUTME: Entries keep insertion order and are keyed by their unique title.
package models

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Entry is a single logged item within a stufflog.
type Entry struct {
	Title    string
	Datetime string // ISO-8601, fixed at creation
	Rating   int
	Comment  string // empty when none was supplied

	// raw holds the file's value for an entry with a field that could not
	// be read. It is written back verbatim so saving never rewrites it.
	raw *yaml.Node
}

// NewEntry creates an entry stamped with the given creation time.
func NewEntry(title string, rating int, comment string, createdAt time.Time) Entry {
	return Entry{
		Title:    title,
		Datetime: FormatTimestamp(createdAt),
		Rating:   rating,
		Comment:  comment,
	}
}

// Time parses the entry's Datetime field.
func (e Entry) Time() (time.Time, error) {
	if e.Datetime == "" {
		return time.Time{}, fmt.Errorf("entry %q has no Datetime", e.Title)
	}
	t, err := ParseTimestamp(e.Datetime)
	if err != nil {
		return time.Time{}, fmt.Errorf("entry %q: %w", e.Title, err)
	}
	return t, nil
}

// Stufflog is one category's journal: an insertion-ordered set of entries
// with unique titles. The zero value is an empty, usable stufflog.
type Stufflog struct {
	Entries []Entry

	warnings []string
}

// New returns an empty stufflog.
func New() *Stufflog {
	return &Stufflog{Entries: []Entry{}}
}

// Len returns the number of entries.
func (s *Stufflog) Len() int {
	return len(s.Entries)
}

// Warnings describes entries that were loaded leniently because a field
// could not be read.
func (s *Stufflog) Warnings() []string {
	return s.warnings
}

// Has reports whether an entry with exactly this title exists.
func (s *Stufflog) Has(title string) bool {
	return s.index(title) >= 0
}

// Get returns the entry with the given title.
func (s *Stufflog) Get(title string) (Entry, bool) {
	i := s.index(title)
	if i < 0 {
		return Entry{}, false
	}
	return s.Entries[i], true
}

// Add appends an entry. It fails if the title is already taken.
func (s *Stufflog) Add(e Entry) error {
	if s.Has(e.Title) {
		return fmt.Errorf("entry %q already exists", e.Title)
	}
	s.Entries = append(s.Entries, e)
	return nil
}

// Remove deletes the entry with the given title, reporting whether it existed.
func (s *Stufflog) Remove(title string) bool {
	i := s.index(title)
	if i < 0 {
		return false
	}
	s.Entries = append(s.Entries[:i], s.Entries[i+1:]...)
	return true
}

// Titles returns entry titles in stored order.
func (s *Stufflog) Titles() []string {
	titles := make([]string, len(s.Entries))
	for i, e := range s.Entries {
		titles[i] = e.Title
	}
	return titles
}

// put inserts or replaces an entry, keeping the position of an existing title.
func (s *Stufflog) put(e Entry) {
	if i := s.index(e.Title); i >= 0 {
		s.Entries[i] = e
		return
	}
	s.Entries = append(s.Entries, e)
}

func (s *Stufflog) index(title string) int {
	for i := range s.Entries {
		if s.Entries[i].Title == title {
			return i
		}
	}
	return -1
}

// QueryFilter holds optional strict bounds used to select entries.
// Unset bounds (nil or empty) impose no constraint; set bounds are ANDed.
type QueryFilter struct {
	GreaterThan *int
	LessThan    *int
	After       string
	Before      string
}

// IsZero reports whether no bound is set.
func (f QueryFilter) IsZero() bool {
	return f.GreaterThan == nil && f.LessThan == nil && f.After == "" && f.Before == ""
}

// HasDateBounds reports whether After or Before is set.
func (f QueryFilter) HasDateBounds() bool {
	return f.After != "" || f.Before != ""
}
