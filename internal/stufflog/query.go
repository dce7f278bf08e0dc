// ABOUTME: Query engine filtering entries by rating and datetime bounds.
// ABOUTME: Also implements case-insensitive search over titles and comments.
package stufflog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"

	"github.com/2389-research/stufflog/internal/models"
)

var dateParser = newDateParser()

func newDateParser() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}

// ParseFilterTime parses a date bound. ISO 8601 timestamps are tried first,
// then natural-language expressions such as "yesterday" or "3 days ago",
// resolved against now. A natural-language match must cover the whole input.
func ParseFilterTime(s string, now time.Time) (time.Time, error) {
	if t, err := models.ParseTimestamp(s); err == nil {
		return t, nil
	}

	input := strings.TrimSpace(s)
	if input == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	r, err := dateParser.Parse(input, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse date %q: %w", s, err)
	}
	if r == nil || !strings.EqualFold(strings.TrimSpace(r.Text), input) {
		return time.Time{}, fmt.Errorf("unrecognized date %q", s)
	}
	return r.Time, nil
}

// bounds is a QueryFilter with its date bounds already parsed.
type bounds struct {
	gt, lt        *int
	after, before *time.Time
}

func (a *App) compile(filter models.QueryFilter) (bounds, error) {
	b := bounds{gt: filter.GreaterThan, lt: filter.LessThan}
	now := a.now()

	if filter.After != "" {
		t, err := ParseFilterTime(filter.After, now)
		if err != nil {
			return bounds{}, Malformed(err, "Invalid date for --after: %s", filter.After)
		}
		b.after = &t
	}
	if filter.Before != "" {
		t, err := ParseFilterTime(filter.Before, now)
		if err != nil {
			return bounds{}, Malformed(err, "Invalid date for --before: %s", filter.Before)
		}
		b.before = &t
	}
	return b, nil
}

func (b bounds) match(e models.Entry) (bool, error) {
	if b.gt != nil && !(e.Rating > *b.gt) {
		return false, nil
	}
	if b.lt != nil && !(e.Rating < *b.lt) {
		return false, nil
	}
	if b.after == nil && b.before == nil {
		return true, nil
	}

	t, err := e.Time()
	if err != nil {
		return false, Malformed(err, "Entry '%s' has an invalid datetime: %q", e.Title, e.Datetime)
	}
	if b.after != nil && !t.After(*b.after) {
		return false, nil
	}
	if b.before != nil && !t.Before(*b.before) {
		return false, nil
	}
	return true, nil
}

// Query returns the entries of a category that satisfy every bound in filter,
// in stored order. Bounds are strict. An entry without a rating counts as 0.
func (a *App) Query(ctx context.Context, category string, filter models.QueryFilter) ([]models.Entry, error) {
	sl, err := a.open(ctx, category)
	if err != nil {
		return nil, err
	}
	b, err := a.compile(filter)
	if err != nil {
		return nil, err
	}

	var results []models.Entry
	for _, e := range sl.Entries {
		ok, err := b.match(e)
		if err != nil {
			return nil, err
		}
		if ok {
			results = append(results, e)
		}
	}
	return results, nil
}

// Search returns the entries whose title or comment contains term, ignoring case.
func (a *App) Search(ctx context.Context, category, term string) ([]models.Entry, error) {
	sl, err := a.open(ctx, category)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(term)
	var results []models.Entry
	for _, e := range sl.Entries {
		if strings.Contains(strings.ToLower(e.Title), needle) ||
			(e.Comment != "" && strings.Contains(strings.ToLower(e.Comment), needle)) {
			results = append(results, e)
		}
	}
	return results, nil
}
