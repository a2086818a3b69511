package puzzle

import (
	"errors"
	"strings"
	"time"

	"escaperoom/pkg/models"
)

// ErrEmptyInput is returned when there is nothing to reduce.
var ErrEmptyInput = errors.New("empty input")

// Layouts tried in order. Zone-less values are read as UTC.
var publishedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006-01",
	"2006",
	time.RFC1123Z,
	time.RFC1123,
	"2006/01/02",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
}

// ParsePublished reads a published date. ok is false for strings no layout
// accepts; such a date compares false against everything.
func ParsePublished(s string) (t time.Time, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range publishedLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// MostRecentBook returns the book with the latest published date.
//
// The running maximum starts at books[0] and is replaced only by a strictly
// later date, so on ties the earlier book wins. An invalid date never
// compares greater, and once it is the running maximum nothing replaces it.
func MostRecentBook(books []models.Book) (models.Book, error) {
	if len(books) == 0 {
		return models.Book{}, ErrEmptyInput
	}

	best := books[0]
	bestAt, bestOK := ParsePublished(best.Published)

	for _, b := range books[1:] {
		at, ok := ParsePublished(b.Published)
		if ok && bestOK && at.After(bestAt) {
			best, bestAt = b, at
		}
	}
	return best, nil
}
