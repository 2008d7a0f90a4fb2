package store

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"sync"

	"lanhub/models"
)

// Store owns the two JSON collection files and the uploads directory, plus
// one mutual-exclusion lock per resource. Every read-modify-write cycle on a
// resource happens inside a single critical section of its lock; no operation
// ever holds more than one lock at a time, and locks are never held across
// request/response transmission.
type Store struct {
	ShoppingPath string
	CalendarPath string
	UploadsDir   string

	shoppingMu sync.Mutex
	calendarMu sync.Mutex
	uploadsMu  sync.Mutex
}

// New creates a Store rooted at the given paths and ensures the uploads
// directory exists.
func New(shoppingPath, calendarPath, uploadsDir string) (*Store, error) {
	if err := os.MkdirAll(uploadsDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory '%s': %w", uploadsDir, err)
	}
	return &Store{
		ShoppingPath: shoppingPath,
		CalendarPath: calendarPath,
		UploadsDir:   uploadsDir,
	}, nil
}

// --- Shopping list ---

// Items returns the full shopping list in insertion order.
func (s *Store) Items() []string {
	s.shoppingMu.Lock()
	defer s.shoppingMu.Unlock()
	return loadArray[string](s.ShoppingPath)
}

// AddItem appends one item to the shopping list. Duplicates are allowed.
// The caller validates that name is non-empty after trimming.
func (s *Store) AddItem(name string) error {
	s.shoppingMu.Lock()
	defer s.shoppingMu.Unlock()

	items := loadArray[string](s.ShoppingPath)
	items = append(items, name)
	if err := writeArray(s.ShoppingPath, items); err != nil {
		return err
	}
	log.Printf("INFO: Added shopping item %q (list size now %d)", name, len(items))
	return nil
}

// RemoveItem deletes every entry exactly equal to name and returns how many
// were removed. Removing a name with no matches is a no-op, not an error.
func (s *Store) RemoveItem(name string) (int, error) {
	s.shoppingMu.Lock()
	defer s.shoppingMu.Unlock()

	items := loadArray[string](s.ShoppingPath)
	kept := items[:0]
	for _, it := range items {
		if it != name {
			kept = append(kept, it)
		}
	}
	removed := len(items) - len(kept)
	if err := writeArray(s.ShoppingPath, kept); err != nil {
		return 0, err
	}
	if removed > 0 {
		log.Printf("INFO: Removed %d shopping item(s) equal to %q", removed, name)
	}
	return removed, nil
}

// --- Calendar ---

// EventsForMonth returns all events whose date falls in the given year and
// month. Events with a malformed or missing date are skipped.
func (s *Store) EventsForMonth(year, month int) []models.CalendarEvent {
	s.calendarMu.Lock()
	defer s.calendarMu.Unlock()

	matched := make([]models.CalendarEvent, 0)
	for _, ev := range loadArray[models.CalendarEvent](s.CalendarPath) {
		y, m, ok := splitEventDate(ev.Date())
		if ok && y == year && m == month {
			matched = append(matched, ev)
		}
	}
	return matched
}

// AddEvent appends one event to the calendar. The caller validates that the
// event carries a non-empty date and title.
func (s *Store) AddEvent(ev models.CalendarEvent) error {
	s.calendarMu.Lock()
	defer s.calendarMu.Unlock()

	events := loadArray[models.CalendarEvent](s.CalendarPath)
	events = append(events, ev)
	if err := writeArray(s.CalendarPath, events); err != nil {
		return err
	}
	log.Printf("INFO: Added calendar event %q on %s (calendar size now %d)", ev.Title(), ev.Date(), len(events))
	return nil
}

// DeleteEvent removes every event whose date and title both match the target
// pair and returns how many were removed.
func (s *Store) DeleteEvent(date, title string) (int, error) {
	s.calendarMu.Lock()
	defer s.calendarMu.Unlock()

	events := loadArray[models.CalendarEvent](s.CalendarPath)
	kept := events[:0]
	for _, ev := range events {
		if !ev.Matches(date, title) {
			kept = append(kept, ev)
		}
	}
	removed := len(events) - len(kept)
	if err := writeArray(s.CalendarPath, kept); err != nil {
		return 0, err
	}
	if removed > 0 {
		log.Printf("INFO: Removed %d calendar event(s) matching (%s, %q)", removed, date, title)
	}
	return removed, nil
}

// splitEventDate parses the leading "YYYY-MM" of an ISO date string.
func splitEventDate(date string) (year, month int, ok bool) {
	if len(date) < 7 || date[4] != '-' {
		return 0, 0, false
	}
	y, errY := strconv.Atoi(date[:4])
	m, errM := strconv.Atoi(date[5:7])
	if errY != nil || errM != nil {
		return 0, 0, false
	}
	return y, m, true
}
