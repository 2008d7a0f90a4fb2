package models

// AddItemRequest is the body for POST /add_item.
type AddItemRequest struct {
	Name string `json:"name"`
}

// DeleteEventRequest identifies calendar events for DELETE /delete_event.
// Deletion removes every event whose date and title both match.
type DeleteEventRequest struct {
	Date  string `json:"date"`
	Title string `json:"title"`
}

// CalendarEvent is one calendar entry. Events carry a mandatory date
// ("YYYY-MM-DD") and title plus arbitrary free-form fields supplied by the
// client, so they are kept as a plain JSON object rather than a fixed struct.
type CalendarEvent map[string]any

// Date returns the event's date string, or "" when absent or not a string.
func (e CalendarEvent) Date() string {
	s, _ := e["date"].(string)
	return s
}

// Title returns the event's title string, or "" when absent or not a string.
func (e CalendarEvent) Title() string {
	s, _ := e["title"].(string)
	return s
}

// Matches reports whether the event's (date, title) pair equals the target.
func (e CalendarEvent) Matches(date, title string) bool {
	return e.Date() == date && e.Title() == title
}

// FileInfo describes one file in the uploads directory.
type FileInfo struct {
	Name      string `json:"name"`
	SizeBytes int64  `json:"size_bytes"`
	Extension string `json:"extension"`
	MimeType  string `json:"mime_type"`
}
