package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"

	"lanhub/config"
	"lanhub/models"
	"lanhub/store"
	"lanhub/utils"
)

// GetCalendarHandler returns all events in a given month.
// @Summary      Get Calendar Events for a Month
// @Description  Returns every calendar event whose date ("YYYY-MM-DD") falls in the given month and year, as a JSON array of event objects.
// @Tags         Calendar
// @Produce      json
// @Param        month query int true "Month (1-12)."
// @Param        year  query int true "Four-digit year."
// @Success      200  {array}   models.CalendarEvent "Events in that month."
// @Failure      400  {object}  utils.APIError "Missing or non-integer month/year."
// @Router       /calendar [get]
func GetCalendarHandler(c *gin.Context, st *store.Store, cfg *config.Config) {
	month, errMonth := strconv.Atoi(c.Query("month"))
	year, errYear := strconv.Atoi(c.Query("year"))
	if errMonth != nil || errYear != nil {
		utils.GinBadRequest(c, "Query parameters 'month' and 'year' are required and must be integers.")
		return
	}

	c.JSON(http.StatusOK, st.EventsForMonth(year, month))
}

// AddEventHandler appends one event to the calendar. The body must be a JSON
// object with non-empty "date" and "title" strings; any additional fields are
// stored verbatim with the event, so the body is inspected with gjson instead
// of being forced through a fixed struct.
// @Summary      Add a Calendar Event
// @Description  Stores a calendar event. The body must be a JSON object with a non-empty "date" ("YYYY-MM-DD") and "title"; extra fields are preserved as-is.
// @Tags         Calendar
// @Accept       json
// @Produce      plain
// @Success      200  {string}  string "Event added"
// @Failure      400  {object}  utils.APIError "Malformed JSON or missing date/title."
// @Router       /add_event [post]
func AddEventHandler(c *gin.Context, st *store.Store, cfg *config.Config) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.GinBadRequest(c, "Failed to read request body.")
		return
	}
	if !gjson.ValidBytes(body) || !gjson.ParseBytes(body).IsObject() {
		utils.GinBadRequest(c, "Body must be a JSON object.")
		return
	}
	if gjson.GetBytes(body, "date").String() == "" || gjson.GetBytes(body, "title").String() == "" {
		utils.GinBadRequest(c, "Fields 'date' and 'title' are required.")
		return
	}

	var event models.CalendarEvent
	if err := json.Unmarshal(body, &event); err != nil {
		utils.GinBadRequest(c, "Invalid JSON body.")
		return
	}

	if err := st.AddEvent(event); err != nil {
		utils.GinInternalServerError(c, "Failed to save calendar: "+err.Error())
		return
	}

	c.String(http.StatusOK, "Event added")
}

// DeleteEventHandler removes every event matching the given (date, title)
// pair. Deleting with no matches is a no-op that still returns 200.
// @Summary      Delete Calendar Events
// @Description  Removes every event whose date and title both equal the given values.
// @Tags         Calendar
// @Accept       json
// @Produce      plain
// @Param        target body models.DeleteEventRequest true "Date and title identifying the events."
// @Success      200  {string}  string "Event removed"
// @Failure      400  {object}  utils.APIError "Malformed JSON."
// @Router       /delete_event [delete]
func DeleteEventHandler(c *gin.Context, st *store.Store, cfg *config.Config) {
	var req models.DeleteEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.GinBadRequest(c, "Invalid JSON body.")
		return
	}

	if _, err := st.DeleteEvent(req.Date, req.Title); err != nil {
		utils.GinInternalServerError(c, "Failed to save calendar: "+err.Error())
		return
	}

	c.String(http.StatusOK, "Event removed")
}
